// Package mozilla decrypts Firefox saved logins by driving the NSS shared
// library through the foreign decrypt capability port.
package mozilla

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FirefoxProfileReader = (*Decryptor)(nil)

// LoadFunc opens one NSS session for the library at libPath. The loader is
// responsible for making the library's sibling dependencies resolvable from
// its own directory without mutating process-wide state.
type LoadFunc func(libPath string) (driven.ForeignDecryptor, error)

// Decryptor extracts Firefox logins one profile at a time. Each profile
// gets its own library session, stood up before the entry loop and torn
// down exactly once after it.
type Decryptor struct {
	load        LoadFunc
	installDirs []string
	logger      *slog.Logger
}

// NewDecryptor creates a Decryptor. installDirs are searched for the NSS
// library before the profile directory itself.
func NewDecryptor(load LoadFunc, installDirs []string, logger *slog.Logger) *Decryptor {
	return &Decryptor{load: load, installDirs: installDirs, logger: logger}
}

// DefaultInstallDirs returns the standard browser install directories to
// search for the NSS library on this OS.
func DefaultInstallDirs() []string {
	switch runtime.GOOS {
	case "windows":
		programFiles := os.Getenv("PROGRAMFILES")
		if programFiles == "" {
			programFiles = `C:\Program Files`
		}
		return []string{filepath.Join(programFiles, "Mozilla Firefox")}
	case "darwin":
		return []string{"/Applications/Firefox.app/Contents/MacOS"}
	default:
		return []string{"/usr/lib/firefox", "/usr/lib64/firefox", "/usr/lib"}
	}
}

// nssLibName is the platform file name of the NSS shared library.
func nssLibName() string {
	switch runtime.GOOS {
	case "windows":
		return "nss3.dll"
	case "darwin":
		return "libnss3.dylib"
	default:
		return "libnss3.so"
	}
}

// DecryptProfile parses loginsPath, loads the NSS library, and decrypts
// every login entry. Fatal conditions (unparseable logins file, library or
// symbols missing) abort only this profile with one error; per-entry
// failures record one error naming the host and both field outcomes and
// skip the entry. Shutdown runs exactly once per loaded session.
func (d *Decryptor) DecryptProfile(profileDir, loginsPath string) ([]model.DecryptedEntry, []string) {
	var entries []model.DecryptedEntry
	var errs []string

	content, err := os.ReadFile(loginsPath)
	if err != nil {
		return nil, []string{fmt.Sprintf("read %s: %v", loginsPath, err)}
	}
	var parsed loginsFile
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, []string{fmt.Sprintf("parse %s: %v", loginsPath, err)}
	}

	libPath := d.findLibrary(profileDir)
	if libPath == "" {
		return nil, []string{fmt.Sprintf(
			"%s not found for profile %s (searched %s and the profile directory)",
			nssLibName(), profileDir, strings.Join(d.installDirs, ", "))}
	}

	session, err := d.load(libPath)
	if err != nil {
		return nil, []string{fmt.Sprintf("load %s: %v", libPath, err)}
	}
	if err := session.Init(profileDir); err != nil {
		// Non-zero init status may still decrypt on some builds.
		d.logger.Warn("nss init reported an error, continuing", "profile", profileDir, "error", err)
	}
	defer func() {
		if err := session.Shutdown(); err != nil {
			d.logger.Warn("nss shutdown reported an error", "profile", profileDir, "error", err)
		}
	}()

	for _, login := range parsed.Logins {
		user, userErr := decryptField(session, login.EncryptedUsername)
		pass, passErr := decryptField(session, login.EncryptedPassword)
		if userErr != nil || passErr != nil {
			errs = append(errs, fmt.Sprintf("decrypt failed for %s: username=%s, password=%s",
				login.Hostname, outcome(userErr), outcome(passErr)))
			continue
		}
		entries = append(entries, model.DecryptedEntry{
			Origin:    login.Hostname,
			Username:  user,
			Secret:    pass,
			Decrypted: true,
		})
	}

	return entries, errs
}

// findLibrary returns the first existing NSS library path, checking the
// install directories first and the profile directory last.
func (d *Decryptor) findLibrary(profileDir string) string {
	candidates := make([]string, 0, len(d.installDirs)+1)
	for _, dir := range d.installDirs {
		candidates = append(candidates, filepath.Join(dir, nssLibName()))
	}
	candidates = append(candidates, filepath.Join(profileDir, nssLibName()))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func decryptField(session driven.ForeignDecryptor, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64: %v", err)
	}
	plain, err := session.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(plain), string(utf8.RuneError)), nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}
