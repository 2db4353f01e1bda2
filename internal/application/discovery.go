package application

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
)

// Locations holds the well-known credential store paths for one host. Tests
// construct their own; production uses DefaultLocations.
type Locations struct {
	ChromiumSources    []model.CredentialSource
	FirefoxProfilesDir string
}

// DefaultLocations returns the fixed per-OS profile locations for Chrome,
// Edge, and the Firefox profiles root. Order is significant: Chrome first,
// then Edge, matching the scan order.
func DefaultLocations() Locations {
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		appData := os.Getenv("APPDATA")
		return Locations{
			ChromiumSources: []model.CredentialSource{
				chromiumSource("chrome", filepath.Join(localAppData, "Google", "Chrome", "User Data", "Default", "Login Data")),
				chromiumSource("edge", filepath.Join(localAppData, "Microsoft", "Edge", "User Data", "Default", "Login Data")),
			},
			FirefoxProfilesDir: filepath.Join(appData, "Mozilla", "Firefox", "Profiles"),
		}
	case "darwin":
		home, _ := os.UserHomeDir()
		appSupport := filepath.Join(home, "Library", "Application Support")
		return Locations{
			ChromiumSources: []model.CredentialSource{
				chromiumSource("chrome", filepath.Join(appSupport, "Google", "Chrome", "Default", "Login Data")),
				chromiumSource("edge", filepath.Join(appSupport, "Microsoft Edge", "Default", "Login Data")),
			},
			FirefoxProfilesDir: filepath.Join(appSupport, "Firefox", "Profiles"),
		}
	default:
		home, _ := os.UserHomeDir()
		return Locations{
			ChromiumSources: []model.CredentialSource{
				chromiumSource("chrome", filepath.Join(home, ".config", "google-chrome", "Default", "Login Data")),
				chromiumSource("edge", filepath.Join(home, ".config", "microsoft-edge", "Default", "Login Data")),
			},
			FirefoxProfilesDir: filepath.Join(home, ".mozilla", "firefox"),
		}
	}
}

func chromiumSource(browser, storePath string) model.CredentialSource {
	return model.CredentialSource{
		Kind:      model.SourceChromium,
		Browser:   browser,
		StorePath: storePath,
	}
}

// discoverFirefoxProfiles enumerates profilesDir for directories containing
// both logins.json and key4.db, yielding one source per complete profile.
// A missing or unreadable profiles root yields no sources and no error; that
// is the source-absent case.
func discoverFirefoxProfiles(profilesDir string) []model.CredentialSource {
	dirEntries, err := os.ReadDir(profilesDir)
	if err != nil {
		return nil
	}

	var sources []model.CredentialSource
	for _, entry := range dirEntries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(profilesDir, entry.Name())
		logins := filepath.Join(dir, "logins.json")
		keyDB := filepath.Join(dir, "key4.db")
		if fileExists(logins) && fileExists(keyDB) {
			sources = append(sources, model.CredentialSource{
				Kind:        model.SourceFirefox,
				Browser:     "firefox",
				StorePath:   logins,
				ProfilePath: dir,
			})
		}
	}
	return sources
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
