// Package chromium reads Chromium-family login databases (Chrome, Edge) and
// resolves the per-profile master key guarding their v10/v11 envelopes.
package chromium

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

const (
	localStateName    = "Local State"
	encryptedKeyPath  = "os_crypt.encrypted_key"
	parentSearchDepth = 5
)

// dpapiMarker prefixes the wrapped key bytes in Local State.
var dpapiMarker = []byte("DPAPI")

// KeyResolver locates and unwraps the AES master key for one Chromium
// profile. The key never leaves the resolver's caller and is discarded at
// run end.
type KeyResolver struct {
	unwrapper driven.SecretUnwrapper
	logger    *slog.Logger
}

// NewKeyResolver creates a KeyResolver backed by the given platform
// unwrapper.
func NewKeyResolver(unwrapper driven.SecretUnwrapper, logger *slog.Logger) *KeyResolver {
	return &KeyResolver{unwrapper: unwrapper, logger: logger}
}

// ResolveMasterKey walks up from storePath looking for the sibling
// "Local State" file and unwraps os_crypt.encrypted_key from it.
//
// A (nil, nil) return means no key is available and the caller should fall
// back to legacy decryption for every record of that store: the Local State
// file or the encrypted_key field is absent, or the platform unwrap failed
// (fail-open; the unwrap may have run under a mismatched user context, but
// that ambiguity is not detectable here). Malformed JSON or base64 is an
// error.
func (r *KeyResolver) ResolveMasterKey(storePath string) ([]byte, error) {
	statePath := findLocalState(storePath)
	if statePath == "" {
		return nil, nil
	}

	content, err := os.ReadFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", statePath, err)
	}
	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("parse %s: not valid JSON", statePath)
	}

	encKey := gjson.GetBytes(content, encryptedKeyPath)
	if !encKey.Exists() {
		return nil, nil
	}

	wrapped, err := base64.StdEncoding.DecodeString(encKey.String())
	if err != nil {
		return nil, fmt.Errorf("decode encrypted_key in %s: %w", statePath, err)
	}
	wrapped = bytes.TrimPrefix(wrapped, dpapiMarker)

	key, err := r.unwrapper.Unwrap(wrapped)
	if err != nil || key == nil {
		r.logger.Warn("master key unwrap failed, store downgraded to legacy decryption",
			"local_state", statePath, "error", err)
		return nil, nil
	}
	return key, nil
}

// findLocalState checks up to parentSearchDepth parent directories of
// storePath for a file named "Local State".
func findLocalState(storePath string) string {
	dir := filepath.Dir(storePath)
	for i := 0; i < parentSearchDepth; i++ {
		candidate := filepath.Join(dir, localStateName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
