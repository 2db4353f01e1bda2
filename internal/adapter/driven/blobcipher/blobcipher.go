// Package blobcipher decrypts the ciphertext envelopes Chromium-family
// browsers persist in their login databases. Two schemes exist: "v10"/"v11"
// envelopes sealed with AES-256-GCM under a per-profile master key, and
// legacy blobs protected directly by the platform secret service.
package blobcipher

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

const (
	prefixLen = 3  // "v10" / "v11"
	nonceSize = 12 // 96-bit GCM nonce at raw[3:15]
	keySize   = 32
)

var (
	// ErrMasterKeyMissing reports a v10/v11 envelope with no master key to
	// decrypt it under.
	ErrMasterKeyMissing = errors.New("versioned envelope requires a master key")

	// ErrMasterKeyLength reports a master key that is not 32 bytes.
	ErrMasterKeyLength = errors.New("master key must be 32 bytes")

	// ErrAuthFailed reports a GCM tag mismatch: the envelope was tampered
	// with or sealed under a different key.
	ErrAuthFailed = errors.New("envelope authentication failed")

	// ErrPlatformUnwrap reports a hard failure of the platform secret-unwrap
	// primitive on a legacy blob.
	ErrPlatformUnwrap = errors.New("platform secret unwrap failed")
)

var versionTags = [][]byte{[]byte("v10"), []byte("v11")}

// Cipher holds the platform unwrapper used for legacy (untagged) blobs.
type Cipher struct {
	unwrapper driven.SecretUnwrapper
}

// New creates a Cipher that delegates legacy blobs to unwrapper.
func New(unwrapper driven.SecretUnwrapper) *Cipher {
	return &Cipher{unwrapper: unwrapper}
}

// Decrypt recovers the plaintext secret from one raw envelope. ok is false
// when the secret is legitimately absent (empty or undecryptable-in-context
// blob, or a truncated versioned envelope); that is not an error. raw is
// never modified, and identical (raw, masterKey) inputs yield identical
// results.
func (c *Cipher) Decrypt(raw, masterKey []byte) (secret string, ok bool, err error) {
	if hasVersionTag(raw) {
		return c.decryptVersioned(raw, masterKey)
	}
	return c.unwrapLegacy(raw)
}

func (c *Cipher) decryptVersioned(raw, masterKey []byte) (string, bool, error) {
	if masterKey == nil {
		return "", false, ErrMasterKeyMissing
	}
	if len(masterKey) != keySize {
		return "", false, fmt.Errorf("%w: got %d", ErrMasterKeyLength, len(masterKey))
	}
	if len(raw) < prefixLen+nonceSize {
		// Truncated envelope; treated as an absent secret.
		return "", false, nil
	}

	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return "", false, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", false, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := raw[prefixLen : prefixLen+nonceSize]
	ciphertext := raw[prefixLen+nonceSize:]

	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	return lossyString(plain), true, nil
}

func (c *Cipher) unwrapLegacy(raw []byte) (string, bool, error) {
	plain, err := c.unwrapper.Unwrap(raw)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrPlatformUnwrap, err)
	}
	if len(plain) == 0 {
		return "", false, nil
	}
	return lossyString(plain), true, nil
}

func hasVersionTag(raw []byte) bool {
	if len(raw) < prefixLen {
		return false
	}
	for _, tag := range versionTags {
		if bytes.HasPrefix(raw, tag) {
			return true
		}
	}
	return false
}

// lossyString decodes bytes as UTF-8, replacing invalid sequences.
func lossyString(b []byte) string {
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
