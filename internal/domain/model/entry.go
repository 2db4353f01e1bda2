package model

// DecryptedEntry is the per-record result of an extraction pass. Decrypted
// is false when the secret was absent or could not be recovered; the entry
// is still emitted so no record is silently dropped.
type DecryptedEntry struct {
	Origin    string
	Username  string
	Secret    string
	Decrypted bool
}
