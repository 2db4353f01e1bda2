package driven

// ForeignDecryptor is a loaded session of an external cryptographic library
// (Mozilla NSS) exposing the three entry points needed to decrypt stored
// logins. A session is scoped to one profile: Init once before any Decrypt,
// Shutdown exactly once after, regardless of per-item outcomes.
//
// Init and Shutdown errors reflect non-zero library status and are warnings
// to the caller, not fatal conditions; load and symbol-resolution failures
// surface earlier, from whatever constructed the session.
type ForeignDecryptor interface {
	Init(profileDir string) error
	Decrypt(encrypted []byte) ([]byte, error)
	Shutdown() error
}
