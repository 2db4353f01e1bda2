package mozilla

// loginsFile mirrors the subset of the logins.json schema Firefox writes
// that the decryptor needs. Both credential fields are base64-encoded
// SDR-encrypted items; the hostname is plaintext.
type loginsFile struct {
	Logins []loginRecord `json:"logins"`
}

type loginRecord struct {
	Hostname          string `json:"hostname"`
	EncryptedUsername string `json:"encryptedUsername"`
	EncryptedPassword string `json:"encryptedPassword"`
}
