package model

// SourceKind distinguishes the two families of credential stores the
// scanner knows how to read.
type SourceKind string

const (
	SourceChromium SourceKind = "chromium"
	SourceFirefox  SourceKind = "firefox"
)

// CredentialSource identifies one discovered credential store on the host.
// Chromium sources carry one store per browser; Firefox sources carry one
// per profile directory that holds both logins.json and key4.db.
type CredentialSource struct {
	Kind        SourceKind
	Browser     string // "chrome", "edge", "firefox"
	StorePath   string // Login Data path (Chromium) or logins.json path (Firefox)
	ProfilePath string // Firefox profile directory; empty for Chromium
}
