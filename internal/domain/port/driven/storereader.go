package driven

import (
	"context"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
)

// ChromiumStoreReader extracts saved logins from one Chromium-family login
// database. It never fails the whole read: invalid rows become placeholder
// entries plus an error string, and a source-level failure yields zero
// entries plus one error.
type ChromiumStoreReader interface {
	Read(ctx context.Context, storePath string) ([]model.DecryptedEntry, []string)
}

// FirefoxProfileReader extracts saved logins from one Firefox profile via
// the foreign decrypt capability. Fatal conditions (library or symbols
// missing, unparseable logins file) abort only that profile.
type FirefoxProfileReader interface {
	DecryptProfile(profileDir, loginsPath string) ([]model.DecryptedEntry, []string)
}
