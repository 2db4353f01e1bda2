package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
)

type fakeChromiumReader struct {
	entries []model.DecryptedEntry
	errs    []string
	calls   []string
}

func (f *fakeChromiumReader) Read(_ context.Context, storePath string) ([]model.DecryptedEntry, []string) {
	f.calls = append(f.calls, storePath)
	return f.entries, f.errs
}

type fakeFirefoxReader struct {
	entries []model.DecryptedEntry
	errs    []string
	calls   []string
}

func (f *fakeFirefoxReader) DecryptProfile(profileDir, _ string) ([]model.DecryptedEntry, []string) {
	f.calls = append(f.calls, profileDir)
	return f.entries, f.errs
}

type fakeSink struct {
	labels  []string
	emitErr error
}

func (f *fakeSink) EmitReport(context.Context, *model.ScanReport) error { return f.emitErr }

func (f *fakeSink) WriteArtifact(label, runID string, _ []model.DecryptedEntry) (string, error) {
	f.labels = append(f.labels, label)
	return filepath.Join("out", fmt.Sprintf("browser_%s_%s.txt", label, runID)), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestRun_EdgeOnlyWithOneCorruptRow(t *testing.T) {
	// Chrome store absent, Edge store present with 3 rows: 2 decrypted,
	// 1 placeholder with one error, no Firefox profiles.
	root := t.TempDir()
	edgePath := filepath.Join(root, "edge", "Login Data")
	touch(t, edgePath)

	chromium := &fakeChromiumReader{
		entries: []model.DecryptedEntry{
			{Origin: "https://a.com", Username: "alice", Secret: "pw-one", Decrypted: true},
			{Origin: "https://b.com", Username: "bob", Secret: "pw-two", Decrypted: true},
			{Origin: "https://c.com", Username: "carol"},
		},
		errs: []string{"decrypt row 3 (https://c.com): envelope authentication failed"},
	}
	firefox := &fakeFirefoxReader{}
	sink := &fakeSink{}

	locations := Locations{
		ChromiumSources: []model.CredentialSource{
			{Kind: model.SourceChromium, Browser: "chrome", StorePath: filepath.Join(root, "chrome", "Login Data")},
			{Kind: model.SourceChromium, Browser: "edge", StorePath: edgePath},
		},
		FirefoxProfilesDir: filepath.Join(root, "firefox-profiles"),
	}

	svc := NewScanService(chromium, firefox, sink, locations, "run-1", false, discardLogger())
	rep := svc.Run(context.Background())

	assert.False(t, rep.ChromeFound)
	assert.True(t, rep.EdgeFound)
	assert.Equal(t, 2, rep.EntriesDecrypted)
	assert.Len(t, rep.Errors, 1)
	assert.Equal(t, 0, rep.FirefoxProfilesScanned)

	require.Len(t, chromium.calls, 1, "absent chrome store must not be read")
	assert.Equal(t, edgePath, chromium.calls[0])
	assert.Empty(t, firefox.calls)
	assert.Equal(t, []string{"edge"}, sink.labels)
	assert.Len(t, rep.ArtifactPaths, 1)
}

func TestRun_FirefoxProfileDiscovery(t *testing.T) {
	root := t.TempDir()
	profilesDir := filepath.Join(root, "Profiles")

	complete := filepath.Join(profilesDir, "abc123.default-release")
	touch(t, filepath.Join(complete, "logins.json"))
	touch(t, filepath.Join(complete, "key4.db"))

	// Missing key4.db: not a scannable profile.
	incomplete := filepath.Join(profilesDir, "zzz.no-keydb")
	touch(t, filepath.Join(incomplete, "logins.json"))

	firefox := &fakeFirefoxReader{
		entries: []model.DecryptedEntry{
			{Origin: "https://mail.example.com", Username: "alice", Secret: "pw", Decrypted: true},
		},
	}
	sink := &fakeSink{}

	locations := Locations{FirefoxProfilesDir: profilesDir}
	svc := NewScanService(&fakeChromiumReader{}, firefox, sink, locations, "run-2", false, discardLogger())
	rep := svc.Run(context.Background())

	assert.Equal(t, 1, rep.FirefoxProfilesScanned)
	assert.Equal(t, 1, rep.FirefoxDecrypted)
	assert.Equal(t, 1, rep.EntriesDecrypted)
	require.Len(t, firefox.calls, 1)
	assert.Equal(t, complete, firefox.calls[0])
	assert.Equal(t, []string{"firefox_abc123.default-release"}, sink.labels)
}

func TestRun_ErrorsAccumulateAcrossSources(t *testing.T) {
	root := t.TempDir()
	chromePath := filepath.Join(root, "chrome", "Login Data")
	edgePath := filepath.Join(root, "edge", "Login Data")
	touch(t, chromePath)
	touch(t, edgePath)

	profilesDir := filepath.Join(root, "Profiles")
	profile := filepath.Join(profilesDir, "p1")
	touch(t, filepath.Join(profile, "logins.json"))
	touch(t, filepath.Join(profile, "key4.db"))

	chromium := &fakeChromiumReader{errs: []string{"copy failed"}}
	firefox := &fakeFirefoxReader{errs: []string{"nss3.dll not found"}}

	locations := Locations{
		ChromiumSources: []model.CredentialSource{
			{Kind: model.SourceChromium, Browser: "chrome", StorePath: chromePath},
			{Kind: model.SourceChromium, Browser: "edge", StorePath: edgePath},
		},
		FirefoxProfilesDir: profilesDir,
	}
	svc := NewScanService(chromium, firefox, &fakeSink{}, locations, "run-3", false, discardLogger())
	rep := svc.Run(context.Background())

	// One error per Chromium store, one for the Firefox profile; a hard
	// failure in one source never stops the next.
	assert.Len(t, rep.Errors, 3)
	assert.Len(t, chromium.calls, 2)
	assert.Len(t, firefox.calls, 1)
	assert.Equal(t, 0, rep.EntriesDecrypted)
}

func TestRun_DryRunReadsNothing(t *testing.T) {
	chromium := &fakeChromiumReader{}
	firefox := &fakeFirefoxReader{}

	svc := NewScanService(chromium, firefox, &fakeSink{}, DefaultLocations(), "run-4", true, discardLogger())
	rep := svc.Run(context.Background())

	assert.True(t, rep.DryRun)
	assert.Empty(t, rep.Errors)
	assert.Empty(t, chromium.calls)
	assert.Empty(t, firefox.calls)
	assert.Equal(t, "run-4", rep.RunID)
}

func TestDiscoverFirefoxProfiles_MissingRoot(t *testing.T) {
	profiles := discoverFirefoxProfiles(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, profiles)
}
