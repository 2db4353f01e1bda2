package model

import "time"

// ScanReport is the single aggregate artifact of one extraction run.
// Exactly one is produced per run, even when every source failed.
type ScanReport struct {
	RunID                  string    `json:"run_id"`
	Timestamp              time.Time `json:"timestamp"`
	DryRun                 bool      `json:"dry_run"`
	ChromeFound            bool      `json:"chrome_found"`
	EdgeFound              bool      `json:"edge_found"`
	FirefoxProfilesScanned int       `json:"firefox_profiles_scanned"`
	FirefoxDecrypted       int       `json:"firefox_decrypted"`
	EntriesDecrypted       int       `json:"entries_decrypted"`
	ArtifactPaths          []string  `json:"artifact_paths"`
	Errors                 []string  `json:"errors"`
	ElapsedMS              int64     `json:"elapsed_ms"`
	Parent                 string    `json:"parent"`
}

// ScanRecord is the persisted summary row for a completed run. Individual
// error strings live in the report files; only the count is stored.
type ScanRecord struct {
	ID                     int64
	RunID                  string
	StartedAt              time.Time
	DryRun                 bool
	ChromeFound            bool
	EdgeFound              bool
	FirefoxProfilesScanned int
	EntriesDecrypted       int
	ErrorCount             int
	ElapsedMS              int64
}
