package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ScanStore = (*ScanRepo)(nil)

// ScanRepo is the SQLite implementation of the ScanStore port. It keeps one
// summary row per run; plaintext secrets never reach this database.
type ScanRepo struct {
	db *DB
}

// NewScanRepo creates a new ScanRepo.
func NewScanRepo(db *DB) *ScanRepo {
	return &ScanRepo{db: db}
}

// Save records the summary row for a completed run.
func (r *ScanRepo) Save(ctx context.Context, report *model.ScanReport) error {
	const query = `INSERT INTO scans
		(run_id, started_at, dry_run, chrome_found, edge_found, firefox_profiles_scanned, entries_decrypted, error_count, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Conn.ExecContext(ctx, query,
		report.RunID,
		report.Timestamp.UTC().Format(time.RFC3339),
		boolToInt(report.DryRun),
		boolToInt(report.ChromeFound),
		boolToInt(report.EdgeFound),
		report.FirefoxProfilesScanned,
		report.EntriesDecrypted,
		len(report.Errors),
		report.ElapsedMS,
	)
	if err != nil {
		return fmt.Errorf("save scan %q: %w", report.RunID, err)
	}
	return nil
}

// Recent returns up to limit stored runs, newest first.
func (r *ScanRepo) Recent(ctx context.Context, limit int) ([]model.ScanRecord, error) {
	const query = `SELECT id, run_id, started_at, dry_run, chrome_found, edge_found,
		firefox_profiles_scanned, entries_decrypted, error_count, elapsed_ms
		FROM scans ORDER BY id DESC LIMIT ?`

	rows, err := r.db.Conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var records []model.ScanRecord
	for rows.Next() {
		var rec model.ScanRecord
		var startedAt string
		var dryRun, chromeFound, edgeFound int
		if err := rows.Scan(&rec.ID, &rec.RunID, &startedAt, &dryRun, &chromeFound, &edgeFound,
			&rec.FirefoxProfilesScanned, &rec.EntriesDecrypted, &rec.ErrorCount, &rec.ElapsedMS); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at for scan %q: %w", rec.RunID, err)
		}
		rec.DryRun = dryRun != 0
		rec.ChromeFound = chromeFound != 0
		rec.EdgeFound = edgeFound != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}

	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
