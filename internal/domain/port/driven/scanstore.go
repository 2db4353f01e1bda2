package driven

import (
	"context"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
)

// ScanStore defines the driven port for scan-history persistence.
type ScanStore interface {
	// Save records the summary row for a completed run.
	Save(ctx context.Context, report *model.ScanReport) error

	// Recent returns up to limit stored runs, newest first.
	Recent(ctx context.Context, limit int) ([]model.ScanRecord, error)
}
