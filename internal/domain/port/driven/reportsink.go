package driven

import (
	"context"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
)

// ReportSink persists the run report and the per-source plaintext artifacts.
// Implementations own the output location and file formats; callers never
// persist secrets anywhere else.
type ReportSink interface {
	// EmitReport appends the machine-readable record and the human-readable
	// block for one completed run.
	EmitReport(ctx context.Context, report *model.ScanReport) error

	// WriteArtifact writes the Site/User/Pass triples for one processed
	// source and returns the artifact path. Entries that failed to decrypt
	// are written with a placeholder secret.
	WriteArtifact(label, runID string, entries []model.DecryptedEntry) (string, error)
}
