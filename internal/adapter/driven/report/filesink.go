// Package report implements the report sink on the local filesystem: one
// JSONL record and one human-readable log block per run, plus per-source
// plaintext artifacts.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

// placeholderSecret is written in place of secrets that failed to decrypt.
const placeholderSecret = "<decrypt failed>"

// Compile-time interface satisfaction check.
var _ driven.ReportSink = (*FileSink)(nil)

// FileSink writes all run outputs under a single directory, created on
// first use with owner-only permissions.
type FileSink struct {
	dir string
}

// NewFileSink creates a FileSink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// EmitReport appends the JSON record to browser_scan_<runid>.jsonl and the
// formatted block to browser_scan_<runid>.log.
func (s *FileSink) EmitReport(ctx context.Context, report *model.ScanReport) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	line, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal scan report: %w", err)
	}
	jsonlPath := filepath.Join(s.dir, fmt.Sprintf("browser_scan_%s.jsonl", report.RunID))
	if err := appendLine(jsonlPath, line); err != nil {
		return err
	}

	logPath := filepath.Join(s.dir, fmt.Sprintf("browser_scan_%s.log", report.RunID))
	return appendLine(logPath, []byte(formatBlock(report)))
}

// WriteArtifact atomically writes browser_<label>_<runid>.txt so a crash
// mid-write never leaves a torn secrets file.
func (s *FileSink) WriteArtifact(label, runID string, entries []model.DecryptedEntry) (string, error) {
	if err := s.ensureDir(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, e := range entries {
		secret := e.Secret
		if !e.Decrypted {
			secret = placeholderSecret
		}
		fmt.Fprintf(&buf, "Site: %s\nUser: %s\nPass: %s\n\n", e.Origin, e.Username, secret)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("browser_%s_%s.txt", label, runID))
	if err := atomic.WriteFile(path, &buf); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	return path, nil
}

func (s *FileSink) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create report directory %s: %w", s.dir, err)
	}
	return nil
}

func appendLine(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatBlock(report *model.ScanReport) string {
	var b strings.Builder
	b.WriteString("================================================================\n")
	fmt.Fprintf(&b, "RUN ID    : %s\n", report.RunID)
	fmt.Fprintf(&b, "TIMESTAMP : %s\n", report.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "DRY RUN   : %t\n", report.DryRun)
	fmt.Fprintf(&b, "ARTIFACTS : %s\n", strings.Join(report.ArtifactPaths, ", "))
	fmt.Fprintf(&b, "CHROME    : %t\n", report.ChromeFound)
	fmt.Fprintf(&b, "EDGE      : %t\n", report.EdgeFound)
	fmt.Fprintf(&b, "FIREFOX   : scanned=%d, decrypted=%d\n", report.FirefoxProfilesScanned, report.FirefoxDecrypted)
	if len(report.Errors) > 0 {
		b.WriteString("ERRORS:\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	fmt.Fprintf(&b, "PARENT    : %s\n", report.Parent)
	fmt.Fprintf(&b, "ELAPSED_MS: %d\n", report.ElapsedMS)
	return b.String()
}
