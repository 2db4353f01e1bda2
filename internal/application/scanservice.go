package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
	"github.com/ericfisherdev/credsweep/internal/domain/port/driven"
)

// ScanService orchestrates one extraction run: discovers credential stores,
// drives the two readers sequentially, and aggregates everything into a
// single ScanReport. It depends only on port interfaces.
type ScanService struct {
	chromium  driven.ChromiumStoreReader
	firefox   driven.FirefoxProfileReader
	sink      driven.ReportSink
	locations Locations
	runID     string
	dryRun    bool
	logger    *slog.Logger
}

// NewScanService creates a ScanService with the required dependencies.
func NewScanService(
	chromium driven.ChromiumStoreReader,
	firefox driven.FirefoxProfileReader,
	sink driven.ReportSink,
	locations Locations,
	runID string,
	dryRun bool,
	logger *slog.Logger,
) *ScanService {
	return &ScanService{
		chromium:  chromium,
		firefox:   firefox,
		sink:      sink,
		locations: locations,
		runID:     runID,
		dryRun:    dryRun,
		logger:    logger,
	}
}

// Run executes one full scan and always returns exactly one report, even
// when every source failed. Sources are processed in fixed order: Chrome,
// Edge, then each Firefox profile in enumeration order; a hard failure in
// one source never prevents scanning the next.
func (s *ScanService) Run(ctx context.Context) *model.ScanReport {
	start := time.Now()
	report := &model.ScanReport{
		RunID:         s.runID,
		Timestamp:     start.UTC(),
		ArtifactPaths: []string{},
		Errors:        []string{},
		Parent:        parentExecutable(),
	}

	if s.dryRun {
		s.logger.Info("dry-run: no credential stores read")
		report.DryRun = true
		report.ElapsedMS = time.Since(start).Milliseconds()
		return report
	}

	for _, source := range s.locations.ChromiumSources {
		s.scanChromiumSource(ctx, source, report)
	}
	s.scanFirefoxProfiles(report)

	report.ElapsedMS = time.Since(start).Milliseconds()
	s.logger.Info("scan complete",
		"run_id", report.RunID,
		"entries_decrypted", report.EntriesDecrypted,
		"errors", len(report.Errors),
		"elapsed_ms", report.ElapsedMS,
	)
	return report
}

func (s *ScanService) scanChromiumSource(ctx context.Context, source model.CredentialSource, report *model.ScanReport) {
	found := fileExists(source.StorePath)
	switch source.Browser {
	case "chrome":
		report.ChromeFound = found
	case "edge":
		report.EdgeFound = found
	}
	if !found {
		s.logger.Info("login database not found", "browser", source.Browser, "path", source.StorePath)
		return
	}

	s.logger.Info("login database found", "browser", source.Browser, "path", source.StorePath)
	entries, errs := s.chromium.Read(ctx, source.StorePath)
	report.Errors = append(report.Errors, errs...)
	report.EntriesDecrypted += countDecrypted(entries)

	if len(entries) > 0 {
		s.writeArtifact(source.Browser, entries, report)
	}
}

func (s *ScanService) scanFirefoxProfiles(report *model.ScanReport) {
	sources := discoverFirefoxProfiles(s.locations.FirefoxProfilesDir)
	if len(sources) == 0 {
		s.logger.Info("no firefox profiles with login stores", "path", s.locations.FirefoxProfilesDir)
		return
	}

	for _, source := range sources {
		report.FirefoxProfilesScanned++
		s.logger.Info("firefox profile found", "path", source.ProfilePath)

		entries, errs := s.firefox.DecryptProfile(source.ProfilePath, source.StorePath)
		report.Errors = append(report.Errors, errs...)
		report.FirefoxDecrypted += len(entries)
		report.EntriesDecrypted += countDecrypted(entries)

		if len(entries) > 0 {
			label := fmt.Sprintf("firefox_%s", filepath.Base(source.ProfilePath))
			s.writeArtifact(label, entries, report)
		}
	}
}

func (s *ScanService) writeArtifact(label string, entries []model.DecryptedEntry, report *model.ScanReport) {
	path, err := s.sink.WriteArtifact(label, s.runID, entries)
	if err != nil {
		s.logger.Warn("failed to write artifact", "label", label, "error", err)
		return
	}
	report.ArtifactPaths = append(report.ArtifactPaths, path)
}

func countDecrypted(entries []model.DecryptedEntry) int {
	n := 0
	for _, e := range entries {
		if e.Decrypted {
			n++
		}
	}
	return n
}

func parentExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		return "<unknown>"
	}
	return exe
}
