package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericfisherdev/credsweep/internal/adapter/driven/blobcipher"
	"github.com/ericfisherdev/credsweep/internal/adapter/driven/chromium"
	"github.com/ericfisherdev/credsweep/internal/adapter/driven/dpapi"
	"github.com/ericfisherdev/credsweep/internal/adapter/driven/mozilla"
	"github.com/ericfisherdev/credsweep/internal/adapter/driven/report"
	sqliteadapter "github.com/ericfisherdev/credsweep/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/credsweep/internal/adapter/driving/cli"
	"github.com/ericfisherdev/credsweep/internal/application"
	"github.com/ericfisherdev/credsweep/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (every variable has a default).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"run_id", cfg.RunID,
		"dry_run", cfg.DryRun,
		"output_dir", cfg.OutputDir,
		"db_path", cfg.DBPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the scan-history database and run migrations.
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	if err := sqliteadapter.RunMigrations(db.Conn); err != nil {
		return err
	}

	// 4. Wire adapters.
	unwrapper := dpapi.New()
	cipher := blobcipher.New(unwrapper)
	keys := chromium.NewKeyResolver(unwrapper, logger)
	chromiumReader := chromium.NewStoreReader(cipher, keys, logger)
	firefoxReader := mozilla.NewDecryptor(mozilla.LoadLibrary, mozilla.DefaultInstallDirs(), logger)
	sink := report.NewFileSink(cfg.OutputDir)
	scanStore := sqliteadapter.NewScanRepo(db)

	// 5. Run the scan. Run never fails; individual source failures land in
	// the report's error list.
	svc := application.NewScanService(
		chromiumReader,
		firefoxReader,
		sink,
		application.DefaultLocations(),
		cfg.RunID,
		cfg.DryRun,
		logger,
	)
	scanReport := svc.Run(ctx)

	// 6. Persist the report; failures here are warnings, the report value
	// already exists and is rendered regardless.
	if err := sink.EmitReport(ctx, scanReport); err != nil {
		logger.Warn("failed to emit report", "error", err)
	}
	if err := scanStore.Save(ctx, scanReport); err != nil {
		logger.Warn("failed to save scan record", "error", err)
	}

	// 7. Console summary.
	cli.NewPresenter(os.Stdout).Render(scanReport)
	return nil
}
