// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Config holds the run configuration loaded from environment variables.
type Config struct {
	RunID     string
	DryRun    bool
	OutputDir string
	DBPath    string
	LogLevel  slog.Level
}

// Load reads configuration from environment variables and returns a
// validated Config. All variables are optional: CREDSWEEP_RUN_ID defaults
// to a fresh UUID, CREDSWEEP_DRY_RUN to false, CREDSWEEP_OUTPUT_DIR to
// ~/Documents/CredsweepReports, CREDSWEEP_DB_PATH to credsweep.db, and
// CREDSWEEP_LOG_LEVEL to info.
func Load() (*Config, error) {
	runID := os.Getenv("CREDSWEEP_RUN_ID")
	if runID == "" {
		runID = uuid.NewString()
	}

	dryRun := false
	if v, ok := os.LookupEnv("CREDSWEEP_DRY_RUN"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("CREDSWEEP_DRY_RUN has invalid boolean %q: %w", v, err)
		}
		dryRun = parsed
	}

	outputDir := defaultOutputDir()
	if v, ok := os.LookupEnv("CREDSWEEP_OUTPUT_DIR"); ok {
		outputDir = v
	}

	dbPath := "credsweep.db"
	if v, ok := os.LookupEnv("CREDSWEEP_DB_PATH"); ok {
		dbPath = v
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("CREDSWEEP_LOG_LEVEL"); ok {
		parsed, err := parseLevel(v)
		if err != nil {
			return nil, err
		}
		logLevel = parsed
	}

	return &Config{
		RunID:     runID,
		DryRun:    dryRun,
		OutputDir: outputDir,
		DBPath:    dbPath,
		LogLevel:  logLevel,
	}, nil
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "CredsweepReports"
	}
	return filepath.Join(home, "Documents", "CredsweepReports")
}

func parseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("CREDSWEEP_LOG_LEVEL has invalid level %q", v)
	}
}
