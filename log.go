package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

// logConfig is read from the environment.
type logConfig struct {
	// Stderr sends logs to stderr instead of the log file.
	Stderr bool `env:"SPEECH_LOG_STDERR"`

	// Debug enables debug logging without the --debug flag.
	Debug bool `env:"SPEECH_DEBUG"`

	// File overrides the log file location.
	File string `env:"SPEECH_LOG_FILE"`
}

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, appName).CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "speech.log"), nil
}

func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log config: %w", err)
	}

	log.SetReportTimestamp(true)
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.Stderr {
		log.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}

	log.SetOutput(io.Discard)

	logFile := cfg.File
	if logFile == "" {
		logFile, err = getLogFilePath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f.Close, nil
}
