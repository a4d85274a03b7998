package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/clipboard"
	"github.com/ziadkadry99/asciitree/internal/config"
	"github.com/ziadkadry99/asciitree/internal/logging"
	"github.com/ziadkadry99/asciitree/internal/session"
	"github.com/ziadkadry99/asciitree/internal/tree"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `asciitree init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(level, cfg.LogJSON)
}

func placeholders(cfg *config.Config) tree.Placeholders {
	return tree.Placeholders{
		Root:   cfg.Placeholders.Root,
		Branch: cfg.Placeholders.Branch,
	}
}

// newSession creates an editing session configured from cfg.
func newSession(cfg *config.Config, log *zap.Logger) (*session.Session, error) {
	reset, err := cfg.ClipboardResetDuration()
	if err != nil {
		return nil, err
	}
	return session.New(session.Options{
		Placeholders: placeholders(cfg),
		Copier:       clipboard.System{},
		CopyReset:    reset,
		Ingest: session.IngestOptions{
			Exclude: cfg.Ingest.Exclude,
			Sort:    cfg.Ingest.Sort,
		},
		Logger: log,
	}), nil
}
