package config

import (
	"github.com/ziadkadry99/asciitree/internal/tree"
	"github.com/ziadkadry99/asciitree/internal/walker"
)

// ConfigFile is the default configuration file name.
const ConfigFile = ".asciitree.yml"

// DefaultPort is the editor's default listen port.
const DefaultPort = 7420

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           DefaultPort,
		LogLevel:       "info",
		ClipboardReset: "2s",
		Ingest: IngestConfig{
			Sort:    true,
			Exclude: append([]string(nil), walker.DefaultExcludes...),
		},
		Placeholders: Placeholders{
			Root:   tree.DefaultRootPlaceholder,
			Branch: tree.DefaultBranchPlaceholder,
		},
	}
}
