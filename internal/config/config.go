package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides. Nested keys
// use a double underscore: ASCIITREE_INGEST__SORT -> ingest.sort.
const EnvPrefix = "ASCIITREE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ASCIITREE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	// Unmarshal merges lists element-wise into the defaults; a configured
	// list replaces them instead.
	if k.Exists("ingest.exclude") {
		cfg.Ingest.Exclude = stringList(k.Get("ingest.exclude"))
	}

	return cfg, nil
}

// stringList reads a YAML list or a comma separated env value.
func stringList(v interface{}) []string {
	var raw []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			raw = append(raw, fmt.Sprint(item))
		}
	case []string:
		raw = t
	case string:
		raw = strings.Split(t, ",")
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 0 and 65535", c.Port)
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if _, err := c.ClipboardResetDuration(); err != nil {
		return err
	}

	for _, pattern := range c.Ingest.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ingest.exclude pattern %q", pattern)
		}
	}

	if strings.TrimSpace(c.Placeholders.Root) == "" {
		return fmt.Errorf("placeholders.root is required")
	}
	if strings.TrimSpace(c.Placeholders.Branch) == "" {
		return fmt.Errorf("placeholders.branch is required")
	}

	return nil
}

// ClipboardResetDuration parses clipboard_reset.
func (c *Config) ClipboardResetDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.ClipboardReset)
	if err != nil {
		return 0, fmt.Errorf("invalid clipboard_reset %q: %w", c.ClipboardReset, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("clipboard_reset must be positive")
	}
	return d, nil
}
