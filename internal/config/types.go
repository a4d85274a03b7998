package config

// Config is the top-level asciitree configuration, corresponding to .asciitree.yml.
type Config struct {
	Port            int          `yaml:"port" koanf:"port"`
	AllowAllOrigins bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	LogLevel        string       `yaml:"log_level" koanf:"log_level"`
	LogJSON         bool         `yaml:"log_json" koanf:"log_json"`
	ClipboardReset  string       `yaml:"clipboard_reset" koanf:"clipboard_reset"`
	Ingest          IngestConfig `yaml:"ingest" koanf:"ingest"`
	Placeholders    Placeholders `yaml:"placeholders" koanf:"placeholders"`
}

// IngestConfig holds folder ingestion settings. Exclude replaces the
// default patterns; an empty list ingests every entry.
type IngestConfig struct {
	// Sort orders each listing directories first, then by name.
	Sort    bool     `yaml:"sort" koanf:"sort"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// Placeholders are the labels displayed and exported for unnamed nodes.
type Placeholders struct {
	Root   string `yaml:"root" koanf:"root"`
	Branch string `yaml:"branch" koanf:"branch"`
}
