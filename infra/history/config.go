package history

import "fmt"

// Config selects and parameterizes the history backend.
type Config struct {
	Enabled bool   `json:"enabled"`
	// Backend is one of "sqlite", "jsonl" or "jsonl-rotating".
	Backend string `json:"backend"`
	Path    string `json:"path"`
	// Rotation options, used by the jsonl-rotating backend.
	MaxSizeMB  int `json:"max_size_mb"`
	MaxBackups int `json:"max_backups"`
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "sqlite"
	}
	if c.Path == "" {
		c.Path = "vesting-history.db"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "sqlite", "jsonl", "jsonl-rotating":
		return nil
	default:
		return fmt.Errorf("unknown history backend: %q", c.Backend)
	}
}

// Open creates the configured store.
func Open(c Config) (Store, error) {
	switch c.Backend {
	case "sqlite":
		return NewSQLiteStore(c.Path)
	case "jsonl":
		return NewJSONLStore(c.Path)
	case "jsonl-rotating":
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	default:
		return nil, fmt.Errorf("unknown history backend: %q", c.Backend)
	}
}
