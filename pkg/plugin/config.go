package plugin

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Unset disables an optional numeric option (threshold, percentage,
// refresh interval). It must never be treated as the value zero.
const Unset int64 = -1

// Config is the per-invocation check configuration, built once from the
// command line (plus site defaults) and immutable afterwards.
type Config struct {
	Database   string
	Instance   string
	Warning    int64
	Critical   int64
	Percentage int64
	Refresh    int64
	Ignore     bool
	MK         bool
	Trace      bool
	Verbose    int

	Help    bool
	Version bool
}

// Requirements declares which target identifiers a check type needs
// before any external command is run.
type Requirements struct {
	Database bool
	Instance bool
}

// NewConfig returns a Config with all optional numeric options unset.
func NewConfig() *Config {
	return &Config{
		Warning:    Unset,
		Critical:   Unset,
		Percentage: Unset,
		Refresh:    Unset,
	}
}

// Validate checks the configuration against the declared requirements.
// A violation is a configuration error, not a check failure: the caller
// reports UNKNOWN without contacting the target.
func (c *Config) Validate(req Requirements) error {
	if req.Database && c.Database == "" {
		return &ConfigError{Reason: "database name is required"}
	}
	if req.Instance && c.Instance == "" {
		return &ConfigError{Reason: "instance home path is required"}
	}
	if err := validThreshold("warning", c.Warning); err != nil {
		return err
	}
	if err := validThreshold("critical", c.Critical); err != nil {
		return err
	}
	if err := validThreshold("percentage", c.Percentage); err != nil {
		return err
	}
	if c.Warning != Unset && c.Critical != Unset && c.Warning >= c.Critical {
		return &ConfigError{Reason: fmt.Sprintf(
			"warning threshold (%d) must be below critical threshold (%d)",
			c.Warning, c.Critical)}
	}
	if c.Refresh < Unset {
		return &ConfigError{Reason: fmt.Sprintf("refresh interval must be -1, 0 or positive, got %d", c.Refresh)}
	}
	return nil
}

func validThreshold(name string, v int64) error {
	if v != Unset && v <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("%s threshold must be positive, got %d", name, v)}
	}
	return nil
}

// ServiceName composes the Check_MK service name from the check type
// and the configured target identifiers.
func ServiceName(checkType string, cfg *Config) string {
	parts := []string{checkType}
	if cfg.Instance != "" {
		parts = append(parts, filepath.Base(cfg.Instance))
	}
	if cfg.Database != "" {
		parts = append(parts, cfg.Database)
	}
	return strings.Join(parts, "_")
}
