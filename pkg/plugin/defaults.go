package plugin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultsPath is the site-wide defaults file. Overridable through
	// the DB2CHECK_CONFIG environment variable.
	DefaultsPath = "/etc/db2check/db2check.yaml"

	defaultsEnv = "DB2CHECK_CONFIG"
)

// Defaults are optional site-wide settings loaded before flag parsing.
// Command-line flags always win.
type Defaults struct {
	// Instance is the default instance home path.
	Instance string `yaml:"instance"`

	// Database is the default database name.
	Database string `yaml:"database"`

	// TraceDir is the directory trace logs are appended to.
	TraceDir string `yaml:"trace_dir"`

	// ArchivePath is the default transaction log archive directory for
	// the log consumption check.
	ArchivePath string `yaml:"archive_path"`
}

// LoadDefaults reads the defaults file. A missing file is not an
// error; a present but unparseable file is.
func LoadDefaults() (Defaults, error) {
	path := os.Getenv(defaultsEnv)
	if path == "" {
		path = DefaultsPath
	}

	var d Defaults
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, fmt.Errorf("could not read defaults file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("could not parse defaults file %s: %w", path, err)
	}
	return d, nil
}

// apply fills empty Config fields from the defaults.
func (d Defaults) apply(cfg *Config) {
	if cfg.Instance == "" {
		cfg.Instance = d.Instance
	}
	if cfg.Database == "" {
		cfg.Database = d.Database
	}
}
