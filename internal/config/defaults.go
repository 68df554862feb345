package config

import (
	"os"
	"time"
)

const (
	DefaultDoxygenBinary  = "doxygen"
	DefaultMkDocsBinary   = "mkdocs"
	DefaultProjectVersion = "dev"
	DefaultGracePeriod    = 5 * time.Second
)

// Environment overrides applied on top of the file; they win over file values.
const (
	EnvRoot          = "DOCTOOL_ROOT"
	EnvDoxygenBinary = "DOCTOOL_DOXYGEN_BIN"
	EnvMkDocsBinary  = "DOCTOOL_MKDOCS_BIN"
)

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvRoot); v != "" {
		cfg.Paths.Root = v
	}
	if v := os.Getenv(EnvDoxygenBinary); v != "" {
		cfg.Doxygen.Binary = v
	}
	if v := os.Getenv(EnvMkDocsBinary); v != "" {
		cfg.MkDocs.Binary = v
	}
}

// applyDefaults fills every unset field. Project.Name is left empty here; it defaults to the
// repository directory name once the root is known (see ProjectName).
func applyDefaults(cfg *Config) {
	if cfg.Project.Version == "" {
		cfg.Project.Version = DefaultProjectVersion
	}
	if cfg.Doxygen.Binary == "" {
		cfg.Doxygen.Binary = DefaultDoxygenBinary
	}
	if cfg.Doxygen.Watch == nil {
		cfg.Doxygen.Watch = []string{"src"}
	}
	if cfg.MkDocs.Binary == "" {
		cfg.MkDocs.Binary = DefaultMkDocsBinary
	}
	if cfg.MkDocs.Serve == "" {
		cfg.MkDocs.Serve = ServeAlways
	} else if normalized := NormalizeServeMode(string(cfg.MkDocs.Serve)); normalized != "" {
		cfg.MkDocs.Serve = normalized
	}
	if cfg.MkDocs.GracePeriod == "" {
		cfg.MkDocs.GracePeriod = DefaultGracePeriod.String()
	}
}

// Default returns a configuration with every default applied, as if an empty file was loaded.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	applyDefaults(cfg)
	return cfg
}
