package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
)

// CurrentVersion is the only configuration schema version understood by this build.
const CurrentVersion = "1"

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "doctool.yaml"

// Config is the doctool configuration file. Every section is optional.
type Config struct {
	Version string        `yaml:"version"`
	Project ProjectConfig `yaml:"project"`
	Paths   PathsConfig   `yaml:"paths"`
	Doxygen DoxygenConfig `yaml:"doxygen"`
	MkDocs  MkDocsConfig  `yaml:"mkdocs"`
}

// ProjectConfig feeds the project placeholders of the Doxygen template.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// PathsConfig overrides the fixed repository layout. Relative paths resolve against the root.
type PathsConfig struct {
	Root          string `yaml:"root,omitempty"`
	Doxyfile      string `yaml:"doxyfile,omitempty"`
	MkDocsConfig  string `yaml:"mkdocs_config,omitempty"`
	DoxygenOutput string `yaml:"doxygen_output,omitempty"`
}

// DoxygenConfig controls the source documentation step.
type DoxygenConfig struct {
	Binary string `yaml:"binary"`
	// Placeholders adds template tokens; keys are written without the surrounding '@'.
	Placeholders map[string]string `yaml:"placeholders,omitempty"`
	// Watch lists directories (relative to the root) that trigger a rebuild in watch mode.
	Watch []string `yaml:"watch,omitempty"`
}

// MkDocsConfig controls the user documentation step.
type MkDocsConfig struct {
	Binary      string    `yaml:"binary"`
	Serve       ServeMode `yaml:"serve"`
	DevAddr     string    `yaml:"dev_addr,omitempty"`
	GracePeriod string    `yaml:"grace_period"`
}

// Load reads the configuration file at configPath. A missing file is not an error: the
// defaults are returned instead. Environment variables are expanded in the file content
// after .env files have been loaded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		cfg.Version = CurrentVersion
	case err != nil:
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	default:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to parse config file").
				Fatal().
				WithContext("path", configPath).
				Build()
		}
	}

	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return nil, foundationerrors.ConfigError(
			fmt.Sprintf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)).
			WithContext("path", configPath).
			Build()
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return foundationerrors.ValidationError(
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			Build()
	}

	example := Config{
		Version: CurrentVersion,
		Project: ProjectConfig{
			Name:        "Helipad",
			Version:     "dev",
			Description: "Helipad SDL3 engine",
		},
		Doxygen: DoxygenConfig{
			Binary: DefaultDoxygenBinary,
			Watch:  []string{"src"},
		},
		MkDocs: MkDocsConfig{
			Binary:      DefaultMkDocsBinary,
			Serve:       ServeAlways,
			GracePeriod: DefaultGracePeriod.String(),
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "failed to marshal example config").Fatal().Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to write config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return nil
}
