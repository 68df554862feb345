package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
)

// Validate checks the fields that cannot be defaulted into shape.
func Validate(cfg *Config) error {
	if cfg.Doxygen.Binary == "" {
		return foundationerrors.ValidationError("doxygen.binary must not be empty").Build()
	}
	if cfg.MkDocs.Binary == "" {
		return foundationerrors.ValidationError("mkdocs.binary must not be empty").Build()
	}
	if NormalizeServeMode(string(cfg.MkDocs.Serve)) == "" {
		return foundationerrors.ValidationError(
			fmt.Sprintf("invalid mkdocs.serve: %q (expected ask, always or never)", cfg.MkDocs.Serve)).Build()
	}
	if _, err := cfg.GracePeriod(); err != nil {
		return err
	}
	for token := range cfg.Doxygen.Placeholders {
		if strings.Trim(token, "@") == "" {
			return foundationerrors.ValidationError(
				fmt.Sprintf("doxygen.placeholders contains an empty token: %q", token)).Build()
		}
	}
	for _, dir := range cfg.Doxygen.Watch {
		if filepath.IsAbs(dir) {
			return foundationerrors.ValidationError(
				fmt.Sprintf("doxygen.watch entries must be relative to the repository root: %s", dir)).Build()
		}
	}
	return nil
}

// GracePeriod parses mkdocs.grace_period.
func (c *Config) GracePeriod() (time.Duration, error) {
	d, err := time.ParseDuration(c.MkDocs.GracePeriod)
	if err != nil {
		return 0, foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "invalid mkdocs.grace_period").Fatal().Build()
	}
	if d <= 0 {
		return 0, foundationerrors.ValidationError(
			fmt.Sprintf("mkdocs.grace_period must be positive, got %s", d)).Build()
	}
	return d, nil
}

// ProjectName returns the configured project name, defaulting to the root directory name.
func (c *Config) ProjectName(root string) string {
	if c.Project.Name != "" {
		return c.Project.Name
	}
	return filepath.Base(root)
}
