package workspace

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/doctool/internal/config"
	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
)

const (
	DoxyfileName          = "Doxyfile"
	MkDocsConfigName      = "mkdocs.yml"
	GeneratedDoxyfileName = "Doxyfile.generated"
)

// DefaultDoxygenOutput is the Doxygen output directory relative to the root.
var DefaultDoxygenOutput = filepath.Join("build", "docs", "doxygen")

// Layout holds the absolute paths doctool works with.
type Layout struct {
	Root          string
	Doxyfile      string
	MkDocsConfig  string
	DoxygenOutput string
}

// NewLayout derives the layout for root, applying any overrides from paths.
func NewLayout(root string, paths config.PathsConfig) Layout {
	return Layout{
		Root:          root,
		Doxyfile:      resolve(root, paths.Doxyfile, DoxyfileName),
		MkDocsConfig:  resolve(root, paths.MkDocsConfig, MkDocsConfigName),
		DoxygenOutput: resolve(root, paths.DoxygenOutput, DefaultDoxygenOutput),
	}
}

func resolve(root, override, fallback string) string {
	p := override
	if p == "" {
		p = fallback
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// GeneratedDoxyfile is where the templated Doxygen config is written.
func (l Layout) GeneratedDoxyfile() string {
	return filepath.Join(l.DoxygenOutput, GeneratedDoxyfileName)
}

// EnsureOutput creates the Doxygen output directory.
func (l Layout) EnsureOutput() error {
	if err := os.MkdirAll(l.DoxygenOutput, 0o750); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to create output directory").
			Fatal().
			WithContext("path", l.DoxygenOutput).
			Build()
	}
	return nil
}

// RequireFile returns a not-found error naming what when path does not exist.
func RequireFile(path, what string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return foundationerrors.NotFoundError("missing "+what+": "+path).
				WithContext("path", path).
				Build()
		}
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "cannot access "+what).
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}
