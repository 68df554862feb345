package doxygen

import (
	"log/slog"
	"os"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/logfields"
	"git.home.luguber.info/inful/doctool/internal/workspace"
)

// Templater renders the layout's Doxyfile template into the generated config.
type Templater struct {
	layout  workspace.Layout
	project Project
	extra   map[string]string
	logger  *slog.Logger
}

// NewTemplater creates a templater. extra holds additional placeholder tokens.
func NewTemplater(layout workspace.Layout, project Project, extra map[string]string) *Templater {
	return &Templater{
		layout:  layout,
		project: project,
		extra:   extra,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger used for leftover-token warnings.
func (t *Templater) WithLogger(l *slog.Logger) *Templater {
	if l != nil {
		t.logger = l
	}
	return t
}

// RenderTemplate reads the template and returns the rendered text without touching the output
// directory.
func (t *Templater) RenderTemplate() (string, error) {
	if err := workspace.RequireFile(t.layout.Doxyfile, "Doxygen config"); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(t.layout.Doxyfile)
	if err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to read Doxygen config").
			Fatal().
			WithContext("path", t.layout.Doxyfile).
			Build()
	}

	ph := NewPlaceholders(t.project, t.layout.Root, t.layout.DoxygenOutput, t.extra)
	text := Render(string(raw), ph, t.layout.DoxygenOutput)

	for _, token := range Unresolved(text) {
		t.logger.Warn("Unresolved placeholder in Doxygen config", logfields.Token(token), logfields.Path(t.layout.Doxyfile))
	}
	return text, nil
}

// Prepare renders the template, creates the output directory and writes the generated config.
// It returns the generated file's path.
func (t *Templater) Prepare() (string, error) {
	text, err := t.RenderTemplate()
	if err != nil {
		return "", err
	}
	if err := t.layout.EnsureOutput(); err != nil {
		return "", err
	}

	generated := t.layout.GeneratedDoxyfile()
	if err := os.WriteFile(generated, []byte(text), 0o644); err != nil { // #nosec G306 -- read by doxygen
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to write generated Doxygen config").
			Fatal().
			WithContext("path", generated).
			Build()
	}
	t.logger.Debug("Wrote generated Doxygen config", logfields.Path(generated))
	return generated, nil
}
