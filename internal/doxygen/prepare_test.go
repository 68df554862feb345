package doxygen

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doctool/internal/config"
	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/workspace"
)

func TestPrepare_WritesGeneratedConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Doxyfile"), []byte(sampleTemplate), 0o600))
	layout := workspace.NewLayout(root, config.PathsConfig{})

	generated, err := NewTemplater(layout, helipad(), nil).Prepare()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "build", "docs", "doxygen", "Doxyfile.generated"), generated)
	data, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Contains(t, string(data), "OUTPUT_DIRECTORY       = "+filepath.ToSlash(layout.DoxygenOutput))
	assert.Contains(t, string(data), "STRIP_FROM_PATH        = "+filepath.ToSlash(root))
	assert.Empty(t, Unresolved(string(data)))
}

func TestPrepare_MissingTemplate(t *testing.T) {
	root := t.TempDir()
	layout := workspace.NewLayout(root, config.PathsConfig{})

	_, err := NewTemplater(layout, helipad(), nil).Prepare()
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryNotFound))
	assert.Contains(t, err.Error(), "missing Doxygen config: "+layout.Doxyfile)

	_, statErr := os.Stat(layout.DoxygenOutput)
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created when the template is missing")
}

func TestPrepare_WarnsOnLeftoverTokens(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Doxyfile"), []byte("EXAMPLE_PATH = @EXAMPLES_DIR@\n"), 0o600))
	layout := workspace.NewLayout(root, config.PathsConfig{})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	text, err := NewTemplater(layout, helipad(), nil).WithLogger(logger).RenderTemplate()
	require.NoError(t, err)
	assert.Equal(t, []string{"@EXAMPLES_DIR@"}, Unresolved(text))
	assert.Contains(t, logs.String(), "Unresolved placeholder")
	assert.Contains(t, logs.String(), "token=@EXAMPLES_DIR@")
}
