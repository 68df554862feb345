package docgen

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalPrompter(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := NewPrompter(strings.NewReader(tt.input), &out, true).Confirm(context.Background(), "Serve?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Serve? [y/N] ", out.String())
	}
}

func TestTerminalPrompter_NonInteractive(t *testing.T) {
	var out bytes.Buffer
	got, err := NewPrompter(strings.NewReader("y\n"), &out, false).Confirm(context.Background(), "Serve?")
	require.NoError(t, err)
	assert.False(t, got)
	assert.Empty(t, out.String(), "non-interactive sessions are not prompted")
}
