package tui

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasColorSupport(t *testing.T) {
	t.Run("NO_COLOR set", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})

	t.Run("dumb terminal", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, HasColorSupport())
	})

	t.Run("regular terminal", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		require.NoError(t, os.Unsetenv("NO_COLOR"))
		t.Setenv("TERM", "xterm-256color")
		assert.True(t, HasColorSupport())
	})
}

func TestStepTitle(t *testing.T) {
	tests := map[string]string{
		"validate": "Validate",
		"checksum": "Checksum",
		"dry-run":  "Dry Run",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StepTitle(in), in)
	}
}

func TestStepIcon(t *testing.T) {
	assert.Equal(t, "●", StepIcon(StepStarting))
	assert.Equal(t, "✓", StepIcon(StepCompleted))
	assert.Equal(t, "✗", StepIcon(StepFailed))
	assert.Equal(t, "○", StepIcon(StepSkipped))
	assert.Equal(t, "?", StepIcon("bogus"))
}
