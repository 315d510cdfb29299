package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relerrors "github.com/mrz1836/relpack/internal/errors"
)

// testError is a custom error type that matches no sentinel.
type testError struct {
	msg string
}

func (e testError) Error() string {
	return e.msg
}

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrValidationFailed", relerrors.ErrValidationFailed, "validation failed"},
		{"ErrMalformedXML", relerrors.ErrMalformedXML, "malformed xml"},
		{"ErrRequiredFileMissing", relerrors.ErrRequiredFileMissing, "required file missing"},
		{"ErrBundleInputMissing", relerrors.ErrBundleInputMissing, "bundle input missing"},
		{"ErrPublishFailed", relerrors.ErrPublishFailed, "publish failed"},
		{"ErrNoRelease", relerrors.ErrNoRelease, "trigger does not select a release"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.err)
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		require.NoError(t, relerrors.Wrap(nil, "context"))
		require.NoError(t, relerrors.Wrapf(nil, "context %d", 1))
	})

	t.Run("preserves sentinel", func(t *testing.T) {
		err := relerrors.Wrap(relerrors.ErrMalformedXML, "configs/bad.xml")
		require.ErrorIs(t, err, relerrors.ErrMalformedXML)
		assert.Equal(t, "configs/bad.xml: malformed xml", err.Error())
	})

	t.Run("formats message", func(t *testing.T) {
		err := relerrors.Wrapf(relerrors.ErrRequiredFileMissing, "missing %s", "README.md")
		require.ErrorIs(t, err, relerrors.ErrRequiredFileMissing)
		assert.Equal(t, "missing README.md: required file missing", err.Error())
	})
}

func TestExitCode2Error(t *testing.T) {
	base := fmt.Errorf("bad flag: %w", relerrors.ErrInvalidOutputFormat)
	err := relerrors.NewExitCode2Error(base)

	assert.True(t, relerrors.IsExitCode2Error(err))
	assert.True(t, relerrors.IsExitCode2Error(fmt.Errorf("outer: %w", err)))
	assert.False(t, relerrors.IsExitCode2Error(base))
	require.ErrorIs(t, err, relerrors.ErrInvalidOutputFormat)
	assert.Equal(t, base.Error(), err.Error())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"direct sentinel", relerrors.ErrMalformedXML, "not well-formed XML"},
		{"wrapped sentinel", relerrors.Wrap(relerrors.ErrRequiredFileMissing, "README.md"), "required for every release"},
		{"publish auth before generic publish", fmt.Errorf("%w: %w", relerrors.ErrPublishAuth, relerrors.ErrPublishFailed), "rejected the repository token"},
		{"unknown error", testError{msg: "something odd"}, "something odd"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := relerrors.UserMessage(tc.err)
			if tc.contains == "" {
				assert.Empty(t, msg)
				return
			}
			assert.Contains(t, msg, tc.contains)
		})
	}
}

func TestActionable(t *testing.T) {
	msg, action := relerrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)

	msg, action = relerrors.Actionable(relerrors.Wrap(relerrors.ErrTokenMissing, "publish"))
	assert.Contains(t, msg, "repository token")
	assert.Contains(t, action, "GITHUB_TOKEN")

	msg, action = relerrors.Actionable(relerrors.ErrConfigNil)
	assert.NotEmpty(t, msg)
	assert.Empty(t, action)
}
