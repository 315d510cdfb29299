package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockErrorsAreDistinct(t *testing.T) {
	all := []error{ErrMockWrite, ErrMockExitStatus, ErrMockCommandNotFound, ErrMockGHFailed, ErrMockCommandNotConfigured, ErrMockNetwork}

	for i, a := range all {
		assert.NotEmpty(t, a.Error())
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
			}
		}
	}
}
