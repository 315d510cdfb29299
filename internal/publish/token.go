package publish

import (
	"fmt"
	"strings"

	"github.com/mrz1836/relpack/internal/errors"
)

// DefaultTokenEnvVars are checked in order for a repository write token.
func DefaultTokenEnvVars() []string {
	return []string{"GITHUB_TOKEN", "GH_TOKEN"}
}

// RequireToken returns the name of the first variable in names that holds a
// non-empty value. The value itself is never returned so it cannot end up in
// logs or output; publisher subprocesses inherit it from the environment.
func RequireToken(getenv func(string) string, names []string) (string, error) {
	if len(names) == 0 {
		names = DefaultTokenEnvVars()
	}
	for _, name := range names {
		if strings.TrimSpace(getenv(name)) != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: set one of %s", errors.ErrTokenMissing, strings.Join(names, ", "))
}
