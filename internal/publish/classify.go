package publish

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mrz1836/relpack/internal/errors"
)

// FailureKind classifies a publisher failure for the user message.
type FailureKind int

const (
	// FailureNone indicates no error occurred.
	FailureNone FailureKind = iota
	// FailureAuth indicates the token was missing, invalid or lacked scope.
	FailureAuth
	// FailureRateLimit indicates the release host rate limited the request.
	FailureRateLimit
	// FailureNetwork indicates the release host could not be reached.
	FailureNetwork
	// FailureOther covers everything else, including tool internal errors.
	FailureOther
)

// String returns a string representation of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureAuth:
		return "auth"
	case FailureRateLimit:
		return "rate_limit"
	case FailureNetwork:
		return "network"
	case FailureOther:
		return "other"
	}
	return "other"
}

// Classify inspects a publisher error message.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return FailureNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, rateLimitPatterns):
		return FailureRateLimit
	case containsAny(msg, authPatterns):
		return FailureAuth
	case containsAny(msg, networkPatterns):
		return FailureNetwork
	default:
		return FailureOther
	}
}

//nolint:gochecknoglobals // read-only pattern tables
var (
	rateLimitPatterns = []string{
		"rate limit exceeded",
		"api rate limit",
		"secondary rate limit",
		"abuse detection",
		"too many requests",
	}
	authPatterns = []string{
		"authentication required",
		"bad credentials",
		"not logged into",
		"must be authenticated",
		"gh auth login",
		"invalid token",
		"token expired",
		"enogh_token",
		"einvalidghtoken",
		"resource not accessible by integration",
		"http 401",
		"http 403",
	}
	networkPatterns = []string{
		"could not resolve host",
		"connection refused",
		"connection reset",
		"network is unreachable",
		"connection timed out",
		"no route to host",
		"failed to connect",
		"econnreset",
		"etimedout",
		"timeout",
	}
)

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// wrapFailure maps a command error onto the publish sentinel for its kind.
// Cancellation passes through untouched.
func wrapFailure(publisher string, err error) error {
	if stderrors.Is(err, context.Canceled) {
		return err
	}

	var sentinel error
	switch Classify(err) {
	case FailureNone:
		return nil
	case FailureAuth:
		sentinel = errors.ErrPublishAuth
	case FailureRateLimit:
		sentinel = errors.ErrPublishRateLimited
	case FailureNetwork:
		sentinel = errors.ErrPublishNetwork
	case FailureOther:
		sentinel = errors.ErrPublishFailed
	}
	return fmt.Errorf("%s: %w: %w", publisher, sentinel, err)
}
