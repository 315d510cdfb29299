// Package errors provides centralized error handling for relpack.
//
// Sentinel errors defined here are checked with errors.Is() by the CLI to pick
// exit codes and user-facing messages.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidationFailed indicates that the working directory did not pass
	// a fatal validation check.
	ErrValidationFailed = errors.New("validation failed")

	// ErrMalformedXML indicates that a configuration file is not well-formed XML.
	ErrMalformedXML = errors.New("malformed xml")

	// ErrRequiredFileMissing indicates that a file required for every release is absent.
	ErrRequiredFileMissing = errors.New("required file missing")

	// ErrPatchDryRunFailed indicates that a patch could not be applied in dry-run mode.
	// This error is advisory and never fails a run.
	ErrPatchDryRunFailed = errors.New("patch dry-run failed")

	// ErrBundleInputMissing indicates that a mandatory bundle input (README,
	// checksum manifest) is absent at packaging time.
	ErrBundleInputMissing = errors.New("bundle input missing")

	// ErrArchiveFailed indicates that the release archive could not be written.
	ErrArchiveFailed = errors.New("archive creation failed")

	// ErrManifestParse indicates that a checksum manifest line could not be parsed.
	ErrManifestParse = errors.New("invalid checksum manifest")

	// ErrChecksumMismatch indicates that a file's digest differs from the manifest.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrNoRelease indicates that the trigger does not select any release variant.
	ErrNoRelease = errors.New("trigger does not select a release")

	// ErrInvalidTag indicates that a tag does not match the release tag pattern.
	ErrInvalidTag = errors.New("invalid release tag")

	// ErrPublishFailed indicates that the external publisher failed.
	ErrPublishFailed = errors.New("publish failed")

	// ErrPublishAuth indicates that the publisher rejected the repository token.
	ErrPublishAuth = errors.New("publish authentication failed")

	// ErrPublishNetwork indicates that the publisher could not reach the release host.
	ErrPublishNetwork = errors.New("publish network failed")

	// ErrPublishRateLimited indicates that the release host rate limited the publisher.
	ErrPublishRateLimited = errors.New("publish rate limited")

	// ErrTokenMissing indicates that no repository write token is available.
	ErrTokenMissing = errors.New("repository token not set")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidArtifacts indicates an invalid artifacts configuration value.
	ErrConfigInvalidArtifacts = errors.New("invalid artifacts configuration")

	// ErrConfigInvalidChecksum indicates an invalid checksum configuration value.
	ErrConfigInvalidChecksum = errors.New("invalid checksum configuration")

	// ErrConfigInvalidPackage indicates an invalid package configuration value.
	ErrConfigInvalidPackage = errors.New("invalid package configuration")

	// ErrConfigInvalidTrigger indicates an invalid trigger configuration value.
	ErrConfigInvalidTrigger = errors.New("invalid trigger configuration")

	// ErrConfigInvalidPublish indicates an invalid publish configuration value.
	ErrConfigInvalidPublish = errors.New("invalid publish configuration")

	// ErrConfigInvalidValidation indicates an invalid validation configuration value.
	ErrConfigInvalidValidation = errors.New("invalid validation configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidVariant indicates an unknown release variant name was specified.
	ErrInvalidVariant = errors.New("invalid release variant")

	// ErrCommandFailed indicates that an external command execution failed.
	ErrCommandFailed = errors.New("command failed")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrWorkDirInvalid indicates that the working directory does not exist or is not a directory.
	ErrWorkDirInvalid = errors.New("invalid working directory")

	// ErrPathTraversal indicates a path that escapes the working directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrLockHeld indicates another run holds the output directory lock.
	ErrLockHeld = errors.New("output directory is locked by another run")

	// ErrOperationCanceled indicates the user declined an operation.
	ErrOperationCanceled = errors.New("operation canceled by user")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// Commands should silence cobra's error printing when this is returned.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
