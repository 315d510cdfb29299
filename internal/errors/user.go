package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice rather than a map so that wrapped errors resolve via errors.Is()
// in declaration order (most specific first).
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	// ===================
	// Validation
	// ===================
	{
		err: ErrMalformedXML,
		info: ErrorInfo{
			Message: "A configuration file is not well-formed XML.",
			Action:  "Fix the file named above and re-run 'relpack validate'.",
		},
	},
	{
		err: ErrRequiredFileMissing,
		info: ErrorInfo{
			Message: "A file required for every release is missing.",
			Action:  "Add the missing file or adjust artifacts.required_files in .relpack/config.yaml.",
		},
	},
	{
		err: ErrValidationFailed,
		info: ErrorInfo{
			Message: "Validation failed. Check the output above for specific errors.",
			Action:  "Fix the reported files and retry.",
		},
	},

	// ===================
	// Checksums & Packaging
	// ===================
	{
		err: ErrBundleInputMissing,
		info: ErrorInfo{
			Message: "A mandatory bundle input is missing; no archive was written.",
			Action:  "Run 'relpack checksum' first and make sure README.md exists.",
		},
	},
	{
		err: ErrArchiveFailed,
		info: ErrorInfo{
			Message: "The release archive could not be written.",
			Action:  "Check free disk space and write permissions on the output directory.",
		},
	},
	{
		err: ErrManifestParse,
		info: ErrorInfo{
			Message: "The checksum manifest is not in '<sha256>  <path>' format.",
			Action:  "Regenerate it with 'relpack checksum'.",
		},
	},
	{
		err: ErrChecksumMismatch,
		info: ErrorInfo{
			Message: "One or more files do not match the checksum manifest.",
			Action:  "Regenerate the manifest or restore the modified files.",
		},
	},

	// ===================
	// Trigger & Publishing
	// ===================
	{
		err: ErrNoRelease,
		info: ErrorInfo{
			Message: "This event does not trigger a release.",
			Action:  "Push to the main branch or push a v* tag, or pass --variant explicitly.",
		},
	},
	{
		err: ErrInvalidTag,
		info: ErrorInfo{
			Message: "The tag does not match the release tag pattern.",
			Action:  "Use a tag such as v1.2.3.",
		},
	},
	{
		err: ErrTokenMissing,
		info: ErrorInfo{
			Message: "No repository token is available for publishing.",
			Action:  "Set GITHUB_TOKEN or GH_TOKEN with contents:write permission.",
		},
	},
	{
		err: ErrPublishAuth,
		info: ErrorInfo{
			Message: "The release host rejected the repository token.",
			Action:  "Check that the token is valid and has contents:write permission.",
		},
	},
	{
		err: ErrPublishRateLimited,
		info: ErrorInfo{
			Message: "The release host rate limited the publisher.",
			Action:  "Wait a few minutes and re-run the workflow.",
		},
	},
	{
		err: ErrPublishNetwork,
		info: ErrorInfo{
			Message: "Could not reach the release host.",
			Action:  "Check network connectivity and re-run the workflow.",
		},
	},
	{
		err: ErrPublishFailed,
		info: ErrorInfo{
			Message: "Publishing the release failed.",
			Action:  "Inspect the publisher output above and re-run the workflow.",
		},
	},

	// ===================
	// Configuration & Input
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "No configuration was provided.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrInvalidVariant,
		info: ErrorInfo{
			Message: "Unknown release variant.",
			Action:  "Use --variant branch or --variant tag.",
		},
	},
	{
		err: ErrWorkDirInvalid,
		info: ErrorInfo{
			Message: "The working directory does not exist.",
			Action:  "Pass the release checkout with --dir.",
		},
	},
	{
		err: ErrPathTraversal,
		info: ErrorInfo{
			Message: "A path escapes the working directory.",
			Action:  "Use paths relative to the working directory.",
		},
	},
	{
		err: ErrLockHeld,
		info: ErrorInfo{
			Message: "Another relpack run is writing to the output directory.",
			Action:  "Wait for it to finish, or remove a stale .relpack.lock file.",
		},
	},
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Operation canceled.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error, trying a direct
// sentinel match first and errors.Is() traversal second.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty when there is nothing useful to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
