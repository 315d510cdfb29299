package tui

import (
	"io"
)

// Output writes command results either as styled text or as JSON lines.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error together with the suggested action, if any.
	Error(err error)
	// Warning prints an advisory message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Step reports a pipeline step transition.
	Step(step, status string)
	// Table prints rows under the given headers.
	Table(headers []string, rows [][]string)
	// URL prints a link, e.g. to a published release.
	URL(url, displayText string)
	// JSON writes v as a JSON document.
	JSON(v any) error
}

// NewOutput creates the Output for the given format ("text" or "json").
func NewOutput(w io.Writer, format string) Output {
	if format == "json" {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
