package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Step statuses reported by the release pipeline.
const (
	StepStarting  = "starting"
	StepCompleted = "completed"
	StepFailed    = "failed"
	StepSkipped   = "skipped"
)

//nolint:gochecknoglobals // cases.Caser is safe to share for read-only use
var titleCaser = cases.Title(language.English)

// StepTitle turns a step name such as "checksum" or "dry-run" into a
// display title ("Checksum", "Dry Run").
func StepTitle(step string) string {
	return titleCaser.String(strings.ReplaceAll(step, "-", " "))
}

// StepIcon returns the status icon for a step status.
func StepIcon(status string) string {
	switch status {
	case StepStarting:
		return "●"
	case StepCompleted:
		return "✓"
	case StepFailed:
		return "✗"
	case StepSkipped:
		return "○"
	default:
		return "?"
	}
}

// stepStyle picks the color for a step status.
func (s *OutputStyles) stepStyle(status string) lipgloss.Style {
	switch status {
	case StepCompleted:
		return s.Success
	case StepFailed:
		return s.Error
	case StepSkipped:
		return s.Dim
	default:
		return s.Info
	}
}
