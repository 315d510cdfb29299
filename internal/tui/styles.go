// Package tui provides terminal output for relpack.
//
// Colors use lipgloss.AdaptiveColor so they read on light and dark terminals.
// Call CheckNoColor() before rendering to respect NO_COLOR and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active steps and links.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for completed steps.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for advisory findings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failed steps.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for skipped steps and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleUnderline applies underline formatting to text.
	StyleUnderline = lipgloss.NewStyle().Underline(true)
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// NewOutputStyles creates the output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
	}
}

// CheckNoColor switches lipgloss to plain ASCII when colors are unwanted.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
