package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mrz1836/relpack/internal/errors"
)

// TTYOutput provides styled terminal output using Lip Gloss.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a TTYOutput. It respects NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
	}
}

// Success outputs a success message with a ✓ icon.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error outputs the error with a ✗ icon. Known errors get a dim
// "▸ Try:" line with the suggested action.
func (o *TTYOutput) Error(err error) {
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+err.Error()))
	if _, action := errors.Actionable(err); action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning outputs a warning message with a ⚠ icon.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info outputs an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render("ℹ "+msg))
}

// Step outputs a step transition, e.g. "✓ Checksum completed".
func (o *TTYOutput) Step(step, status string) {
	line := fmt.Sprintf("%s %s %s", StepIcon(status), StepTitle(step), status)
	_, _ = fmt.Fprintln(o.w, o.styles.stepStyle(status).Render(line))
}

// Table outputs rows with columns aligned to the widest cell.
func (o *TTYOutput) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	parts := make([]string, 0, len(headers))
	for i, h := range headers {
		parts = append(parts, o.styles.Header.Render(padRight(h, widths[i])))
	}
	_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))

	for _, row := range rows {
		parts = parts[:0]
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			parts = append(parts, padRight(cell, widths[i]))
		}
		_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// URL outputs a link underlined, followed by the raw URL when they differ.
func (o *TTYOutput) URL(url, displayText string) {
	if displayText == "" || displayText == url {
		_, _ = fmt.Fprintln(o.w, "  "+StyleUnderline.Render(url))
		return
	}
	_, _ = fmt.Fprintf(o.w, "  %s (%s)\n", StyleUnderline.Render(displayText), url)
}

// JSON outputs v as indented JSON.
func (o *TTYOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
