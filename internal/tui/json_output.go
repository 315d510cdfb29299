package tui

import (
	"encoding/json"
	"io"

	"github.com/mrz1836/relpack/internal/errors"
)

// JSONOutput writes one JSON object per message for CI consumption.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type jsonStep struct {
	Type   string `json:"type"`
	Step   string `json:"step"`
	Status string `json:"status"`
}

type jsonURL struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Display string `json:"display,omitempty"`
}

// Success outputs {"type":"success","message":"..."}.
func (o *JSONOutput) Success(msg string) {
	o.encode(jsonMessage{Type: "success", Message: msg})
}

// Error outputs {"type":"error","message":"...","details":"...","suggestion":"..."}.
// Details carries the user-facing description of known errors.
func (o *JSONOutput) Error(err error) {
	out := jsonError{Type: "error", Message: err.Error()}
	if msg, action := errors.Actionable(err); msg != err.Error() {
		out.Details = msg
		out.Suggestion = action
	}
	o.encode(out)
}

// Warning outputs {"type":"warning","message":"..."}.
func (o *JSONOutput) Warning(msg string) {
	o.encode(jsonMessage{Type: "warning", Message: msg})
}

// Info outputs {"type":"info","message":"..."}.
func (o *JSONOutput) Info(msg string) {
	o.encode(jsonMessage{Type: "info", Message: msg})
}

// Step outputs {"type":"step","step":"...","status":"..."}.
func (o *JSONOutput) Step(step, status string) {
	o.encode(jsonStep{Type: "step", Step: step, Status: status})
}

// Table outputs rows as an array of objects keyed by header.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = row[i]
			} else {
				obj[h] = ""
			}
		}
		result = append(result, obj)
	}
	o.encode(result)
}

// URL outputs {"type":"url","url":"...","display":"..."}.
func (o *JSONOutput) URL(url, displayText string) {
	msg := jsonURL{Type: "url", URL: url}
	if displayText != "" && displayText != url {
		msg.Display = displayText
	}
	o.encode(msg)
}

// JSON outputs an arbitrary value as JSON.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}

func (o *JSONOutput) encode(v any) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(v)
}
