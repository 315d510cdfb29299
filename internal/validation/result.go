package validation

import (
	"time"

	"github.com/mrz1836/relpack/internal/domain"
)

// Report captures the outcome of a full validation run.
type Report struct {
	// Patches holds the advisory dry-run outcome of every patch file.
	Patches []domain.FileResult `json:"patches"`
	// XML holds the well-formedness outcome of every configuration file checked.
	XML []domain.FileResult `json:"xml"`
	// Required holds the presence outcome of every required file checked.
	Required []domain.FileResult `json:"required"`
	// Versions lists the version token parsed from every patch file name.
	Versions []PatchVersionInfo `json:"versions"`
	// Success is false when a fatal check failed.
	Success bool `json:"success"`
	// FailedStep names the step that stopped the run, if any.
	FailedStep string `json:"failed_step,omitempty"`
	// Warnings counts advisory failures.
	Warnings   int   `json:"warnings"`
	DurationMs int64 `json:"duration_ms"`
}

// Step names reported in progress callbacks and Report.FailedStep.
const (
	StepPatches  = "patches"
	StepXML      = "xml"
	StepRequired = "required"
	StepVersions = "versions"
)

func (r *Report) finalize(start time.Time) *Report {
	r.DurationMs = time.Since(start).Milliseconds()
	return r
}

func countAdvisory(results []domain.FileResult) int {
	n := 0
	for _, res := range results {
		if !res.OK() && res.Advisory {
			n++
		}
	}
	return n
}
