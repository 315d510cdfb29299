// Package domain provides shared data types for relpack.
//
// This file defines the artifact model shared by the validation, checksum and
// packaging stages so each stage works on the same path descriptors.
package domain

import (
	"path"
	"strings"

	"github.com/mrz1836/relpack/internal/constants"
)

// ArtifactClass identifies the kind of release artifact by file extension.
type ArtifactClass string

// Artifact classes.
const (
	// ClassPatch is a source patch file (*.patch).
	ClassPatch ArtifactClass = "patch"
	// ClassXML is an XML configuration file (*.xml).
	ClassXML ArtifactClass = "xml"
	// ClassROM is a ROM image (*.rom).
	ClassROM ArtifactClass = "rom"
	// ClassData is a data blob (*.dat).
	ClassData ArtifactClass = "dat"
	// ClassOther is any file outside the four artifact classes.
	ClassOther ArtifactClass = "other"
)

// ClassOf returns the artifact class of a path based on its extension.
// Extension matching is case-sensitive, the same as a shell glob.
func ClassOf(p string) ArtifactClass {
	switch path.Ext(p) {
	case constants.ExtPatch:
		return ClassPatch
	case constants.ExtXML:
		return ClassXML
	case constants.ExtROM:
		return ClassROM
	case constants.ExtDat:
		return ClassData
	default:
		return ClassOther
	}
}

// ArtifactFile is a path descriptor for one file in the working directory.
type ArtifactFile struct {
	// Path is slash-separated and relative to the working directory.
	Path string `json:"path"`
	// Class is derived from the extension.
	Class ArtifactClass `json:"class"`
}

// NewArtifactFile builds a descriptor for a slash-separated relative path.
func NewArtifactFile(p string) ArtifactFile {
	return ArtifactFile{Path: p, Class: ClassOf(p)}
}

// Name returns the base name of the file.
func (f ArtifactFile) Name() string {
	return path.Base(f.Path)
}

// AtRoot reports whether the file sits directly in the working directory.
func (f ArtifactFile) AtRoot() bool {
	return !strings.Contains(f.Path, "/")
}

// Outcome is the per-file result of a validation check.
type Outcome string

// Validation outcomes.
const (
	// OutcomeWellFormed means the file passed its check.
	OutcomeWellFormed Outcome = "well-formed"
	// OutcomeMalformed means the file exists but failed its check.
	OutcomeMalformed Outcome = "malformed"
	// OutcomeMissing means a required file does not exist.
	OutcomeMissing Outcome = "missing"
)

// FileResult records the outcome of checking one file.
type FileResult struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	// Reason explains a malformed or missing outcome.
	Reason string `json:"reason,omitempty"`
	// Advisory is true when a malformed outcome does not fail the run.
	Advisory bool `json:"advisory,omitempty"`
}

// OK reports whether the file passed its check.
func (r FileResult) OK() bool {
	return r.Outcome == OutcomeWellFormed
}
