package errors

import (
	"encoding/json"
	"errors"

	"github.com/kinetic-sfc/compiler/internal/ast"
)

// Report is the compiler's canonical structured error type. Every
// diagnostic builder returns *Report, which can be wrapped as a
// ReportError so the structured form survives an errors.As() unwrap.
type Report struct {
	Schema  string         `json:"schema"`         // Always "sfc.error/v1"
	Code    string         `json:"code"`           // Error code (SCP001, TYP002, etc.)
	Phase   string         `json:"phase"`          // Phase: "scope", "typeresolve", "macro", "template", "scheduler", "parse"
	Message string         `json:"message"`        // Human-readable message
	Span    *ast.Span      `json:"span,omitempty"` // Source location (optional)
	Data    map[string]any `json:"data,omitempty"` // Structured data (sorted keys)
	Fix     *Fix           `json:"fix,omitempty"`  // Suggested fix (optional)
}

// Fix is a suggested remediation attached to a Report (spec §7 "Fix
// suggestions"), e.g. the "@vue-ignore" annotation TYP001 points at.
type Fix struct {
	Description string `json:"description"`
	Replacement string `json:"replacement,omitempty"`
}

// ReportError wraps a Report as an error
// This allows structured reports to survive errors.As() unwrapping
type ReportError struct {
	Rep *Report
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain
// Returns the Report and true if found, nil and false otherwise
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError
// Call sites should return errors.WrapReport(report) to preserve structure
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON (deterministic, sorted keys)
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric wraps an arbitrary error as a Report when no specific error
// code applies.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  "sfc.error/v1",
		Code:    "GENERIC",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
