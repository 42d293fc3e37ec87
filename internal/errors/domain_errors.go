package errors

import (
	"fmt"
	"strings"
)

// MissingColumnsError reports every required source column absent from the
// uploaded workbook. Validation collects all missing columns before
// failing, never just the first.
type MissingColumnsError struct {
	Missing []string
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns missing: %s", strings.Join(e.Missing, ", "))
}

// NewMissingColumnsError creates a MissingColumnsError
func NewMissingColumnsError(missing, found []string) *MissingColumnsError {
	return &MissingColumnsError{Missing: missing, Found: found}
}

// MalformedInputError reports a workbook that could not be read at all:
// unreadable file, missing sheet, or no data rows. Fatal for the run.
type MalformedInputError struct {
	Reason string
	Cause  error
}

func (e *MalformedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed input: %s", e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// NewMalformedInputError creates a MalformedInputError
func NewMalformedInputError(reason string, cause error) *MalformedInputError {
	return &MalformedInputError{Reason: reason, Cause: cause}
}

// UnparseableDateError is a row-level problem: the closing date did not
// parse under any accepted layout. Rows carrying it are dropped and
// counted, never fatal.
type UnparseableDateError struct {
	Row   int
	Value string
}

func (e *UnparseableDateError) Error() string {
	return fmt.Sprintf("row %d: unparseable closing date %q", e.Row, e.Value)
}

// InsufficientDataError reports that a technician has fewer observed weeks
// than an analysis requires. Non-fatal; that technician's result is simply
// unavailable.
type InsufficientDataError struct {
	Technician string
	Have       int
	Want       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("technician %q: %d weeks observed, %d required", e.Technician, e.Have, e.Want)
}

// NewInsufficientDataError creates an InsufficientDataError
func NewInsufficientDataError(technician string, have, want int) *InsufficientDataError {
	return &InsufficientDataError{Technician: technician, Have: have, Want: want}
}

// TechnicianNotFoundError reports a request for a technician absent from
// the current dataset.
type TechnicianNotFoundError struct {
	Technician string
}

func (e *TechnicianNotFoundError) Error() string {
	return fmt.Sprintf("technician %q not found in dataset", e.Technician)
}

// NoReportError reports that no workbook has been ingested yet.
type NoReportError struct{}

func (e *NoReportError) Error() string {
	return "no report available: upload a workbook first"
}
