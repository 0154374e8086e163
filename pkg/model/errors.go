package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a pipeline failure by the stage that produced it.
type ErrorCode string

const (
	// ErrConfig covers malformed, missing, or out-of-range configuration.
	// Always raised before any task executes.
	ErrConfig ErrorCode = "CONFIG_ERROR"
	// ErrInput means a task's input pattern matched no files.
	ErrInput ErrorCode = "INPUT_ERROR"
	// ErrDiagnostic means a named diagnostic is unknown or its computation failed.
	ErrDiagnostic ErrorCode = "DIAGNOSTIC_ERROR"
	// ErrOutput means the output destination was unwritable.
	ErrOutput ErrorCode = "OUTPUT_ERROR"
	// ErrSubmission means the scheduler rejected the job script or was unavailable.
	ErrSubmission ErrorCode = "SUBMISSION_ERROR"
)

// PipelineError is a structured error carrying the failure class and,
// for validation failures, per-field details.
type PipelineError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// FieldError describes a validation error on a specific config field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewConfigError creates a CONFIG_ERROR with validation details.
func NewConfigError(msg string, details ...FieldError) *PipelineError {
	return &PipelineError{Code: ErrConfig, Message: msg, Details: details}
}

// NewInputError creates an INPUT_ERROR for an input pattern that matched nothing.
func NewInputError(pattern string) *PipelineError {
	return &PipelineError{
		Code:    ErrInput,
		Message: fmt.Sprintf("no files match input pattern %q", pattern),
	}
}

// NewDiagnosticError creates a DIAGNOSTIC_ERROR naming the failed diagnostic.
func NewDiagnosticError(name string, err error) *PipelineError {
	return &PipelineError{
		Code:    ErrDiagnostic,
		Message: fmt.Sprintf("diagnostic %q failed", name),
		Err:     err,
	}
}

// NewOutputError creates an OUTPUT_ERROR for an unwritable destination.
func NewOutputError(path string, err error) *PipelineError {
	return &PipelineError{
		Code:    ErrOutput,
		Message: fmt.Sprintf("write output %q", path),
		Err:     err,
	}
}

// NewSubmissionError creates a SUBMISSION_ERROR for a failed scheduler submission.
func NewSubmissionError(msg string, err error) *PipelineError {
	return &PipelineError{Code: ErrSubmission, Message: msg, Err: err}
}

// CodeOf returns the ErrorCode of err if it is (or wraps) a PipelineError,
// or the empty string otherwise.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
