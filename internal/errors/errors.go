package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for the fatal failure modes of a scan.
// Everything else degrades in place and never surfaces as an error.
type ErrorCode string

const (
	// RepoRootInvalid indicates the repo root is missing or not a directory
	RepoRootInvalid ErrorCode = "REPO_ROOT_INVALID"
	// OutputUnwritable indicates the output directory cannot be created
	OutputUnwritable ErrorCode = "OUTPUT_UNWRITABLE"
	// ReportWriteFailed indicates a report artifact could not be written
	ReportWriteFailed ErrorCode = "REPORT_WRITE_FAILED"
	// ConfigInvalid indicates an explicit config file could not be parsed
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// BaselineUnreadable indicates a baseline report could not be decoded
	BaselineUnreadable ErrorCode = "BASELINE_UNREADABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// CheckPath suggests inspecting a filesystem path
	CheckPath FixActionType = "check-path"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Path        string        `json:"path,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Error represents an advisor error with code, message, and suggestions
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new Error. When fixes is nil the registered fixes for the code are used.
func New(code ErrorCode, message string, cause error, fixes []FixAction) *Error {
	if fixes == nil {
		fixes = GetSuggestedFixes(code)
	}
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: fixes,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	RepoRootInvalid: {
		{
			Type:        CheckPath,
			Description: "Pass an existing directory with --repo-root",
		},
	},
	OutputUnwritable: {
		{
			Type:        CheckPath,
			Description: "Choose a writable --out-dir",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "symbiosis scan --config ''",
			Description: "Run with built-in defaults",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// Code extracts the ErrorCode from err, or InternalError when err is not an *Error.
func Code(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return InternalError
}
