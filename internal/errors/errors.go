// Package errors defines the typed errors deadsym components return.
//
// Only precondition failures (ROOT_MISSING, CONFIG_INVALID) abort a run.
// Per-file read problems never surface as errors, and an unavailable
// evidence source degrades the analysis instead of failing it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// RootMissing indicates a required project, code or resource root does not exist
	RootMissing ErrorCode = "ROOT_MISSING"
	// ConfigInvalid indicates the configuration file or flags are invalid
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// EvidenceUnavailable indicates an optional evidence input could not be used
	EvidenceUnavailable ErrorCode = "EVIDENCE_UNAVAILABLE"
	// InspectorFailed indicates the binary inspection tool failed
	InspectorFailed ErrorCode = "INSPECTOR_FAILED"
	// ExportFailed indicates a report artifact could not be written
	ExportFailed ErrorCode = "EXPORT_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// CheckPath suggests verifying a filesystem path
	CheckPath FixActionType = "check-path"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
	Tool        string        `json:"tool,omitempty"`
}

// Error is a deadsym error with code, message, and suggestions
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new Error with the default fixes for its code.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
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

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case RootMissing, ConfigInvalid:
		return true
	}
	return false
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	RootMissing: {
		{
			Type:        CheckPath,
			Description: "Verify the project and resource roots exist and are readable",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "deadsym init --force",
			Description: "Regenerate deadsym.toml with default values",
		},
	},
	InspectorFailed: {
		{
			Type:        InstallTool,
			Tool:        "otool",
			Command:     "xcode-select --install",
			Description: "Install the Xcode command line tools",
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
