// Package errors provides structured error types and exit codes for dextest.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess = 0 // Every test passed, or update completed
	ExitFailure = 1 // Mismatches, per-test errors, or a fatal precondition
	ExitUsage   = 2 // Flags could not be parsed
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindExec
	KindUsage
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindExec:
		return "exec"
	case KindUsage:
		return "usage"
	default:
		return "runtime"
	}
}

// DextestError is the base error type for dextest.
type DextestError struct {
	Kind    ErrorKind
	Message string
	Case    string // Test case name if applicable
	Input   string // Input file basename if applicable
	Cause   error  // Underlying error
}

func (e *DextestError) Error() string {
	if e.Case != "" && e.Input != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Case, e.Input, e.Message)
	}
	if e.Case != "" {
		return fmt.Sprintf("[%s] %s", e.Case, e.Message)
	}
	return e.Message
}

func (e *DextestError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error.
// Configuration errors share ExitFailure with test failures; only flag
// parsing problems get a distinct code.
func (e *DextestError) ExitCode() int {
	if e.Kind == KindUsage {
		return ExitUsage
	}
	return ExitFailure
}

// Config creates a new configuration error.
func Config(message string) *DextestError {
	return &DextestError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *DextestError {
	return Config(fmt.Sprintf(format, args...))
}

// Validation wraps a case table that failed validation.
func Validation(cause error) *DextestError {
	return &DextestError{
		Kind:    KindValidation,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// Usage creates a new command-line usage error.
func Usage(message string) *DextestError {
	return &DextestError{
		Kind:    KindUsage,
		Message: message,
	}
}

// Exec creates an error for a process that could not be started.
func Exec(command string, cause error) *DextestError {
	return &DextestError{
		Kind:    KindExec,
		Message: fmt.Sprintf("cannot run %s: %v", command, cause),
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *DextestError {
	return &DextestError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// CaseError creates an error for a specific test case and input.
func CaseError(caseName, input string, cause error) *DextestError {
	kind := KindRuntime
	var de *DextestError
	if stderrors.As(cause, &de) {
		kind = de.Kind
	}
	return &DextestError{
		Kind:    kind,
		Case:    caseName,
		Input:   input,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// IsKind reports whether err is a DextestError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *DextestError
	if stderrors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var de *DextestError
	if stderrors.As(err, &de) {
		return de.ExitCode()
	}
	return ExitFailure
}
