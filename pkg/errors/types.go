package errors

import (
	"errors"
	"fmt"
)

// Exit codes for scripting integration.
const (
	// ExitSuccess indicates the run completed and the exit policy was satisfied.
	ExitSuccess = 0

	// ExitFailure indicates a fatal error, or an --errorLevel policy violation
	// such as updates being found with --errorLevel 2.
	ExitFailure = 1
)

// Sentinel errors for conditions that callers branch on.
var (
	// ErrManifestNotFound is returned when single-project mode cannot locate
	// a package.json file.
	ErrManifestNotFound = errors.New("no package.json found")

	// ErrUnsupportedConfigFormat is returned when an explicitly named config
	// file has an extension no loader is registered for.
	ErrUnsupportedConfigFormat = errors.New("unsupported config file format")
)

// ExitError represents a command termination with a specific exit code.
//
// Use this error when a command needs to exit with a non-zero status
// while providing context about what went wrong.
//
// Fields:
//   - Code: Exit code (use constants ExitSuccess, ExitFailure)
//   - Message: Human-readable error message
//   - Err: Underlying error that caused this exit, may be nil
//
// Example:
//
//	return &ExitError{
//	    Code:    ExitFailure,
//	    Message: "updates found",
//	}
type ExitError struct {
	// Code is the exit code for the command.
	Code int

	// Message is a human-readable description of why the command failed.
	// An empty Message with a nil Err produces a silent exit.
	Message string

	// Err is the underlying error that caused this exit.
	// May be nil if no underlying error exists.
	Err error
}

// Error implements the error interface.
//
// Returns the Message field if set, otherwise returns the underlying error's
// message, or a default message with the exit code.
//
// Returns:
//   - string: The error message
func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The underlying error, or nil if none exists
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Silent reports whether the error carries nothing worth printing.
//
// Policy exits (for example --errorLevel 2 with updates found) terminate the
// process without an error message because the table already told the story.
//
// Returns:
//   - bool: true if neither Message nor Err is set
func (e *ExitError) Silent() bool {
	return e.Message == "" && e.Err == nil
}

// NewExitError creates an ExitError with the given code and underlying error.
//
// Parameters:
//   - code: Exit code (use ExitSuccess, ExitFailure)
//   - err: Underlying error, may be nil
//
// Returns:
//   - *ExitError: New exit error
//
// Example:
//
//	err := errors.NewExitError(errors.ExitFailure, configErr)
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// GetExitCode extracts the exit code from an error.
//
// If err is nil, returns ExitSuccess.
// If err is an ExitError, returns its code.
// Otherwise returns ExitFailure.
//
// Parameters:
//   - err: The error to extract code from
//
// Returns:
//   - int: Exit code
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

// IsExitError checks if err is an ExitError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *ExitError: The ExitError if err is one, nil otherwise
//   - bool: true if err is an ExitError
func IsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}

// ConfigError reports a configuration file that could not be read or parsed.
//
// Fields:
//   - Path: The config file path that failed
//   - Err: The underlying read or decode error
type ConfigError struct {
	Path string
	Err  error
}

// Error implements the error interface.
//
// Returns:
//   - string: Message in the format "config file <path>: <cause>"
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The read or decode error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if err is a ConfigError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *ConfigError: The ConfigError if err is one, nil otherwise
//   - bool: true if err is a ConfigError
func IsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
