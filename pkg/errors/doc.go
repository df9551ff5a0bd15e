// Package errors provides the error types and exit codes shared by turbo-ncu.
//
// This package consolidates command termination handling in one place:
//   - ExitError: Command exit with a specific exit code
//   - ConfigError: A configuration file that could not be loaded
//   - Sentinel errors for conditions callers branch on
//
// Error Checking:
//
// Use the Is* helpers or the standard errors package to inspect errors:
//
//	if exitErr, ok := errors.IsExitError(err); ok {
//	    os.Exit(exitErr.Code)
//	}
//
// Exit Codes:
//
// The CLI only distinguishes success from failure so that scripts can gate on
// the --errorLevel policy:
//   - ExitSuccess (0): The run completed and the exit policy was satisfied
//   - ExitFailure (1): A fatal error occurred or the exit policy was violated
package errors
