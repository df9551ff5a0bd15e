package config

import (
	"fmt"
	"strings"

	"github.com/ajxudir/turboncu/pkg/utils"
)

// ValidationError reports an option holding an unacceptable value.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message string.
func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks merged options before any target is resolved.
//
// It performs the following operations:
//   - Step 1: Target must be latest, minor, patch or semver
//   - Step 2: ErrorLevel must be 0, 1 or 2
//   - Step 3: Concurrency and Timeout must be positive
//   - Step 4: CacheTTL must not be negative
//
// Parameters:
//   - o: Merged options
//
// Returns:
//   - error: The first ValidationError found, or nil
func Validate(o Options) error {
	if !utils.Contains(ValidTargets, o.Target) {
		return ValidationError{
			Field:   "target",
			Message: fmt.Sprintf("%q (expected one of %s)", o.Target, strings.Join(ValidTargets, ", ")),
		}
	}
	if o.ErrorLevel < ErrorLevelNever || o.ErrorLevel > ErrorLevelUpdates {
		return ValidationError{Field: "errorLevel", Message: fmt.Sprintf("%d (expected 0, 1 or 2)", o.ErrorLevel)}
	}
	if o.Concurrency <= 0 {
		return ValidationError{Field: "concurrency", Message: fmt.Sprintf("%d (must be greater than 0)", o.Concurrency)}
	}
	if o.Timeout <= 0 {
		return ValidationError{Field: "timeout", Message: fmt.Sprintf("%d (must be greater than 0)", o.Timeout)}
	}
	if o.CacheTTL < 0 {
		return ValidationError{Field: "cacheTtl", Message: fmt.Sprintf("%d (must not be negative)", o.CacheTTL)}
	}
	return nil
}
