// Package verbose provides debug logging for turbo-ncu.
//
// Messages are only emitted after Enable has been called (the --verbose flag).
// Output goes to stderr by default so that JSON output on stdout stays clean.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = newLogger(os.Stderr)
)

// newLogger creates a debug-level logger writing to w.
//
// Parameters:
//   - w: Destination for log lines
//
// Returns:
//   - *log.Logger: Logger with the "turbo-ncu" prefix and no timestamps
func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:  log.DebugLevel,
		Prefix: "turbo-ncu",
	})
}

// Enable turns on verbose logging and allows debug messages to be printed.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging and prevents debug messages from being printed.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// IsEnabled returns whether verbose logging is currently enabled.
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter sets the output writer for verbose messages.
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, the writer remains unchanged
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		logger = newLogger(w)
	}
}

// active returns the logger when verbose output is enabled, nil otherwise.
func active() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return nil
	}
	return logger
}

// Printf prints a formatted verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Printf(format string, args ...any) {
	if l := active(); l != nil {
		l.Debug(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
	}
}

// Info prints an informational verbose message if enabled.
//
// Parameters:
//   - msg: The message string to print
func Info(msg string) {
	if l := active(); l != nil {
		l.Debug(msg)
	}
}

// Infof prints a formatted informational verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Infof(format string, args ...any) {
	if l := active(); l != nil {
		l.Debugf(format, args...)
	}
}

// Warnf prints a formatted warning if verbose logging is enabled.
//
// Degraded conditions (an unreadable workspace root, a failed global
// inventory) are silent in normal output and only surface here.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Warnf(format string, args ...any) {
	if l := active(); l != nil {
		l.Warnf(format, args...)
	}
}

// ConfigLoaded logs which config file was loaded if enabled.
//
// Parameters:
//   - path: The config file path, or empty when only defaults apply
//   - format: The loader that decoded the file (json, yaml, toml)
func ConfigLoaded(path, format string) {
	l := active()
	if l == nil {
		return
	}
	if path == "" {
		l.Debug("No config file found, using defaults")
		return
	}
	l.Debug("Config loaded", "path", path, "format", format)
}

// TargetResolved logs a resolved check target if enabled.
//
// Parameters:
//   - label: Display label of the target
//   - manifestPath: Manifest backing the target, empty for global
//   - count: Number of dependencies extracted
func TargetResolved(label, manifestPath string, count int) {
	if l := active(); l != nil {
		l.Debug("Target resolved", "label", label, "manifest", manifestPath, "packages", count)
	}
}

// CommandExec logs command execution details if enabled.
//
// Parameters:
//   - cmd: The command string being executed
//   - workDir: The working directory path for command execution
func CommandExec(cmd, workDir string) {
	if l := active(); l != nil {
		l.Debug("Executing", "cmd", cmd, "dir", workDir)
	}
}

// CommandResult logs command execution results if enabled.
//
// Long commands are truncated to 60 characters, and at most five output
// lines are shown.
//
// Parameters:
//   - cmd: The command string that was executed
//   - exitCode: The exit code returned by the command (0 for success)
//   - output: The command output
func CommandResult(cmd string, exitCode int, output string) {
	l := active()
	if l == nil {
		return
	}
	if exitCode == 0 {
		l.Debugf("Command succeeded: %s", truncate(cmd, 60))
	} else {
		l.Debugf("Command failed (exit %d): %s", exitCode, truncate(cmd, 60))
	}
	if output == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 5 {
		for _, line := range lines[:3] {
			l.Debugf("  | %s", truncate(line, 100))
		}
		l.Debugf("  | ... (%d more lines)", len(lines)-3)
		return
	}
	for _, line := range lines {
		l.Debugf("  | %s", truncate(line, 100))
	}
}

// PackageFiltered logs when a package is filtered out if enabled.
//
// Parameters:
//   - name: The name of the package that was filtered
//   - reason: The reason why the package was filtered out
func PackageFiltered(name, reason string) {
	if l := active(); l != nil {
		l.Debugf("Package '%s' filtered: %s", name, reason)
	}
}

// truncate shortens a string to the specified maximum length.
//
// Parameters:
//   - s: The string to truncate
//   - maxLen: The maximum length for the returned string (must be at least 3)
//
// Returns:
//   - string: The original or truncated string with "..." suffix if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
