package verbose

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withBuffer redirects verbose output into a buffer for the duration of a test.
func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetWriter(buf)
	t.Cleanup(func() {
		Disable()
		SetWriter(os.Stderr)
	})
	return buf
}

// TestEnableDisable tests the behavior of Enable and Disable functions.
//
// It verifies:
//   - Disable sets enabled state to false
//   - Enable sets enabled state to true
//   - IsEnabled returns correct state
func TestEnableDisable(t *testing.T) {
	Disable()
	assert.False(t, IsEnabled())

	Enable()
	assert.True(t, IsEnabled())

	Disable()
	assert.False(t, IsEnabled())
}

// TestSetWriter tests the behavior of SetWriter.
//
// It verifies:
//   - Messages are written to the configured writer
//   - nil writer parameter is ignored
func TestSetWriter(t *testing.T) {
	buf := withBuffer(t)

	Enable()
	Printf("test message")
	assert.Contains(t, buf.String(), "test message")

	SetWriter(nil)
	buf.Reset()
	Printf("another message")
	assert.Contains(t, buf.String(), "another message")
}

// TestDisabledIsSilent tests that nothing is written while disabled.
func TestDisabledIsSilent(t *testing.T) {
	buf := withBuffer(t)
	Disable()

	Printf("hidden %d", 1)
	Info("hidden")
	Infof("hidden %s", "too")
	Warnf("hidden warning")
	ConfigLoaded(".ncurc.json", "json")
	TargetResolved("root", "package.json", 3)
	CommandExec("npm ls -g", "/")
	CommandResult("npm ls -g", 0, "ok")
	PackageFiltered("lodash", "reject")

	assert.Empty(t, buf.String())
}

// TestStructuredHelpers tests the domain logging helpers.
//
// It verifies:
//   - ConfigLoaded reports path and format
//   - ConfigLoaded reports defaults when no path is given
//   - TargetResolved reports the label and package count
func TestStructuredHelpers(t *testing.T) {
	buf := withBuffer(t)
	Enable()

	ConfigLoaded(".ncurc.yml", "yaml")
	assert.Contains(t, buf.String(), ".ncurc.yml")
	assert.Contains(t, buf.String(), "yaml")

	buf.Reset()
	ConfigLoaded("", "")
	assert.Contains(t, buf.String(), "using defaults")

	buf.Reset()
	TargetResolved("web", "packages/web/package.json", 7)
	assert.Contains(t, buf.String(), "web")
	assert.Contains(t, buf.String(), "7")
}

// TestCommandResultTruncatesOutput tests long output handling.
func TestCommandResultTruncatesOutput(t *testing.T) {
	buf := withBuffer(t)
	Enable()

	output := strings.Repeat("line\n", 10)
	CommandResult("npm ls -g --depth=0 --json", 1, output)

	assert.Contains(t, buf.String(), "Command failed (exit 1)")
	assert.Contains(t, buf.String(), "7 more lines")
}

// TestTruncate tests the truncate helper.
func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
