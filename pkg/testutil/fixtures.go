package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/require"
)

// ManifestBuilder provides a fluent API for building package.json fixtures.
//
// Keys are written in the order they are added, so tests can assert on the
// exact bytes produced by rewrites.
type ManifestBuilder struct {
	data *orderedmap.OrderedMap
}

// NewManifest creates a ManifestBuilder with the given package name.
//
// Parameters:
//   - name: Value for the "name" key; omitted when empty
//
// Returns:
//   - *ManifestBuilder: New builder instance ready for method chaining
func NewManifest(name string) *ManifestBuilder {
	data := orderedmap.New()
	data.SetEscapeHTML(false)
	if name != "" {
		data.Set("name", name)
	}
	return &ManifestBuilder{data: data}
}

// WithDependency adds a dependency to a manifest section, creating the section
// on first use.
//
// Parameters:
//   - section: Section key (e.g., "dependencies", "devDependencies")
//   - name: Package name
//   - versionRange: Declared range
//
// Returns:
//   - *ManifestBuilder: Self for method chaining
func (b *ManifestBuilder) WithDependency(section, name, versionRange string) *ManifestBuilder {
	var deps *orderedmap.OrderedMap
	if raw, ok := b.data.Get(section); ok {
		deps = raw.(*orderedmap.OrderedMap)
	} else {
		deps = orderedmap.New()
		deps.SetEscapeHTML(false)
		b.data.Set(section, deps)
	}
	deps.Set(name, versionRange)
	return b
}

// WithField sets an arbitrary top-level key.
//
// Parameters:
//   - key: Top-level key
//   - value: Any JSON-encodable value
//
// Returns:
//   - *ManifestBuilder: Self for method chaining
func (b *ManifestBuilder) WithField(key string, value interface{}) *ManifestBuilder {
	b.data.Set(key, value)
	return b
}

// Bytes encodes the manifest with two-space indentation and a trailing newline.
// Ranges such as ">=1.0.0" are written verbatim, as package managers do.
func (b *ManifestBuilder) Bytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	require.NoError(t, encoder.Encode(b.data))
	return buf.Bytes()
}

// WriteTo writes the manifest as package.json inside dir, creating dir if needed.
//
// Parameters:
//   - t: Testing instance for helper marking and failure reporting
//   - dir: Directory to write into
//
// Returns:
//   - string: Path of the written package.json
func (b *ManifestBuilder) WriteTo(t *testing.T, dir string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, "package.json"), string(b.Bytes(t)))
}

// WriteFile writes content to path, creating parent directories.
//
// Parameters:
//   - t: Testing instance for helper marking and failure reporting
//   - path: Destination file
//   - content: File content
//
// Returns:
//   - string: The path that was written
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
