package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajxudir/turboncu/pkg/errors"
	"github.com/iancoleman/orderedmap"
)

// Manifest is a decoded package.json that preserves key order.
//
// Fields:
//   - Path: File the manifest was read from, empty when parsed from bytes
//   - data: Ordered top-level object
type Manifest struct {
	Path string
	data *orderedmap.OrderedMap
}

// Parse decodes manifest content.
//
// Parameters:
//   - content: Raw package.json bytes
//
// Returns:
//   - *Manifest: Decoded manifest with key order preserved
//   - error: When the content is not a JSON object
func Parse(content []byte) (*Manifest, error) {
	data := orderedmap.New()
	if err := json.Unmarshal(content, data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return &Manifest{data: data}, nil
}

// Read loads and decodes the manifest at path.
//
// Parameters:
//   - path: Path to a package.json file
//
// Returns:
//   - *Manifest: Decoded manifest with Path set
//   - error: When the file cannot be read or decoded
func Read(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Find returns the absolute path of package.json inside dir.
//
// Parameters:
//   - dir: Directory to look in; "." when empty
//
// Returns:
//   - string: Absolute manifest path
//   - error: Wraps errors.ErrManifestNotFound when no manifest exists
func Find(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(abs, FileName)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w in %s", errors.ErrManifestNotFound, abs)
	}
	return path, nil
}

// Name returns the declared package name, or empty if absent.
func (m *Manifest) Name() string {
	v, ok := m.data.Get("name")
	if !ok {
		return ""
	}
	name, _ := v.(string)
	return name
}

// Section returns the ordered dependency map for a dependency type.
//
// Parameters:
//   - dt: Dependency type whose section to look up
//
// Returns:
//   - *orderedmap.OrderedMap: The section, or nil if it is absent or not an object
func (m *Manifest) Section(dt DepType) *orderedmap.OrderedMap {
	return objectAt(m.data, dt.Section())
}

// WorkspacePatterns returns the glob patterns declared under "workspaces".
//
// Both the array form and the object form carrying a "packages" array are
// recognized. Non-string entries are skipped.
//
// Returns:
//   - []string: Declared patterns, nil when none are declared
func (m *Manifest) WorkspacePatterns() []string {
	raw, ok := m.data.Get("workspaces")
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []interface{}:
		return stringsOf(v)
	case orderedmap.OrderedMap:
		if pkgs, ok := v.Get("packages"); ok {
			if list, ok := pkgs.([]interface{}); ok {
				return stringsOf(list)
			}
		}
	}
	return nil
}

// objectAt returns the nested object stored under key.
//
// Decoding into an orderedmap stores nested objects by value; both the value
// and pointer forms are accepted here.
func objectAt(m *orderedmap.OrderedMap, key string) *orderedmap.OrderedMap {
	if m == nil || key == "" {
		return nil
	}
	raw, ok := m.Get(key)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case orderedmap.OrderedMap:
		return &v
	case *orderedmap.OrderedMap:
		return v
	default:
		return nil
	}
}

func stringsOf(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
