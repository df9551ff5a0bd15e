package update

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/turboncu/pkg/check"
	"github.com/ajxudir/turboncu/pkg/verbose"
)

const defaultIndent = "  "

var indentPattern = regexp.MustCompile(`(?m)^([ \t]+)"`)

// readFileFunc and writeFileFunc allow tests to inject I/O failures.
var (
	readFileFunc  = os.ReadFile
	writeFileFunc = writeFileAtomic
)

// DetectIndent returns the leading whitespace of the first indented quoted
// key, or two spaces when the content has none.
func DetectIndent(content []byte) string {
	if m := indentPattern.FindSubmatch(content); m != nil {
		return string(m[1])
	}
	return defaultIndent
}

// Rewrite applies updates to the manifest at path.
//
// It performs the following operations:
//   - Step 1: Read the file and record its indentation and trailing newline
//   - Step 2: Decode into ordered maps to keep key order
//   - Step 3: Replace the range of every update whose name already exists in
//     the section of its dependency type
//   - Step 4: Re-encode with the same indentation and without HTML escaping
//   - Step 5: Overwrite the file, keeping its mode and ownership
//
// Updates naming a key that is absent from the expected section are no-ops.
//
// Parameters:
//   - path: Manifest file
//   - updates: Updates produced for this manifest
//
// Returns:
//   - error: Read, parse or write failure; nil on success
func Rewrite(path string, updates []check.Update) error {
	content, err := readFileFunc(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	updated, changed, err := rewriteContent(content, updates)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	verbose.Printf("Rewriting %s: %d of %d updates applied", path, changed, len(updates))

	if err := writeFileFunc(path, updated); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// rewriteContent returns content with updates applied and the number of
// values replaced.
func rewriteContent(content []byte, updates []check.Update) ([]byte, int, error) {
	indent := DetectIndent(content)
	trailingNewline := bytes.HasSuffix(content, []byte("\n"))

	data := orderedmap.New()
	if err := json.Unmarshal(content, data); err != nil {
		return nil, 0, err
	}

	changed := 0
	for _, u := range updates {
		section := sectionOf(data, u.DepType.Section())
		if section == nil {
			continue
		}
		if _, ok := section.Get(u.Name); !ok {
			continue
		}
		section.Set(u.Name, u.NewRange)
		changed++
	}

	out, err := marshalJSON(data, indent)
	if err != nil {
		return nil, 0, err
	}
	if trailingNewline {
		out = append(out, '\n')
	}
	return out, changed, nil
}

// sectionOf returns the dependency section under key as a pointer stored
// back into data, so later Sets are visible when data is encoded.
func sectionOf(data *orderedmap.OrderedMap, key string) *orderedmap.OrderedMap {
	if key == "" {
		return nil
	}
	raw, ok := data.Get(key)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case *orderedmap.OrderedMap:
		return v
	case orderedmap.OrderedMap:
		section := v
		data.Set(key, &section)
		return &section
	default:
		return nil
	}
}

// marshalJSON encodes data with the given indent unit, no HTML escaping and
// no trailing newline.
func marshalJSON(data *orderedmap.OrderedMap, indent string) ([]byte, error) {
	disableOrderedMapEscape(data)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	if err := encoder.Encode(data); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes that
// encoding/json always emits back into raw U+2028 and U+2029, the form npm and
// other JavaScript tooling write. Escaped backslashes are skipped so a literal
// "\\u2028" in a string stays as it was.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+5 < len(b) && string(b[i+2:i+5]) == "202" {
			switch b[i+5] {
			case '8':
				out = append(out, "\u2028"...)
				i += 5
				continue
			case '9':
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// disableOrderedMapEscape turns off HTML escaping on m and every map nested
// inside it, so ranges like ">=1.0.0" are written verbatim.
func disableOrderedMapEscape(m *orderedmap.OrderedMap) {
	m.SetEscapeHTML(false)
	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		m.Set(key, normalizeOrderedMapEscaping(val))
	}
}

func normalizeOrderedMapEscaping(val interface{}) interface{} {
	switch v := val.(type) {
	case *orderedmap.OrderedMap:
		disableOrderedMapEscape(v)
		return v
	case orderedmap.OrderedMap:
		nested := v
		disableOrderedMapEscape(&nested)
		return &nested
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeOrderedMapEscaping(item)
		}
		return v
	default:
		return val
	}
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory, carrying over the original mode and owner. A symlinked
// path is resolved first so the link target is the file that changes.
func writeFileAtomic(path string, data []byte) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}
	path = resolved

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		cleanup()
		return err
	}
	uid, gid := getFileOwnership(info)
	if err := chownFile(tmpPath, uid, gid); err != nil {
		verbose.Warnf("Could not preserve owner of %s: %v", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
