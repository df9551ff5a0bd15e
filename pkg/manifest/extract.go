package manifest

import "strings"

// nonRegistryPrefixes mark ranges that point at local paths, VCS or tarballs.
var nonRegistryPrefixes = []string{"file:", "git:", "git+", "github:", "http:", "https:"}

// IsRegistryRange reports whether a declared range can be resolved against a
// package registry.
//
// The test is applied to the range string only, never to the package name, so
// scoped names such as "@types/node" are unaffected. Any range containing "/"
// is treated as a path or repository shorthand.
//
// Parameters:
//   - versionRange: Declared range (e.g., "^1.2.3", "file:../local")
//
// Returns:
//   - bool: false for file:, git:, git+, github:, http:, https: and slash-bearing ranges
func IsRegistryRange(versionRange string) bool {
	for _, prefix := range nonRegistryPrefixes {
		if strings.HasPrefix(versionRange, prefix) {
			return false
		}
	}
	return !strings.Contains(versionRange, "/")
}

// Extract lists the registry dependencies declared in m.
//
// Sections are visited in the order of depTypes; within a section the
// manifest's key order is kept. Non-registry ranges and non-string values are
// skipped.
//
// Parameters:
//   - m: Decoded manifest
//   - depTypes: Dependency types to extract, in visiting order
//
// Returns:
//   - []Dependency: Extracted references, empty when nothing matches
func Extract(m *Manifest, depTypes []DepType) []Dependency {
	deps := make([]Dependency, 0)
	if m == nil {
		return deps
	}

	for _, dt := range depTypes {
		section := m.Section(dt)
		if section == nil {
			continue
		}
		for _, name := range section.Keys() {
			raw, _ := section.Get(name)
			versionRange, ok := raw.(string)
			if !ok || !IsRegistryRange(versionRange) {
				continue
			}
			deps = append(deps, Dependency{
				Name:         name,
				VersionRange: versionRange,
				DepType:      dt,
			})
		}
	}

	return deps
}
