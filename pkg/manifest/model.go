// Package manifest reads package.json manifests and extracts the dependency
// references declared in them.
package manifest

import "strings"

// FileName is the manifest file name looked up in project directories.
const FileName = "package.json"

// DepType classifies a declared dependency by the manifest section it lives in.
type DepType string

const (
	// DepProd is a runtime dependency declared under "dependencies".
	DepProd DepType = "prod"
	// DepDev is a development dependency declared under "devDependencies".
	DepDev DepType = "dev"
	// DepPeer is a peer dependency declared under "peerDependencies".
	DepPeer DepType = "peer"
	// DepOptional is an optional dependency declared under "optionalDependencies".
	DepOptional DepType = "optional"
)

// AllDepTypes lists every dependency type in the default visiting order.
var AllDepTypes = []DepType{DepProd, DepDev, DepPeer, DepOptional}

var sectionNames = map[DepType]string{
	DepProd:     "dependencies",
	DepDev:      "devDependencies",
	DepPeer:     "peerDependencies",
	DepOptional: "optionalDependencies",
}

// Section returns the manifest key holding dependencies of this type.
//
// Returns:
//   - string: Section key (e.g., "devDependencies"), or empty for unknown types
func (d DepType) Section() string {
	return sectionNames[d]
}

// Valid reports whether d is one of the four known dependency types.
func (d DepType) Valid() bool {
	_, ok := sectionNames[d]
	return ok
}

// Dependency is a single declared dependency reference.
//
// Identity is (Name, DepType) within one manifest. Values are never mutated
// after extraction.
//
// Fields:
//   - Name: Package name as declared (e.g., "@types/node")
//   - VersionRange: Declared range string (e.g., "^4.0.0")
//   - DepType: Section the dependency was declared in
type Dependency struct {
	Name         string  `json:"name"`
	VersionRange string  `json:"versionRange"`
	DepType      DepType `json:"depType"`
}

// ParseDepTypes converts --dep flag values into dependency types.
//
// Each value may itself be a comma-separated list. Unknown names are ignored
// and duplicates collapse to their first occurrence. If nothing valid remains,
// all four types are returned.
//
// Parameters:
//   - values: Raw flag or config values (e.g., ["prod,dev", "peer"])
//
// Returns:
//   - []DepType: Requested types in the order given
func ParseDepTypes(values []string) []DepType {
	var result []DepType
	seen := make(map[DepType]bool)

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			dt := DepType(strings.TrimSpace(part))
			if !dt.Valid() || seen[dt] {
				continue
			}
			seen[dt] = true
			result = append(result, dt)
		}
	}

	if len(result) == 0 {
		return append([]DepType(nil), AllDepTypes...)
	}
	return result
}
