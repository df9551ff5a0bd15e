// Package update rewrites package.json manifests in place with new version
// ranges.
//
// Rewrite keeps the file's key order, indentation unit and trailing newline,
// and only replaces values of keys that are already declared in the section
// matching each update's dependency type.
package update
