package filtering

import (
	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/ajxudir/turboncu/pkg/verbose"
)

// Set holds compiled include and exclude matchers.
//
// A nil matcher means the corresponding pattern was not given.
type Set struct {
	Include Matcher
	Exclude Matcher
}

// Compile parses include and exclude patterns once so they can be applied to
// many targets and validated before any check runs.
//
// Parameters:
//   - include: --filter pattern, empty for none
//   - exclude: --reject pattern, empty for none
//
// Returns:
//   - *Set: Compiled matchers
//   - error: When either pattern is an invalid regular expression
func Compile(include, exclude string) (*Set, error) {
	s := &Set{}
	if include != "" {
		m, err := ParsePattern(include)
		if err != nil {
			return nil, err
		}
		s.Include = m
	}
	if exclude != "" {
		m, err := ParsePattern(exclude)
		if err != nil {
			return nil, err
		}
		s.Exclude = m
	}
	return s, nil
}

// Apply keeps dependencies matching Include and then drops those matching
// Exclude, preserving input order. The input slice is not modified.
//
// Parameters:
//   - deps: Dependencies to filter
//
// Returns:
//   - []manifest.Dependency: Surviving dependencies
func (s *Set) Apply(deps []manifest.Dependency) []manifest.Dependency {
	result := make([]manifest.Dependency, 0, len(deps))
	for _, dep := range deps {
		if s.Include != nil && !s.Include.Match(dep.Name) {
			verbose.PackageFiltered(dep.Name, "not matched by filter "+s.Include.String())
			continue
		}
		if s.Exclude != nil && s.Exclude.Match(dep.Name) {
			verbose.PackageFiltered(dep.Name, "matched by reject "+s.Exclude.String())
			continue
		}
		result = append(result, dep)
	}
	return result
}

// Filter compiles include and exclude and applies them to deps.
//
// Absence of both patterns is the identity transform.
//
// Parameters:
//   - deps: Dependencies to filter
//   - include: Pattern to keep, empty for none
//   - exclude: Pattern to drop, empty for none
//
// Returns:
//   - []manifest.Dependency: Surviving dependencies in input order
//   - error: When a pattern is an invalid regular expression
func Filter(deps []manifest.Dependency, include, exclude string) ([]manifest.Dependency, error) {
	s, err := Compile(include, exclude)
	if err != nil {
		return nil, err
	}
	return s.Apply(deps), nil
}
