package registry

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ajxudir/turboncu/pkg/check"
	modsemver "golang.org/x/mod/semver"
)

// rangeOperators are the prefixes kept when rebuilding a range, longest first.
var rangeOperators = []string{">=", "<=", "^", "~", ">", "<", "="}

// RangePrefix returns the operator a declared range starts with.
//
// Parameters:
//   - declared: Declared range (e.g., "^1.2.3", ">= 2.0.0", "1.2.3")
//
// Returns:
//   - string: One of >=, <=, ^, ~, >, <, = or empty
func RangePrefix(declared string) string {
	s := strings.TrimSpace(declared)
	for _, op := range rangeOperators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

// ParseBaseVersion extracts the version a declared range is anchored on.
//
// It performs the following operations:
//   - Step 1: Keep the first alternative of "||" and the first comparator
//   - Step 2: Strip the leading operator and any "v"
//   - Step 3: Replace x or * segments after the first with 0
//   - Step 4: Canonicalize, filling missing minor or patch with 0
//
// Parameters:
//   - declared: Declared range (e.g., "^1.2.3", "~1.x", ">=2 <3")
//
// Returns:
//   - string: Base version without "v" (e.g., "1.0.0")
//   - bool: false for ranges with no concrete anchor ("*", "latest", "")
func ParseBaseVersion(declared string) (string, bool) {
	s := strings.TrimSpace(declared)
	if i := strings.Index(s, "||"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	op := RangePrefix(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, op))
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	s = strings.TrimPrefix(s, "v")

	parts := strings.Split(s, ".")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "x" || parts[i] == "X" || parts[i] == "*" {
			parts[i] = "0"
		}
	}
	s = strings.Join(parts, ".")

	canonical := modsemver.Canonical("v" + s)
	if canonical == "" {
		return "", false
	}
	return strings.TrimPrefix(canonical, "v"), true
}

// Policy selects which published versions a dependency may move to.
type Policy struct {
	Target            string
	IncludePrerelease bool
}

// Pick chooses the highest acceptable version newer than current.
//
// Versions that are not valid semver are ignored, as are prereleases unless
// IncludePrerelease is set. Under the semver target, candidates must also
// satisfy the declared range.
//
// Parameters:
//   - current: Base version from ParseBaseVersion
//   - declared: Declared range, used by the semver target
//   - versions: Published versions, any order
//
// Returns:
//   - string: Chosen version without "v"
//   - bool: false when nothing newer is acceptable
func (p Policy) Pick(current, declared string, versions []string) (string, bool) {
	cur := "v" + current
	if !modsemver.IsValid(cur) {
		return "", false
	}

	var constraint *semver.Constraints
	if p.Target == "semver" {
		c, err := semver.NewConstraint(declared)
		if err != nil {
			return "", false
		}
		constraint = c
	}

	best := ""
	for _, raw := range versions {
		v := "v" + strings.TrimPrefix(raw, "v")
		if !modsemver.IsValid(v) {
			continue
		}
		if modsemver.Prerelease(v) != "" && !p.IncludePrerelease {
			continue
		}
		if modsemver.Compare(v, cur) <= 0 {
			continue
		}
		if !p.accepts(cur, v, constraint) {
			continue
		}
		if best == "" || modsemver.Compare(v, best) > 0 {
			best = v
		}
	}

	if best == "" {
		return "", false
	}
	return strings.TrimPrefix(best, "v"), true
}

func (p Policy) accepts(cur, v string, constraint *semver.Constraints) bool {
	switch p.Target {
	case "minor":
		return modsemver.Major(v) == modsemver.Major(cur)
	case "patch":
		return modsemver.MajorMinor(v) == modsemver.MajorMinor(cur)
	case "semver":
		sv, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
		if err != nil {
			return false
		}
		if constraint.Check(sv) {
			return true
		}
		// Constraints without a prerelease never match prereleases.
		if p.IncludePrerelease && sv.Prerelease() != "" {
			release, err := sv.SetPrerelease("")
			return err == nil && constraint.Check(&release)
		}
		return false
	default:
		return true
	}
}

// Classify reports how large the jump from one version to another is.
//
// Parameters:
//   - from: Current version without "v"
//   - to: New version without "v"
//
// Returns:
//   - check.UpdateType: major, minor, patch, or prerelease when only the
//     prerelease part differs
func Classify(from, to string) check.UpdateType {
	a, errA := semver.NewVersion(from)
	b, errB := semver.NewVersion(to)
	if errA != nil || errB != nil {
		return check.UpdateMajor
	}
	switch {
	case a.Major() != b.Major():
		return check.UpdateMajor
	case a.Minor() != b.Minor():
		return check.UpdateMinor
	case a.Patch() != b.Patch():
		return check.UpdatePatch
	default:
		return check.UpdatePrerelease
	}
}

// NewRange rebuilds a declared range around a new version, keeping its
// operator prefix.
//
// Parameters:
//   - declared: Original range (e.g., "~1.2.0")
//   - version: New version (e.g., "1.2.5")
//
// Returns:
//   - string: Replacement range (e.g., "~1.2.5")
func NewRange(declared, version string) string {
	return RangePrefix(declared) + version
}
