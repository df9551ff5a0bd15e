package filtering

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ajxudir/turboncu/pkg/utils"
)

// Matcher defines the interface for package name matching strategies.
//
// Example:
//
//	matcher, _ := filtering.ParsePattern("@types/*")
//	if matcher.Match("@types/node") {
//	    fmt.Println("matched!")
//	}
type Matcher interface {
	// Match tests if the given package name matches the pattern.
	Match(name string) bool

	// String returns the pattern the matcher was built from.
	String() string
}

// ExactMatcher matches names equal to any entry in a list.
//
// Fields:
//   - Names: Accepted names, compared case-sensitively
type ExactMatcher struct {
	Names []string
}

// Match tests if name equals one of the listed names.
//
// Parameters:
//   - name: Package name to test
//
// Returns:
//   - bool: true if name is listed
func (m *ExactMatcher) Match(name string) bool {
	return utils.Contains(m.Names, name)
}

// String returns the names joined by commas.
func (m *ExactMatcher) String() string {
	return strings.Join(m.Names, ",")
}

// GlobMatcher matches names using glob patterns.
//
// Supports:
//   - * matches any sequence of characters (except /)
//   - ? matches any single character (except /)
//
// Example:
//
//	matcher := &filtering.GlobMatcher{Pattern: "@types/*"}
//	matcher.Match("@types/node")   // returns true
//	matcher.Match("@babel/core")   // returns false
type GlobMatcher struct {
	Pattern string
}

// Match tests if name matches the glob pattern.
func (m *GlobMatcher) Match(name string) bool {
	return utils.MatchGlob(name, m.Pattern)
}

// String returns the glob pattern.
func (m *GlobMatcher) String() string {
	return m.Pattern
}

// RegexMatcher matches names using a regular expression.
//
// The expression is unanchored: "/lint/" matches "eslint" and "tslint-x".
//
// Fields:
//   - Pattern: The regex source without surrounding slashes
type RegexMatcher struct {
	Pattern string

	regex *regexp.Regexp
}

// Match tests if the expression matches anywhere in name.
func (m *RegexMatcher) Match(name string) bool {
	if m.regex == nil {
		return false
	}
	return m.regex.MatchString(name)
}

// String returns the pattern in /source/ form.
func (m *RegexMatcher) String() string {
	return "/" + m.Pattern + "/"
}

// NewRegexMatcher compiles a regular expression matcher.
//
// Parameters:
//   - pattern: Regex source without surrounding slashes
//
// Returns:
//   - Matcher: The compiled matcher
//   - error: When the expression does not compile
func NewRegexMatcher(pattern string) (Matcher, error) {
	re, err := utils.CompileRegex(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{Pattern: pattern, regex: re}, nil
}

// ParsePattern converts a user pattern into a Matcher.
//
// It performs the following operations:
//   - Step 1: A pattern starting and ending with "/" (and longer than one
//     character) becomes a RegexMatcher over the text between the slashes
//   - Step 2: A pattern containing * or ? becomes a GlobMatcher
//   - Step 3: Anything else is split on commas into an ExactMatcher
//
// Parameters:
//   - pattern: Raw --filter or --reject value
//
// Returns:
//   - Matcher: The matcher for pattern
//   - error: When a regular expression pattern does not compile
func ParsePattern(pattern string) (Matcher, error) {
	if len(pattern) > 1 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		m, err := NewRegexMatcher(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
		return m, nil
	}

	if utils.HasGlobMeta(pattern) {
		return &GlobMatcher{Pattern: pattern}, nil
	}

	return &ExactMatcher{Names: utils.TrimAndSplit(pattern, ",")}, nil
}

var (
	_ Matcher = (*ExactMatcher)(nil)
	_ Matcher = (*GlobMatcher)(nil)
	_ Matcher = (*RegexMatcher)(nil)
)
