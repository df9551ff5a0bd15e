// Package utils holds small string, pattern and path helpers shared across
// turbo-ncu packages.
package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// regexCache stores compiled regex patterns to avoid recompilation.
var regexCache sync.Map

// CompileRegex retrieves a compiled regex from cache or compiles and caches it.
//
// Parameters:
//   - pattern: The regex pattern string to compile
//
// Returns:
//   - *regexp.Regexp: The compiled regular expression
//   - error: Compilation error if pattern is invalid
func CompileRegex(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexCache.Load(pattern); ok {
		if re, typeOK := cached.(*regexp.Regexp); typeOK {
			return re, nil
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	regexCache.Store(pattern, re)
	return re, nil
}

// TrimAndSplit splits a string by separator and trims whitespace from each part.
//
// Empty parts are dropped, so "a,,b" and " a , b " both yield ["a", "b"].
//
// Parameters:
//   - s: The string to split and trim
//   - sep: The separator to split on
//
// Returns:
//   - []string: Trimmed non-empty parts; empty slice if s is blank
func TrimAndSplit(s string, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Contains checks if a string slice contains an item.
//
// Parameters:
//   - slice: The slice of strings to search
//   - item: The string to search for
//
// Returns:
//   - bool: true if item is found in slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// HasGlobMeta reports whether s contains glob wildcards (* or ?).
func HasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// MatchGlob checks if a path matches a glob pattern.
//
// Supported patterns:
//   - * matches any sequence of characters within a path segment
//   - ** matches zero or more path segments recursively
//   - ? matches a single character
//   - ! prefix negates the match
//
// Parameters:
//   - path: The path or name to match against
//   - pattern: The glob pattern (supports **, *, ?, and ! prefix)
//
// Returns:
//   - bool: true if path matches pattern (or doesn't match if negated)
func MatchGlob(path, pattern string) bool {
	negate := false
	if strings.HasPrefix(pattern, "!") {
		negate = true
		pattern = pattern[1:]
	}

	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	var matched bool

	if strings.Contains(pattern, "**") {
		re, err := CompileRegex(globToRegex(pattern))
		matched = err == nil && re.MatchString(path)
	} else {
		var err error
		matched, err = filepath.Match(pattern, path)
		if err != nil {
			re, reErr := CompileRegex(globToRegex(pattern))
			matched = reErr == nil && re.MatchString(path)
		}
	}

	if negate {
		return !matched
	}
	return matched
}

// globToRegex converts a glob pattern to a regular expression pattern.
//
// It performs the following conversions:
//   - **/ becomes (?:.*/)?  (optional path segments)
//   - ** becomes .*         (any characters including /)
//   - * becomes [^/]*       (any characters except /)
//   - ? becomes [^/]        (single character)
//   - Other characters are escaped with regexp.QuoteMeta
func globToRegex(pattern string) string {
	pattern = filepath.ToSlash(pattern)
	var builder strings.Builder
	builder.WriteString("^")

	for i := 0; i < len(pattern); {
		if strings.HasPrefix(pattern[i:], "**/") {
			builder.WriteString("(?:.*/)?")
			i += 3
			continue
		}
		if strings.HasPrefix(pattern[i:], "**") {
			builder.WriteString(".*")
			i += 2
			continue
		}
		switch pattern[i] {
		case '*':
			builder.WriteString("[^/]*")
		case '?':
			builder.WriteString("[^/]")
		default:
			builder.WriteString(regexp.QuoteMeta(string(pattern[i])))
		}
		i++
	}

	builder.WriteString("$")
	return builder.String()
}

// skipDirs are never descended into when walking for matches.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
}

// FindDirsByPattern finds directories under baseDir whose relative path matches
// a glob pattern.
//
// Patterns without ** are expanded with filepath.Glob. Patterns with ** walk
// the tree, skipping node_modules and .git. Only directories are returned.
//
// Parameters:
//   - baseDir: The base directory to search from
//   - pattern: Slash-separated glob relative to baseDir (e.g., "packages/*", "apps/**")
//
// Returns:
//   - []string: Matching relative paths using forward slashes, sorted
//   - error: Malformed pattern or walk failure
func FindDirsByPattern(baseDir, pattern string) ([]string, error) {
	pattern = strings.TrimSuffix(strings.TrimPrefix(filepath.ToSlash(pattern), "./"), "/")
	if pattern == "" {
		return nil, nil
	}

	var matches []string

	if !strings.Contains(pattern, "**") {
		found, err := filepath.Glob(filepath.Join(baseDir, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, err
		}
		for _, path := range found {
			if !isDir(path) {
				continue
			}
			rel, relErr := filepath.Rel(baseDir, path)
			if relErr != nil {
				continue
			}
			matches = append(matches, filepath.ToSlash(rel))
		}
		sort.Strings(matches)
		return matches, nil
	}

	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || !d.IsDir() {
			return nil
		}
		if path == baseDir {
			return nil
		}
		if _, skip := skipDirs[d.Name()]; skip {
			return filepath.SkipDir
		}
		rel, relErr := filepath.Rel(baseDir, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if MatchGlob(rel, pattern) {
			matches = append(matches, rel)
		}
		return nil
	})

	sort.Strings(matches)
	return matches, err
}

// statFunc is swapped in tests that need to simulate filesystem errors.
var statFunc = os.Stat

func isDir(path string) bool {
	info, err := statFunc(path)
	return err == nil && info.IsDir()
}
