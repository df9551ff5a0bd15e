// Package workspace discovers the member projects of an npm, yarn or pnpm
// workspace monorepo.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/ajxudir/turboncu/pkg/utils"
	"github.com/ajxudir/turboncu/pkg/verbose"
	"gopkg.in/yaml.v3"
)

// PnpmWorkspaceFile is the pnpm workspace declaration looked up when the root
// manifest declares no workspaces.
const PnpmWorkspaceFile = "pnpm-workspace.yaml"

// Info describes one discovered workspace member.
//
// Fields:
//   - Name: Declared package name, or the matched relative path when unnamed
//   - Dir: Absolute member directory
//   - ManifestPath: Absolute path of the member's package.json
type Info struct {
	Name         string
	Dir          string
	ManifestPath string
}

type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// Discover lists workspace members under rootDir.
//
// It performs the following operations:
//   - Step 1: Read patterns from the root manifest "workspaces" declaration
//   - Step 2: If none, read the "packages" list from pnpm-workspace.yaml
//   - Step 3: Expand each pattern relative to rootDir; patterns prefixed with
//     "!" remove matching members
//   - Step 4: Keep matches containing a package.json, named by the manifest
//     "name" or the relative match path
//   - Step 5: If name is set, keep only the member with that name
//
// Missing or unreadable pattern sources yield an empty result, not an error.
//
// Parameters:
//   - rootDir: Monorepo root directory
//   - name: Specific member to keep, empty for all
//
// Returns:
//   - []Info: Members in pattern order, each member once
//   - error: When a member manifest cannot be read or a pattern is malformed
func Discover(rootDir, name string) ([]Info, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	patterns := patternsFor(absRoot)
	if len(patterns) == 0 {
		verbose.Printf("No workspace patterns declared in %s", absRoot)
		return []Info{}, nil
	}

	var includes, excludes []string
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, strings.TrimPrefix(p, "!"))
			continue
		}
		includes = append(includes, p)
	}

	members := make([]Info, 0)
	seen := make(map[string]bool)

	for _, pattern := range includes {
		matches, err := utils.FindDirsByPattern(absRoot, pattern)
		if err != nil {
			return nil, fmt.Errorf("workspace pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] || excluded(match, excludes) {
				continue
			}
			seen[match] = true

			dir := filepath.Join(absRoot, filepath.FromSlash(match))
			manifestPath := filepath.Join(dir, manifest.FileName)
			if _, err := os.Stat(manifestPath); err != nil {
				verbose.Printf("Skipping %s: no %s", match, manifest.FileName)
				continue
			}

			m, err := manifest.Read(manifestPath)
			if err != nil {
				return nil, fmt.Errorf("workspace %s: %w", match, err)
			}

			memberName := m.Name()
			if memberName == "" {
				memberName = match
			}
			if name != "" && memberName != name {
				continue
			}

			members = append(members, Info{Name: memberName, Dir: dir, ManifestPath: manifestPath})
		}
	}

	return members, nil
}

// patternsFor returns the workspace patterns declared for rootDir.
func patternsFor(rootDir string) []string {
	if root, err := manifest.Read(filepath.Join(rootDir, manifest.FileName)); err == nil {
		if patterns := root.WorkspacePatterns(); len(patterns) > 0 {
			return patterns
		}
	} else {
		verbose.Printf("Root manifest unavailable: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(rootDir, PnpmWorkspaceFile))
	if err != nil {
		return nil
	}

	var ws pnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		verbose.Warnf("Ignoring %s: %v", PnpmWorkspaceFile, err)
		return nil
	}
	return ws.Packages
}

func excluded(match string, excludes []string) bool {
	for _, pattern := range excludes {
		pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "./"), "/")
		if utils.MatchGlob(match, pattern) {
			return true
		}
	}
	return false
}
