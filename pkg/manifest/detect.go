package manifest

import (
	"os"
	"path/filepath"
)

// lockfileManagers maps lock files to the package manager that writes them,
// checked in order.
var lockfileManagers = []struct {
	file    string
	manager string
}{
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
}

// DetectPackageManager guesses which package manager owns dir from its lock file.
//
// Parameters:
//   - dir: Project directory
//
// Returns:
//   - string: "bun", "pnpm", "yarn", or "npm" when no known lock file exists
func DetectPackageManager(dir string) string {
	for _, lf := range lockfileManagers {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.manager
		}
	}
	return "npm"
}
