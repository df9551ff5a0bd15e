// Package global lists packages installed globally with npm.
package global

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ajxudir/turboncu/pkg/cmdexec"
	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/ajxudir/turboncu/pkg/verbose"
	"github.com/iancoleman/orderedmap"
)

// listTimeout bounds the npm ls call.
const listTimeout = 60 * time.Second

// Lister returns the dependencies to check in global mode.
type Lister interface {
	List(ctx context.Context) []manifest.Dependency
}

// NpmInventory lists global packages with "npm ls -g --depth=0 --json".
type NpmInventory struct {
	// Command overrides the npm executable, "npm" when empty.
	Command string
}

// List returns one prod dependency per global package with a caret range on
// its installed version, in the order npm reports them.
//
// Any failure (npm missing, non-zero exit, unparseable output) yields an empty
// list; the failure is only visible in verbose output.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - []manifest.Dependency: Installed packages as "^<version>" prod dependencies
func (n NpmInventory) List(ctx context.Context) []manifest.Dependency {
	command := n.Command
	if command == "" {
		command = "npm"
	}

	deps := make([]manifest.Dependency, 0)

	out, err := cmdexec.Execute(ctx, "", listTimeout, command, "ls", "-g", "--depth=0", "--json")
	if err != nil {
		verbose.Warnf("Listing global packages failed: %v", err)
		return deps
	}

	parsed := orderedmap.New()
	if err := json.Unmarshal(out, parsed); err != nil {
		verbose.Warnf("Unreadable npm ls output: %v", err)
		return deps
	}

	raw, ok := parsed.Get("dependencies")
	if !ok {
		return deps
	}
	installed, ok := raw.(orderedmap.OrderedMap)
	if !ok {
		return deps
	}

	for _, name := range installed.Keys() {
		version := versionOf(installed, name)
		if version == "" {
			continue
		}
		deps = append(deps, manifest.Dependency{
			Name:         name,
			VersionRange: "^" + version,
			DepType:      manifest.DepProd,
		})
	}
	return deps
}

func versionOf(installed orderedmap.OrderedMap, name string) string {
	raw, _ := installed.Get(name)
	info, ok := raw.(orderedmap.OrderedMap)
	if !ok {
		return ""
	}
	v, _ := info.Get("version")
	version, _ := v.(string)
	return version
}
