// Package target turns run options into the ordered list of manifests (or the
// synthetic global set) to check.
package target

import (
	"context"
	"path/filepath"

	"github.com/ajxudir/turboncu/pkg/global"
	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/ajxudir/turboncu/pkg/verbose"
	"github.com/ajxudir/turboncu/pkg/workspace"
)

// GlobalLabel labels the target built from globally installed packages.
const GlobalLabel = "global"

// RootLabel labels the workspace root target when its manifest has no name.
const RootLabel = "root"

// Target is one unit of work for the orchestrator.
//
// Fields:
//   - Label: Display name (member name, root package name, manifest path, or "global")
//   - ManifestPath: File to rewrite; empty for read-only targets
//   - Dependencies: Extracted dependencies in manifest order
type Target struct {
	Label        string
	ManifestPath string
	Dependencies []manifest.Dependency
}

// ReadOnly reports whether the target has no manifest to rewrite.
func (t Target) ReadOnly() bool {
	return t.ManifestPath == ""
}

// Options selects the resolution mode.
//
// Fields:
//   - Global: Check globally installed packages only
//   - Workspaces: Check all workspace members
//   - Workspace: Check the member with this name
//   - Root: Include the root project alongside workspace members
//   - PackageFile: Explicit manifest for single-project mode
//   - DepTypes: Sections to extract
type Options struct {
	Global      bool
	Workspaces  bool
	Workspace   string
	Root        bool
	PackageFile string
	DepTypes    []manifest.DepType
}

// Resolver resolves targets relative to a working directory.
//
// Fields:
//   - Dir: Working directory; "." when empty
//   - Inventory: Source of global packages; npm when nil
type Resolver struct {
	Dir       string
	Inventory global.Lister
}

// NewResolver creates a Resolver for dir backed by the npm global inventory.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir, Inventory: global.NpmInventory{}}
}

// Resolve builds the ordered target list.
//
// It performs the following operations:
//   - Step 1: Global mode returns one read-only target from the inventory
//   - Step 2: Workspace mode returns the root first (with Root, or when no
//     specific workspace was named) followed by discovered members; a root
//     manifest that cannot be read is omitted
//   - Step 3: Single mode reads PackageFile or package.json in Dir
//
// Parameters:
//   - ctx: Context for the global inventory call
//   - opts: Mode selection and dependency types
//
// Returns:
//   - []Target: Targets in processing order
//   - error: Missing or unreadable manifest in single mode, or a workspace
//     discovery failure
func (r *Resolver) Resolve(ctx context.Context, opts Options) ([]Target, error) {
	depTypes := opts.DepTypes
	if len(depTypes) == 0 {
		depTypes = manifest.AllDepTypes
	}

	dir := r.Dir
	if dir == "" {
		dir = "."
	}

	if opts.Global {
		return r.resolveGlobal(ctx), nil
	}

	if opts.Workspaces || opts.Workspace != "" {
		return r.resolveWorkspaces(dir, opts, depTypes)
	}

	return r.resolveSingle(dir, opts.PackageFile, depTypes)
}

func (r *Resolver) resolveGlobal(ctx context.Context) []Target {
	inventory := r.Inventory
	if inventory == nil {
		inventory = global.NpmInventory{}
	}
	deps := inventory.List(ctx)
	verbose.TargetResolved(GlobalLabel, "", len(deps))
	return []Target{{Label: GlobalLabel, Dependencies: deps}}
}

func (r *Resolver) resolveWorkspaces(dir string, opts Options, depTypes []manifest.DepType) ([]Target, error) {
	targets := make([]Target, 0)

	if opts.Root || !opts.Workspaces {
		path := filepath.Join(dir, manifest.FileName)
		if m, err := manifest.Read(path); err == nil {
			abs, _ := filepath.Abs(path)
			label := m.Name()
			if label == "" {
				label = RootLabel
			}
			deps := manifest.Extract(m, depTypes)
			verbose.TargetResolved(label, abs, len(deps))
			targets = append(targets, Target{Label: label, ManifestPath: abs, Dependencies: deps})
		} else {
			verbose.Printf("Omitting workspace root: %v", err)
		}
	}

	members, err := workspace.Discover(dir, opts.Workspace)
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		m, err := manifest.Read(member.ManifestPath)
		if err != nil {
			return nil, err
		}
		deps := manifest.Extract(m, depTypes)
		verbose.TargetResolved(member.Name, member.ManifestPath, len(deps))
		targets = append(targets, Target{Label: member.Name, ManifestPath: member.ManifestPath, Dependencies: deps})
	}

	return targets, nil
}

func (r *Resolver) resolveSingle(dir, packageFile string, depTypes []manifest.DepType) ([]Target, error) {
	path := packageFile
	if path == "" {
		found, err := manifest.Find(dir)
		if err != nil {
			return nil, err
		}
		path = found
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	m, err := manifest.Read(path)
	if err != nil {
		return nil, err
	}

	abs, _ := filepath.Abs(path)
	deps := manifest.Extract(m, depTypes)
	verbose.TargetResolved(abs, abs, len(deps))
	return []Target{{Label: abs, ManifestPath: abs, Dependencies: deps}}, nil
}
