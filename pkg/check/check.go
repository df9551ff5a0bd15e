// Package check defines the contract between the update orchestrator and an
// update-checking engine.
package check

import (
	"context"
	"time"

	"github.com/ajxudir/turboncu/pkg/manifest"
)

// DefaultRetries is the number of extra attempts the engine makes for a
// transient registry failure.
const DefaultRetries = 3

// UpdateType classifies how large a version jump is.
type UpdateType string

const (
	UpdateMajor      UpdateType = "major"
	UpdateMinor      UpdateType = "minor"
	UpdatePatch      UpdateType = "patch"
	UpdatePrerelease UpdateType = "prerelease"
)

// Update is a proposed replacement range for one dependency.
//
// Fields:
//   - Name: Package name
//   - Current: Range as declared in the manifest (e.g., "^4.17.0")
//   - CurrentVersion: Base version parsed from Current (e.g., "4.17.0")
//   - Latest: Version chosen by the target policy
//   - NewRange: Replacement range keeping the declared prefix (e.g., "^4.17.21")
//   - UpdateType: Size of the jump from CurrentVersion to Latest
//   - DepType: Manifest section the dependency is declared in
type Update struct {
	Name           string           `json:"name"`
	Current        string           `json:"current"`
	CurrentVersion string           `json:"currentVersion"`
	Latest         string           `json:"latest"`
	NewRange       string           `json:"newRange"`
	UpdateType     UpdateType       `json:"updateType"`
	DepType        manifest.DepType `json:"depType"`
}

// Options configures one engine call. Values are built per target from the
// merged run options and not modified by the engine.
type Options struct {
	Target            string
	Concurrency       int
	Timeout           time.Duration
	CacheFile         string
	CacheTTL          time.Duration
	Retries           int
	IncludePrerelease bool
	Registry          string
}

// Result is the outcome of one engine call.
//
// Fields:
//   - Updates: Dependencies with a newer version under the target policy
//   - TotalTimeMs: Wall time of the call
//   - FetchTimeMs: Time spent waiting on the registry
//   - CacheHits: Packages answered from the cache
//   - CacheMisses: Packages fetched from the registry
type Result struct {
	Updates     []Update
	TotalTimeMs int64
	FetchTimeMs int64
	CacheHits   int
	CacheMisses int
}

// Checker resolves the newest acceptable version for each dependency.
type Checker interface {
	// Check looks up every dependency once and returns the ones with updates.
	Check(ctx context.Context, deps []manifest.Dependency, opts Options) (*Result, error)

	// ClearCache removes any persisted registry metadata.
	ClearCache(cacheFile string) error
}
