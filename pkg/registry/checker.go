package registry

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ajxudir/turboncu/pkg/check"
	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/ajxudir/turboncu/pkg/verbose"
)

const defaultConcurrency = 24

// Checker is the registry-backed check.Checker.
//
// Fields:
//   - Source: Optional version source; a Client for opts.Registry is built when nil
type Checker struct {
	Source VersionSource
}

// VersionSource returns the published versions of a package.
type VersionSource interface {
	Versions(ctx context.Context, name string) ([]string, error)
}

// NewChecker creates a Checker that talks to the registry named in each
// call's options.
func NewChecker() *Checker {
	return &Checker{}
}

var _ check.Checker = (*Checker)(nil)

// Check resolves updates for deps under opts.
//
// It performs the following operations:
//   - Step 1: Load the cache and answer fresh entries from it
//   - Step 2: Fetch the remaining names concurrently, bounded by opts.Concurrency
//   - Step 3: Pick a version for each dependency under opts.Target
//   - Step 4: Prune and save the cache
//
// Names are looked up once even when declared in several sections. A package
// whose metadata cannot be fetched is skipped and logged.
//
// Parameters:
//   - ctx: Context for cancellation
//   - deps: Dependencies of one target
//   - opts: Engine options
//
// Returns:
//   - *check.Result: Updates in input order plus timing and cache counts
//   - error: ctx.Err() when cancelled
func (c *Checker) Check(ctx context.Context, deps []manifest.Dependency, opts check.Options) (*check.Result, error) {
	start := time.Now()
	result := &check.Result{Updates: []check.Update{}}

	cacheFile := opts.CacheFile
	if cacheFile == "" {
		cacheFile = DefaultCacheFile()
	}
	cache := LoadCache(cacheFile, opts.CacheTTL)

	known := make(map[string][]string)
	var pending []string
	seen := make(map[string]bool)
	for _, d := range deps {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		if versions, ok := cache.Get(d.Name); ok {
			known[d.Name] = versions
			result.CacheHits++
			continue
		}
		pending = append(pending, d.Name)
	}
	result.CacheMisses = len(pending)

	fetchStart := time.Now()
	if err := c.fetchAll(ctx, pending, opts, cache, known); err != nil {
		return nil, err
	}
	result.FetchTimeMs = time.Since(fetchStart).Milliseconds()

	policy := Policy{Target: opts.Target, IncludePrerelease: opts.IncludePrerelease}
	for _, d := range deps {
		versions, ok := known[d.Name]
		if !ok {
			continue
		}
		if u, ok := resolve(d, versions, policy); ok {
			result.Updates = append(result.Updates, u)
		}
	}

	cache.Prune()
	if err := cache.Save(); err != nil {
		verbose.Warnf("Could not save cache %s: %v", cacheFile, err)
	}

	result.TotalTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

func (c *Checker) fetchAll(ctx context.Context, names []string, opts check.Options, cache *Cache, known map[string][]string) error {
	if len(names) == 0 {
		return nil
	}

	source := c.Source
	if source == nil {
		source = NewClient(opts.Registry, opts.Timeout, opts.Retries)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(int64(limit))
	)

	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer sem.Release(1)

			versions, err := source.Versions(ctx, name)
			if err != nil {
				verbose.Warnf("Skipping %s: %v", name, err)
				return
			}
			cache.Set(name, versions)
			mu.Lock()
			known[name] = versions
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	return ctx.Err()
}

func resolve(d manifest.Dependency, versions []string, policy Policy) (check.Update, bool) {
	current, ok := ParseBaseVersion(d.VersionRange)
	if !ok {
		verbose.PackageFiltered(d.Name, "range has no base version: "+d.VersionRange)
		return check.Update{}, false
	}

	latest, ok := policy.Pick(current, d.VersionRange, versions)
	if !ok {
		return check.Update{}, false
	}

	return check.Update{
		Name:           d.Name,
		Current:        d.VersionRange,
		CurrentVersion: current,
		Latest:         latest,
		NewRange:       NewRange(d.VersionRange, latest),
		UpdateType:     Classify(current, latest),
		DepType:        d.DepType,
	}, true
}

// ClearCache deletes the cache file, DefaultCacheFile when cacheFile is empty.
func (c *Checker) ClearCache(cacheFile string) error {
	if cacheFile == "" {
		cacheFile = DefaultCacheFile()
	}
	return LoadCache(cacheFile, 0).Clear()
}
