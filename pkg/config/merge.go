package config

import (
	"maps"
	"slices"

	"github.com/ajxudir/turboncu/pkg/verbose"
)

// Merge combines defaults, a config file and explicit flags into one option set.
//
// Each field is taken from the highest-precedence source that provides it:
// explicit flag, then config file, then default. Sources records the winner
// per option key. Nil file or explicit values are treated as empty.
//
// Parameters:
//   - defaults: Built-in values, usually Defaults()
//   - file: Loaded config file, may be nil
//   - explicit: Flags the user actually set, may be nil
//
// Returns:
//   - *Merged: Winning values, their sources and the config path
func Merge(defaults Options, file *File, explicit *Overrides) *Merged {
	fromFile := &Overrides{}
	merged := &Merged{Sources: make(map[string]Source)}
	if file != nil {
		merged.ConfigPath = file.Path
		if file.Overrides != nil {
			fromFile = file.Overrides
		}
	}
	if explicit == nil {
		explicit = &Overrides{}
	}

	src := merged.Sources
	o := &merged.Options
	o.Upgrade = pick(src, "upgrade", defaults.Upgrade, fromFile.Upgrade, explicit.Upgrade)
	o.Target = pick(src, "target", defaults.Target, fromFile.Target, explicit.Target)
	o.Filter = pick(src, "filter", defaults.Filter, fromFile.Filter, explicit.Filter)
	o.Reject = pick(src, "reject", defaults.Reject, fromFile.Reject, explicit.Reject)
	o.Dep = []string(pick(src, "dep", StringList(defaults.Dep), fromFile.Dep, explicit.Dep))
	o.CacheFile = pick(src, "cacheFile", defaults.CacheFile, fromFile.CacheFile, explicit.CacheFile)
	o.CacheTTL = pick(src, "cacheTtl", defaults.CacheTTL, fromFile.CacheTTL, explicit.CacheTTL)
	o.Concurrency = pick(src, "concurrency", defaults.Concurrency, fromFile.Concurrency, explicit.Concurrency)
	o.Registry = pick(src, "registry", defaults.Registry, fromFile.Registry, explicit.Registry)
	o.Pre = pick(src, "pre", defaults.Pre, fromFile.Pre, explicit.Pre)
	o.Workspaces = pick(src, "workspaces", defaults.Workspaces, fromFile.Workspaces, explicit.Workspaces)
	o.Workspace = pick(src, "workspace", defaults.Workspace, fromFile.Workspace, explicit.Workspace)
	o.Root = pick(src, "root", defaults.Root, fromFile.Root, explicit.Root)
	o.Global = pick(src, "global", defaults.Global, fromFile.Global, explicit.Global)
	o.JSON = pick(src, "json", defaults.JSON, fromFile.JSON, explicit.JSON)
	o.JSONAll = pick(src, "jsonAll", defaults.JSONAll, fromFile.JSONAll, explicit.JSONAll)
	o.Timeout = pick(src, "timeout", defaults.Timeout, fromFile.Timeout, explicit.Timeout)
	o.ErrorLevel = pick(src, "errorLevel", defaults.ErrorLevel, fromFile.ErrorLevel, explicit.ErrorLevel)
	o.PackageFile = pick(src, "packageFile", defaults.PackageFile, fromFile.PackageFile, explicit.PackageFile)

	for _, key := range slices.Sorted(maps.Keys(src)) {
		if source := src[key]; source != SourceDefault {
			verbose.Printf("Option %s set from %s", key, source)
		}
	}

	return merged
}

// pick returns the highest-precedence value for one option and records its source.
func pick[T any](sources map[string]Source, key string, def T, file, flag *T) T {
	switch {
	case flag != nil:
		sources[key] = SourceFlag
		return *flag
	case file != nil:
		sources[key] = SourceConfig
		return *file
	default:
		sources[key] = SourceDefault
		return def
	}
}
