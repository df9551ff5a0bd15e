// Package config loads .ncurc configuration files and merges them with
// built-in defaults and explicit command-line flags.
//
// Precedence is explicit flag, then config file, then default, decided field
// by field:
//
//	file, err := config.Load(configFlag, cwd)
//	merged := config.Merge(config.Defaults(), file, explicit)
//	if err := config.Validate(merged.Options); err != nil { ... }
package config

// Target policies accepted by the --target option.
const (
	TargetLatest = "latest"
	TargetMinor  = "minor"
	TargetPatch  = "patch"
	TargetSemver = "semver"
)

// ValidTargets lists the accepted target policies.
var ValidTargets = []string{TargetLatest, TargetMinor, TargetPatch, TargetSemver}

// Error levels accepted by the --errorLevel option.
const (
	// ErrorLevelNever always exits 0.
	ErrorLevelNever = 0
	// ErrorLevelNothingChecked exits 1 when no dependency was checked.
	ErrorLevelNothingChecked = 1
	// ErrorLevelUpdates exits 1 when any update was found.
	ErrorLevelUpdates = 2
)

// Options is the flat, fully-resolved option set for one run.
type Options struct {
	Upgrade     bool     `yaml:"upgrade"`
	Target      string   `yaml:"target"`
	Filter      string   `yaml:"filter"`
	Reject      string   `yaml:"reject"`
	Dep         []string `yaml:"dep"`
	CacheFile   string   `yaml:"cacheFile"`
	CacheTTL    int      `yaml:"cacheTtl"`
	Concurrency int      `yaml:"concurrency"`
	Registry    string   `yaml:"registry"`
	Pre         bool     `yaml:"pre"`
	Workspaces  bool     `yaml:"workspaces"`
	Workspace   string   `yaml:"workspace"`
	Root        bool     `yaml:"root"`
	Global      bool     `yaml:"global"`
	JSON        bool     `yaml:"json"`
	JSONAll     bool     `yaml:"jsonAll"`
	Timeout     int      `yaml:"timeout"`
	ErrorLevel  int      `yaml:"errorLevel"`
	PackageFile string   `yaml:"packageFile"`
}

// WorkspaceMode reports whether workspace targets should be resolved.
func (o Options) WorkspaceMode() bool {
	return o.Workspaces || o.Workspace != ""
}

// Overrides is a partial option set. A nil field was not provided by its
// source; a non-nil field wins over lower-precedence sources even when it
// holds the zero value.
//
// The same struct decodes .ncurc.json, .ncurc.yml and .ncurc.toml, and is
// filled from explicitly set command-line flags.
type Overrides struct {
	Upgrade     *bool       `json:"upgrade" yaml:"upgrade" toml:"upgrade"`
	Target      *string     `json:"target" yaml:"target" toml:"target"`
	Filter      *string     `json:"filter" yaml:"filter" toml:"filter"`
	Reject      *string     `json:"reject" yaml:"reject" toml:"reject"`
	Dep         *StringList `json:"dep" yaml:"dep" toml:"dep"`
	CacheFile   *string     `json:"cacheFile" yaml:"cacheFile" toml:"cacheFile"`
	CacheTTL    *int        `json:"cacheTtl" yaml:"cacheTtl" toml:"cacheTtl"`
	Concurrency *int        `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	Registry    *string     `json:"registry" yaml:"registry" toml:"registry"`
	Pre         *bool       `json:"pre" yaml:"pre" toml:"pre"`
	Workspaces  *bool       `json:"workspaces" yaml:"workspaces" toml:"workspaces"`
	Workspace   *string     `json:"workspace" yaml:"workspace" toml:"workspace"`
	Root        *bool       `json:"root" yaml:"root" toml:"root"`
	Global      *bool       `json:"global" yaml:"global" toml:"global"`
	JSON        *bool       `json:"json" yaml:"json" toml:"json"`
	JSONAll     *bool       `json:"jsonAll" yaml:"jsonAll" toml:"jsonAll"`
	Timeout     *int        `json:"timeout" yaml:"timeout" toml:"timeout"`
	ErrorLevel  *int        `json:"errorLevel" yaml:"errorLevel" toml:"errorLevel"`
	PackageFile *string     `json:"packageFile" yaml:"packageFile" toml:"packageFile"`
}

// Source names where a merged option value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceConfig  Source = "config"
	SourceFlag    Source = "flag"
)

// Merged is the result of merging defaults, a config file and explicit flags.
//
// Fields:
//   - Options: The winning value for every option
//   - Sources: Option key (e.g., "timeout") to the single source that supplied it
//   - ConfigPath: Config file that took part in the merge, empty if none
type Merged struct {
	Options    Options
	Sources    map[string]Source
	ConfigPath string
}

// Ptr returns a pointer to v. It is used to build Overrides literals.
func Ptr[T any](v T) *T {
	return &v
}
