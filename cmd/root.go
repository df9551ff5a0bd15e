// Package cmd implements the turbo-ncu command-line interface.
//
// The root command checks the dependencies of a project, a workspace
// monorepo or the global npm install for newer versions, and with --upgrade
// rewrites the manifests.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajxudir/turboncu/pkg/check"
	"github.com/ajxudir/turboncu/pkg/config"
	"github.com/ajxudir/turboncu/pkg/errors"
	"github.com/ajxudir/turboncu/pkg/registry"
	"github.com/ajxudir/turboncu/pkg/target"
	"github.com/ajxudir/turboncu/pkg/verbose"
)

var exitFunc = os.Exit

// newCheckerFunc creates the update-checking engine. Tests replace it with a fake.
var newCheckerFunc = func() check.Checker { return registry.NewChecker() }

// newResolverFunc creates the target resolver for a working directory.
var newResolverFunc = func(dir string) *target.Resolver { return target.NewResolver(dir) }

var getwdFunc = os.Getwd

// rootFlags holds the raw values of the root command's flags. Only flags the
// user set are turned into config overrides.
type rootFlags struct {
	upgrade     bool
	target      string
	filter      string
	reject      string
	dep         []string
	cacheFile   string
	cacheTTL    int
	concurrency int
	registry    string
	pre         bool
	workspaces  bool
	workspace   string
	root        bool
	global      bool
	json        bool
	jsonAll     bool
	configFile  string
	timeout     int
	errorLevel  int
	packageFile string
	verbose     bool
	version     bool
}

var rootCmd = newRootCmd()

// newRootCmd builds the root command with its subcommands and a fresh flag set.
func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "turbo-ncu",
		Short: "Check package.json dependencies for newer versions",
		Long: `Check the dependencies of a package.json, a workspace monorepo or the global
npm install against the registry, and optionally upgrade the declared ranges.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f.verbose {
				verbose.SetWriter(cmd.ErrOrStderr())
				verbose.Enable()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.version {
				runVersion(cmd, args)
				return nil
			}
			return runCheck(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.BoolVarP(&f.upgrade, "upgrade", "u", defaults.Upgrade, "Overwrite package files with upgraded versions")
	fs.StringVarP(&f.target, "target", "t", defaults.Target, "Target version policy: latest, minor, patch, semver")
	fs.StringVar(&f.filter, "filter", defaults.Filter, "Include only package names matching a list, glob or /regex/")
	fs.StringVar(&f.reject, "reject", defaults.Reject, "Exclude package names matching a list, glob or /regex/")
	fs.StringSliceVar(&f.dep, "dep", defaults.Dep, "Dependency types to check: prod, dev, peer, optional")
	fs.StringVar(&f.cacheFile, "cacheFile", defaults.CacheFile, "Registry cache file (default ~/"+registry.DefaultCacheFileName+")")
	fs.IntVar(&f.cacheTTL, "cacheTtl", defaults.CacheTTL, "Cache time to live in seconds")
	fs.IntVar(&f.concurrency, "concurrency", defaults.Concurrency, "Maximum concurrent registry requests")
	fs.StringVar(&f.registry, "registry", defaults.Registry, "npm registry URL")
	fs.BoolVar(&f.pre, "pre", defaults.Pre, "Include prerelease versions")
	fs.BoolVarP(&f.workspaces, "workspaces", "w", defaults.Workspaces, "Check all workspace packages")
	fs.StringVar(&f.workspace, "workspace", defaults.Workspace, "Check only the named workspace package")
	fs.BoolVar(&f.root, "root", defaults.Root, "Include the root project in workspace mode")
	fs.BoolVarP(&f.global, "global", "g", defaults.Global, "Check globally installed packages")
	fs.BoolVar(&f.json, "json", defaults.JSON, "Output upgraded ranges as a JSON object")
	fs.BoolVar(&f.jsonAll, "jsonAll", defaults.JSONAll, "Output every update record as JSON")
	fs.StringVar(&f.configFile, "configFile", "", "Config file path (default: .ncurc.{json,yml,yaml,toml} in the working directory)")
	fs.IntVar(&f.timeout, "timeout", defaults.Timeout, "Registry request timeout in milliseconds")
	fs.IntVar(&f.errorLevel, "errorLevel", defaults.ErrorLevel, "Exit code policy: 0 always succeed, 1 fail if nothing checked, 2 fail if updates found")
	fs.StringVarP(&f.packageFile, "packageFile", "p", defaults.PackageFile, "Package file to check (default: ./package.json)")
	fs.BoolVarP(&f.version, "version", "v", false, "Show version information")
	cmd.PersistentFlags().BoolVar(&f.verbose, "verbose", false, "Enable verbose debug output on stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCacheCmd())
	return cmd
}

// explicitOverrides turns the flags the user actually set into overrides.
// Flags left at their default never shadow config file values.
func explicitOverrides(fs *pflag.FlagSet, f *rootFlags) *config.Overrides {
	o := &config.Overrides{}
	set := func(name string) bool { return fs.Changed(name) }

	if set("upgrade") {
		o.Upgrade = config.Ptr(f.upgrade)
	}
	if set("target") {
		o.Target = config.Ptr(f.target)
	}
	if set("filter") {
		o.Filter = config.Ptr(f.filter)
	}
	if set("reject") {
		o.Reject = config.Ptr(f.reject)
	}
	if set("dep") {
		o.Dep = config.Ptr(config.StringList(f.dep))
	}
	if set("cacheFile") {
		o.CacheFile = config.Ptr(f.cacheFile)
	}
	if set("cacheTtl") {
		o.CacheTTL = config.Ptr(f.cacheTTL)
	}
	if set("concurrency") {
		o.Concurrency = config.Ptr(f.concurrency)
	}
	if set("registry") {
		o.Registry = config.Ptr(f.registry)
	}
	if set("pre") {
		o.Pre = config.Ptr(f.pre)
	}
	if set("workspaces") {
		o.Workspaces = config.Ptr(f.workspaces)
	}
	if set("workspace") {
		o.Workspace = config.Ptr(f.workspace)
	}
	if set("root") {
		o.Root = config.Ptr(f.root)
	}
	if set("global") {
		o.Global = config.Ptr(f.global)
	}
	if set("json") {
		o.JSON = config.Ptr(f.json)
	}
	if set("jsonAll") {
		o.JSONAll = config.Ptr(f.jsonAll)
	}
	if set("timeout") {
		o.Timeout = config.Ptr(f.timeout)
	}
	if set("errorLevel") {
		o.ErrorLevel = config.Ptr(f.errorLevel)
	}
	if set("packageFile") {
		o.PackageFile = config.Ptr(f.packageFile)
	}
	return o
}

// loadOptions loads the config file and merges it with defaults and the
// explicit overrides, then validates the result.
func loadOptions(configFile, dir string, explicit *config.Overrides) (*config.Merged, error) {
	file, err := config.Load(configFile, dir)
	if err != nil {
		return nil, err
	}
	merged := config.Merge(config.Defaults(), file, explicit)
	if err := config.Validate(merged.Options); err != nil {
		return nil, err
	}
	return merged, nil
}

// Execute runs the root command and exits with its code:
//   - 0: Success, or updates found with --errorLevel 0 or 1
//   - 1: Fatal error, or the --errorLevel policy was violated
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(handleError(rootCmd.ErrOrStderr(), err))
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
func ExecuteTest() error {
	return rootCmd.Execute()
}

// handleError prints err unless it is a silent policy exit and returns the
// process exit code.
func handleError(w io.Writer, err error) int {
	code := errors.GetExitCode(err)
	if exitErr, ok := errors.IsExitError(err); ok && exitErr.Silent() {
		verbose.Infof("Exit code %d: errorLevel policy", code)
		return code
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	verbose.Infof("Exit code %d: %v", code, err)
	return code
}
