package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajxudir/turboncu/pkg/check"
	"github.com/ajxudir/turboncu/pkg/config"
	"github.com/ajxudir/turboncu/pkg/constants"
	"github.com/ajxudir/turboncu/pkg/errors"
	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/ajxudir/turboncu/pkg/outdated"
	"github.com/ajxudir/turboncu/pkg/output"
	"github.com/ajxudir/turboncu/pkg/target"
	"github.com/ajxudir/turboncu/pkg/utils"
	"github.com/ajxudir/turboncu/pkg/verbose"
)

// runCheck executes one turbo-ncu run.
//
// It performs the following operations:
//   - Step 1: Merge defaults, the config file and explicit flags
//   - Step 2: Resolve targets (global, workspaces or a single manifest)
//   - Step 3: Check each target in order, printing its table and rewriting
//     its manifest when upgrading
//   - Step 4: Print JSON or the summary, then apply the --errorLevel policy
//
// Parameters:
//   - cmd: The root command, used for flags and output streams
//   - f: Parsed flag values
//
// Returns:
//   - error: Fatal error, or a silent *errors.ExitError for a policy exit
func runCheck(cmd *cobra.Command, f *rootFlags) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	cwd, err := getwdFunc()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	merged, err := loadOptions(f.configFile, cwd, explicitOverrides(cmd.Flags(), f))
	if err != nil {
		return err
	}
	opts := merged.Options

	jsonOut := opts.JSON || opts.JSONAll
	if jsonOut {
		verbose.Info("JSON output: progress and tables disabled")
	}
	tty := output.IsTerminal(out)
	reporter := output.NewReporter(cmd.ErrOrStderr(), jsonOut || !tty)

	if !jsonOut && tty {
		_, _ = fmt.Fprintln(out, output.FormatHeader(Version))
		_, _ = fmt.Fprintln(out)
	}

	reporter.Start(constants.MessageResolving)
	targets, err := newResolverFunc(cwd).Resolve(ctx, target.Options{
		Global:      opts.Global,
		Workspaces:  opts.Workspaces,
		Workspace:   opts.Workspace,
		Root:        opts.Root,
		PackageFile: opts.PackageFile,
		DepTypes:    manifest.ParseDepTypes(opts.Dep),
	})
	if err != nil {
		reporter.Fail("Could not resolve packages")
		return err
	}
	total := 0
	for _, t := range targets {
		total += len(t.Dependencies)
	}
	reporter.Succeed(fmt.Sprintf("Found %d packages across %d %s",
		total, len(targets), utils.Plural(len(targets), "target", "targets")))

	runner := outdated.NewRunner(newCheckerFunc())
	runner.Reporter = reporter
	if !jsonOut {
		multi := len(targets) > 1
		runner.OnChecked = func(tr outdated.TargetResult) { printTargetUpdates(out, tr, multi) }
		runner.OnRewritten = func(tr outdated.TargetResult) { printRewritten(out, tr) }
	}

	agg, err := runner.Run(ctx, targets, outdated.Options{
		Upgrade: opts.Upgrade,
		Filter:  opts.Filter,
		Reject:  opts.Reject,
		Check:   checkOptions(opts),
	})
	if err != nil {
		return err
	}

	if err := printResults(out, opts, agg); err != nil {
		return err
	}
	return exitPolicy(opts.ErrorLevel, agg)
}

// checkOptions converts merged options into engine options.
func checkOptions(o config.Options) check.Options {
	return check.Options{
		Target:            o.Target,
		Concurrency:       o.Concurrency,
		Timeout:           time.Duration(o.Timeout) * time.Millisecond,
		CacheFile:         o.CacheFile,
		CacheTTL:          time.Duration(o.CacheTTL) * time.Second,
		Retries:           check.DefaultRetries,
		IncludePrerelease: o.Pre,
		Registry:          o.Registry,
	}
}

func printTargetUpdates(w io.Writer, tr outdated.TargetResult, multi bool) {
	if len(tr.Result.Updates) == 0 {
		return
	}
	if multi {
		_, _ = fmt.Fprintf(w, "\n%s\n", tr.Target.Label)
	}
	_, _ = fmt.Fprintln(w, output.FormatUpdates(tr.Result.Updates))
}

func printRewritten(w io.Writer, tr outdated.TargetResult) {
	pm := manifest.DetectPackageManager(filepath.Dir(tr.Target.ManifestPath))
	_, _ = fmt.Fprintf(w, "\nUpdated %s\n", tr.Target.ManifestPath)
	_, _ = fmt.Fprintln(w, output.FormatInstallHint(pm))
}

// printResults writes the JSON document or the closing summary.
func printResults(w io.Writer, o config.Options, agg *outdated.Aggregate) error {
	switch {
	case o.JSON:
		doc, err := output.FormatJSON(agg.Updates)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, doc)
	case o.JSONAll:
		doc, err := output.FormatJSONAll(agg.Updates)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, doc)
	default:
		if len(agg.Updates) == 0 && agg.TotalChecked > 0 {
			_, _ = fmt.Fprintln(w, output.FormatUpdates(nil))
		}
		_, _ = fmt.Fprintln(w, output.FormatSummary(agg.TotalChecked, len(agg.Updates), agg.TotalTimeMs, agg.CacheHits, agg.CacheMisses))
		if len(agg.Updates) > 0 && !o.Upgrade {
			_, _ = fmt.Fprintln(w, "\n"+constants.MessageUpgradeHint)
		}
	}
	return nil
}

// exitPolicy maps the run outcome to an exit code under --errorLevel.
//
// Returns:
//   - error: Silent *errors.ExitError with code 1 when the policy fails the
//     run, nil otherwise
func exitPolicy(level int, agg *outdated.Aggregate) error {
	switch {
	case level == config.ErrorLevelUpdates && len(agg.Updates) > 0:
		return errors.NewExitError(errors.ExitFailure, nil)
	case level == config.ErrorLevelNothingChecked && agg.TotalChecked == 0:
		return errors.NewExitError(errors.ExitFailure, nil)
	default:
		return nil
	}
}
