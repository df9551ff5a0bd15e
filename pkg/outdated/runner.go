// Package outdated runs the update check over resolved targets and applies
// the results.
//
// Targets are processed one after another in the calling goroutine. When
// upgrading, each target's manifest is rewritten as soon as its check
// returns, so a failure on a later target leaves earlier rewrites in place.
package outdated

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ajxudir/turboncu/pkg/check"
	"github.com/ajxudir/turboncu/pkg/filtering"
	"github.com/ajxudir/turboncu/pkg/manifest"
	"github.com/ajxudir/turboncu/pkg/output"
	"github.com/ajxudir/turboncu/pkg/target"
	"github.com/ajxudir/turboncu/pkg/update"
	"github.com/ajxudir/turboncu/pkg/verbose"
)

// DefaultTickInterval is how often the reporter moves through the package
// list while a check is pending.
const DefaultTickInterval = 150 * time.Millisecond

// RewriteFunc writes updates into the manifest at path.
type RewriteFunc func(path string, updates []check.Update) error

// Options configures one Run.
//
// Fields:
//   - Upgrade: Rewrite manifests that have updates
//   - Filter: Include pattern, empty to keep every dependency
//   - Reject: Exclude pattern, empty to drop nothing
//   - Check: Engine options passed unchanged for every target
type Options struct {
	Upgrade bool
	Filter  string
	Reject  string
	Check   check.Options
}

// TargetResult is the outcome for one checked target.
//
// Fields:
//   - Target: The resolved target
//   - Checked: Dependencies sent to the checker after filtering
//   - Result: The checker's result
//   - Rewritten: Whether the manifest was rewritten
type TargetResult struct {
	Target    target.Target
	Checked   int
	Result    *check.Result
	Rewritten bool
}

// Aggregate holds the totals of one Run.
//
// Fields:
//   - TotalChecked: Dependencies checked across all targets
//   - TotalTimeMs: Engine time summed across targets
//   - CacheHits: Cache hits summed across targets
//   - CacheMisses: Cache misses summed across targets
//   - Updates: Every update in target order
//   - Targets: Per-target results; skipped targets are absent
type Aggregate struct {
	TotalChecked int
	TotalTimeMs  int64
	CacheHits    int
	CacheMisses  int
	Updates      []check.Update
	Targets      []TargetResult
}

// Runner drives the checker over targets.
//
// Fields:
//   - Checker: Update-checking engine
//   - Reporter: Progress display
//   - Rewrite: Manifest writer, update.Rewrite by default
//   - OnChecked: Called after each target's check, before any rewrite
//   - OnRewritten: Called after each successful rewrite
//   - TickInterval: Period of the progress ticker
type Runner struct {
	Checker      check.Checker
	Reporter     output.Reporter
	Rewrite      RewriteFunc
	OnChecked    func(TargetResult)
	OnRewritten  func(TargetResult)
	TickInterval time.Duration
}

// NewRunner creates a Runner using checker, a silent reporter and
// update.Rewrite.
func NewRunner(checker check.Checker) *Runner {
	return &Runner{
		Checker:      checker,
		Reporter:     output.NoopReporter{},
		Rewrite:      update.Rewrite,
		TickInterval: DefaultTickInterval,
	}
}

// Run checks every target in order.
//
// It performs the following operations:
//   - Step 1: Compile the filter patterns, failing before any check
//   - Step 2: For each target, filter its dependencies and skip it when none remain
//   - Step 3: Call the checker once and add the result to the totals
//   - Step 4: When upgrading, rewrite the target's manifest if it has updates
//     and is not read-only
//
// A checker or rewrite error stops the run; rewrites already done stay.
//
// Parameters:
//   - ctx: Context passed to the checker
//   - targets: Resolved targets
//   - opts: Run options
//
// Returns:
//   - *Aggregate: Totals for the run
//   - error: Invalid filter, checker failure or rewrite failure
func (r *Runner) Run(ctx context.Context, targets []target.Target, opts Options) (*Aggregate, error) {
	filters, err := filtering.Compile(opts.Filter, opts.Reject)
	if err != nil {
		return nil, err
	}

	agg := &Aggregate{Updates: []check.Update{}}
	multi := len(targets) > 1

	for _, t := range targets {
		deps := filters.Apply(t.Dependencies)
		if len(deps) == 0 {
			verbose.Printf("Skipping %s: no dependencies to check", t.Label)
			continue
		}
		agg.TotalChecked += len(deps)

		label := ""
		if multi {
			label = t.Label
		}
		res, err := r.checkTarget(ctx, label, deps, opts.Check)
		if err != nil {
			return agg, fmt.Errorf("check %s: %w", t.Label, err)
		}

		agg.TotalTimeMs += res.TotalTimeMs
		agg.CacheHits += res.CacheHits
		agg.CacheMisses += res.CacheMisses
		agg.Updates = append(agg.Updates, res.Updates...)

		tr := TargetResult{Target: t, Checked: len(deps), Result: res}
		if r.OnChecked != nil {
			r.OnChecked(tr)
		}

		if opts.Upgrade && !t.ReadOnly() && len(res.Updates) > 0 {
			if err := r.rewrite(t.ManifestPath, res.Updates); err != nil {
				agg.Targets = append(agg.Targets, tr)
				return agg, err
			}
			tr.Rewritten = true
			if r.OnRewritten != nil {
				r.OnRewritten(tr)
			}
		}
		agg.Targets = append(agg.Targets, tr)
	}

	return agg, nil
}

func (r *Runner) rewrite(path string, updates []check.Update) error {
	rewrite := r.Rewrite
	if rewrite == nil {
		rewrite = update.Rewrite
	}
	return rewrite(path, updates)
}

// checkTarget calls the checker while a ticker cycles the reporter through
// deps. The ticker is cosmetic and does not reflect which package is in flight.
func (r *Runner) checkTarget(ctx context.Context, label string, deps []manifest.Dependency, opts check.Options) (*check.Result, error) {
	reporter := r.Reporter
	if reporter == nil {
		reporter = output.NoopReporter{}
	}

	if label != "" {
		reporter.Start(fmt.Sprintf("Checking %d packages in %s...", len(deps), label))
	} else {
		reporter.Start(fmt.Sprintf("Checking %d packages...", len(deps)))
	}

	stop := r.startTicker(reporter, deps)
	res, err := r.Checker.Check(ctx, deps, opts)
	stop()

	if err != nil {
		reporter.Fail(fmt.Sprintf("Failed to check %d packages", len(deps)))
		return nil, err
	}
	if res == nil {
		res = &check.Result{}
	}
	reporter.Succeed(output.FormatCheckedTarget(len(deps), res.CacheMisses, res.CacheHits))
	return res, nil
}

func (r *Runner) startTicker(reporter output.Reporter, deps []manifest.Dependency) func() {
	interval := r.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		index := 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				index = (index + 1) % len(deps)
				reporter.Update(fmt.Sprintf("Checking [%d/%d] %s...", index+1, len(deps), deps[index].Name))
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}
