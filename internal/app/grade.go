package app

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os/signal"
	"strings"
	"syscall"

	"github.com/agbru/fibgrade/internal/annotation"
	"github.com/agbru/fibgrade/internal/cli"
	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/fib"
	"github.com/agbru/fibgrade/internal/logging"
	"github.com/agbru/fibgrade/internal/metrics"
	"github.com/agbru/fibgrade/internal/orchestration"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/student"
	"github.com/agbru/fibgrade/internal/trace"
	"github.com/agbru/fibgrade/internal/tui"
	"github.com/agbru/fibgrade/internal/ui"
)

const (
	// demoValueIndex is the index whose captured buffer and cache the
	// bundled value annotations assert on.
	demoValueIndex = 10

	// naiveProfileCap bounds the naive calculator during profiling. The
	// exponential growth is unmistakable well before this point, and
	// larger indices would dominate the whole run.
	naiveProfileCap = 22
)

// runDashboard launches the TUI dashboard. Variable so tests can stub
// out the interactive program.
var runDashboard = tui.Run

// runDemo traces the bundled calculators, checks the footprint against
// the bundled references, and prints the grading report.
func (a *Application) runDemo(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if !a.Config.Quiet {
		if err := a.printSequence(ctx, out); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error computing sequence: %v\n", err)
			return apperrors.ExitCodeForError(err)
		}
	}

	return a.runGrading(ctx, out, nil)
}

// runCheck grades a submission. A footprint cached from an earlier run
// is replayed when present; otherwise the submission is traced afresh.
func (a *Application) runCheck(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var impl *student.Implementation
	if a.Config.CacheDir != "" {
		cached, ok, err := student.LoadFromCache(a.Config.CacheDir, a.Config.Student)
		if err != nil {
			a.logger.Debug("footprint cache unreadable", logging.Err(err))
		} else if ok {
			a.logger.Info("replaying cached footprint", logging.String("submission", a.Config.Student))
			impl = cached
		}
	}

	return a.runGrading(ctx, out, impl)
}

// runGrading is the shared grading pipeline: resolve calculators and
// references, trace the submission unless a footprint was supplied, run
// the checks concurrently, and analyze the results into an exit code.
func (a *Application) runGrading(ctx context.Context, out io.Writer, impl *student.Implementation) int {
	keys := a.profiledKeys()
	if err := a.validateKeys(keys); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeForError(err)
	}

	refs, err := a.loadReferences(keys)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error loading references: %v\n", err)
		return apperrors.ExitCodeForError(err)
	}

	selected := orchestration.SelectReferences(a.Config.Refs, refs)
	if len(selected) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no reference matches %q\n", a.Config.Refs)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintCheckPlan(selected, out)
	}

	if impl == nil {
		impl, err = a.traceSubmission(ctx, keys)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error tracing submission: %v\n", err)
			return apperrors.ExitCodeForError(err)
		}
		if a.Config.CacheDir != "" {
			if err := impl.SaveToCache(a.Config.CacheDir); err != nil {
				a.logger.Debug("footprint cache not written", logging.Err(err))
			}
		}
	}

	tasks := orchestration.BuildTasks(impl, selected)

	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	results := orchestration.ExecuteChecks(ctx, tasks, progressReporter, progressOut)
	exitCode := orchestration.AnalyzeCheckResults(results, a.Config.Filter(), cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)

	if a.Config.OutputFile != "" {
		if err := cli.WriteReportToFile(a.Config.OutputFile, impl.Name(), results); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			cli.DisplaySavedReport(a.Config.OutputFile, out)
		}
	}

	if a.Config.Verbose {
		cli.DisplayMemoryStats(metrics.NewMemoryCollector().Snapshot(), out)
	}

	return exitCode
}

// prepareTasks resolves references and traces the submission, producing
// the task list the TUI consumes. Errors go to ErrWriter.
func (a *Application) prepareTasks(ctx context.Context, _ io.Writer) ([]orchestration.CheckTask, int) {
	keys := a.profiledKeys()
	if err := a.validateKeys(keys); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return nil, apperrors.ExitCodeForError(err)
	}

	refs, err := a.loadReferences(keys)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error loading references: %v\n", err)
		return nil, apperrors.ExitCodeForError(err)
	}

	selected := orchestration.SelectReferences(a.Config.Refs, refs)
	if len(selected) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no reference matches %q\n", a.Config.Refs)
		return nil, apperrors.ExitErrorConfig
	}

	impl, err := a.traceSubmission(ctx, keys)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error tracing submission: %v\n", err)
		return nil, apperrors.ExitCodeForError(err)
	}

	return orchestration.BuildTasks(impl, selected), apperrors.ExitSuccess
}

// profiledKeys returns the calculator keys selected by the algo flag.
func (a *Application) profiledKeys() []string {
	if a.Config.Algo == "all" {
		return a.Factory.List()
	}
	return []string{a.Config.Algo}
}

// validateKeys rejects calculator keys absent from the registry.
func (a *Application) validateKeys(keys []string) error {
	for _, key := range keys {
		if _, ok := a.Factory.Get(key); !ok {
			return apperrors.NewConfigError("unknown calculator %q (available: %s)",
				key, strings.Join(a.Factory.List(), ", "))
		}
	}
	return nil
}

// loadReferences returns the references to grade against: the contents
// of the refs file when one is configured, the bundled Fibonacci
// references otherwise.
func (a *Application) loadReferences(keys []string) ([]*reference.ReferenceImplementation, error) {
	if a.Config.RefsFile != "" {
		return reference.Load(a.Config.RefsFile)
	}
	return buildReferences(keys, a.Config.ProfileMax)
}

// traceSubmission runs every selected calculator over the profiled index
// range under a single collector, producing the submission footprint.
// Each bracket gets a cold calculator so the sample measures a full
// computation at that index rather than an incremental cache fill.
func (a *Application) traceSubmission(ctx context.Context, keys []string) (*student.Implementation, error) {
	return student.Record(a.Config.Student, func(c *trace.Collector) error {
		for _, key := range keys {
			limit := a.Config.ProfileMax
			if key == "naive" && limit > naiveProfileCap {
				limit = naiveProfileCap
			}
			for n := 0; n <= limit; n++ {
				calc := a.profileCalculator(key)
				if _, err := c.Bracket(key, n, func(obs fib.Observer) error {
					_, err := calc.Calculate(ctx, n, obs)
					return err
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// profileCalculator returns the calculator traced for one sample. Cold
// strips accumulated memo state so consecutive brackets stay independent.
func (a *Application) profileCalculator(key string) fib.Calculator {
	calc, _ := a.Factory.Get(key)
	return fib.Cold(calc)
}

// printSequence displays the first N terms from each selected calculator.
func (a *Application) printSequence(ctx context.Context, out io.Writer) error {
	limit := a.Config.N
	if limit == 0 {
		return nil
	}
	fmt.Fprintf(out, "--- Fibonacci Sequence (first %d terms) ---\n", limit)
	for _, key := range a.profiledKeys() {
		calc, ok := a.Factory.Get(key)
		if !ok {
			continue
		}
		terms := limit
		if key == "naive" && terms > naiveProfileCap {
			terms = naiveProfileCap
		}
		values := make([]string, 0, terms)
		for n := 0; n < terms; n++ {
			v, err := calc.Calculate(ctx, n, fib.NopObserver{})
			if err != nil {
				return err
			}
			values = append(values, v.String())
		}
		fmt.Fprintf(out, "%s%-20s%s %s\n", ui.ColorCyan(), calc.Name()+":", ui.ColorReset(), strings.Join(values, " "))
	}
	fmt.Fprintln(out)
	return nil
}

// buildReferences constructs the bundled reference implementations for
// the selected calculators: a complexity assertion per calculator plus,
// for the deterministic buffer and cache shapes, a value assertion on
// the state captured at demoValueIndex.
func buildReferences(keys []string, profileMax int) ([]*reference.ReferenceImplementation, error) {
	refs := make([]*reference.ReferenceImplementation, 0, len(keys))
	for _, key := range keys {
		ref, err := bundledReference(key, profileMax)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// bundledReference builds the reference a single calculator is graded
// against.
func bundledReference(key string, profileMax int) (*reference.ReferenceImplementation, error) {
	idx := demoValueIndex
	if profileMax < idx {
		idx = profileMax
	}

	switch key {
	case "iter":
		linear, err := annotation.NewTimeComplexity("iter-linear", "iter", "linear")
		if err != nil {
			return nil, err
		}
		anns := []annotation.Annotation{linear}
		if idx >= 2 {
			anns = append(anns, annotation.NewValue(
				fmt.Sprintf("iter-buffer-%d", idx), demoSequence(idx)))
		}
		return reference.New("fib-iterative", anns...)

	case "memo":
		linear, err := annotation.NewTimeComplexity("memo-linear", "memo", "linear")
		if err != nil {
			return nil, err
		}
		anns := []annotation.Annotation{linear}
		if idx >= 2 {
			anns = append(anns, annotation.NewValue(
				fmt.Sprintf("memo-cache-%d", idx), demoCache(idx)))
		}
		return reference.New("fib-memoized", anns...)

	case "naive":
		exponential, err := annotation.NewTimeComplexity("naive-exponential", "naive", "exponential")
		if err != nil {
			return nil, err
		}
		return reference.New("fib-naive", exponential)

	default:
		return nil, apperrors.NewConfigError("no bundled reference for calculator %q", key)
	}
}

// demoSequence returns the completed fill buffer [F(0)..F(n)], the value
// the iterative calculator captures after computing F(n).
func demoSequence(n int) []*big.Int {
	seq := make([]*big.Int, n+1)
	seq[0] = big.NewInt(0)
	if n > 0 {
		seq[1] = big.NewInt(1)
	}
	for k := 2; k <= n; k++ {
		seq[k] = new(big.Int).Add(seq[k-1], seq[k-2])
	}
	return seq
}

// demoCache returns the memo table after a cold computation of F(n):
// every index from 2 to n, base cases excluded.
func demoCache(n int) map[int]*big.Int {
	seq := demoSequence(n)
	cache := make(map[int]*big.Int, n-1)
	for k := 2; k <= n; k++ {
		cache[k] = seq[k]
	}
	return cache
}
