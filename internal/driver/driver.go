// Package driver runs every registered case against its inputs and either
// verifies or rewrites the golden files.
package driver

import (
	"context"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AndreyAkinshin/dextest/internal/diff"
	"github.com/AndreyAkinshin/dextest/internal/errors"
	"github.com/AndreyAkinshin/dextest/internal/golden"
	"github.com/AndreyAkinshin/dextest/internal/output"
	"github.com/AndreyAkinshin/dextest/internal/registry"
	"github.com/AndreyAkinshin/dextest/internal/report"
	"github.com/AndreyAkinshin/dextest/internal/resolve"
	"github.com/AndreyAkinshin/dextest/internal/runner"
)

// Driver orchestrates a run over a registry.
type Driver struct {
	registry *registry.Registry
	runner   runner.Runner
	differ   diff.Differ
	out      *output.Writer
	opts     Options
	absRoot  string
}

// New validates opts and creates a Driver. The differ is only consulted in
// verify mode and may be nil for update runs.
func New(reg *registry.Registry, r runner.Runner, d diff.Differ, out *output.Writer, opts Options) (*Driver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !opts.Update && d == nil {
		return nil, errors.Config("verify mode needs a differ")
	}

	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Wrap(err, "cannot resolve test data root")
	}

	return &Driver{
		registry: reg,
		runner:   r,
		differ:   d,
		out:      out,
		opts:     opts,
		absRoot:  absRoot,
	}, nil
}

// Summary is the outcome of a completed run.
type Summary struct {
	report.Result
	ExitCode int
}

// job is one (case, input) execution.
type job struct {
	input  resolve.Input
	golden string
	argv   []string
}

// outcome is what executing a job produced.
type outcome struct {
	diff     string
	exitCode int
	err      error
}

// Run executes every case in name order and prints results as they are
// recorded. The returned error is non-nil only when the run could not be
// planned; per-test problems are counted as failures in the Summary.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	mode := report.Verify
	if d.opts.Update {
		mode = report.Update
	}
	rep := report.New(d.out, mode)

	jobs, err := d.plan()
	if err != nil {
		return Summary{}, err
	}

	rep.Begin(d.opts.Root)

	if d.opts.Jobs <= 1 {
		d.runSequential(ctx, rep, jobs)
	} else {
		d.runParallel(ctx, rep, jobs)
	}

	code := rep.Finalize()
	return Summary{Result: rep.Result(), ExitCode: code}, nil
}

// plan resolves the inputs of every case up front, so that a bad pattern
// stops the run before any tool process starts.
func (d *Driver) plan() ([]job, error) {
	var jobs []job
	for _, c := range d.registry.All() {
		inputs, err := resolve.Resolve(d.absRoot, c)
		if err != nil {
			return nil, err
		}

		args := runner.SplitCommand(c.Args)
		for _, in := range inputs {
			argv := slices.Concat(d.opts.Command, args, []string{in.Path})
			jobs = append(jobs, job{
				input:  in,
				golden: golden.Path(d.absRoot, in.Path, c.Name),
				argv:   argv,
			})
		}
	}
	return jobs, nil
}

func (d *Driver) runSequential(ctx context.Context, rep *report.Reporter, jobs []job) {
	for _, j := range jobs {
		d.record(rep, j, d.execute(ctx, j, nil))
	}
}

// runParallel executes up to opts.Jobs tool processes at once while
// recording outcomes in plan order, so the printed report is identical to
// a sequential run.
func (d *Driver) runParallel(ctx context.Context, rep *report.Reporter, jobs []job) {
	results := make([]chan outcome, len(jobs))
	for i := range results {
		results[i] = make(chan outcome, 1)
	}

	locks := &pathLocks{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(d.opts.Jobs, max(len(jobs), 1)))

	go func() {
		for i, j := range jobs {
			g.Go(func() error {
				results[i] <- d.execute(gctx, j, locks)
				return nil
			})
		}
		_ = g.Wait()
	}()

	for i, j := range jobs {
		d.record(rep, j, <-results[i])
	}
}

// execute runs the tool for j and applies the mode. It does not print, so
// it is safe to call from several goroutines.
func (d *Driver) execute(ctx context.Context, j job, locks *pathLocks) outcome {
	if locks != nil {
		unlock := locks.lock(j.golden)
		defer unlock()
	}

	res, err := d.runner.Run(ctx, j.argv, nil)
	if err != nil {
		return outcome{err: err}
	}

	o := outcome{exitCode: res.ExitCode}
	if d.opts.Update {
		if err := golden.Write(j.golden, res.Output); err != nil {
			o.err = errors.Wrap(err, "cannot update expected output")
		}
		return o
	}

	o.diff, o.err = d.differ.Diff(ctx, j.golden, res.Output)
	return o
}

func (d *Driver) record(rep *report.Reporter, j job, o outcome) {
	d.out.Debug("%s (exit %d)", runner.Line(j.argv), o.exitCode)

	switch {
	case o.err != nil:
		rep.Error(j.golden, errors.CaseError(j.input.Case.Name, filepath.Base(j.input.Path), o.err))
	case d.opts.Update:
		rep.Updated(j.golden)
	case o.diff != "":
		rep.Fail(j.golden, o.diff)
	default:
		rep.Pass(j.golden)
	}
}

// pathLocks serializes work on the same golden file. An input matched by
// two patterns of one case maps to a single golden path.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *pathLocks) lock(path string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[path]
	if !ok {
		m = &sync.Mutex{}
		l.locks[path] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
