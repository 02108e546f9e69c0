// Package cli provides the command-line interface for dextest.
package cli

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/AndreyAkinshin/dextest/internal/diff"
	"github.com/AndreyAkinshin/dextest/internal/driver"
	"github.com/AndreyAkinshin/dextest/internal/errors"
	"github.com/AndreyAkinshin/dextest/internal/output"
	"github.com/AndreyAkinshin/dextest/internal/registry"
	"github.com/AndreyAkinshin/dextest/internal/runner"
)

// Version is set at build time.
var Version = "dev"

const (
	// DefaultCommand is the tool invocation used when -cmd is not given.
	DefaultCommand = "dexter"

	// DefaultRoot is the test data root used when -root is not given.
	DefaultRoot = "tools/dexter/testdata"
)

// app holds the collaborators of one invocation. Tests replace them.
type app struct {
	out      *output.Writer
	runner   runner.Runner
	differ   diff.Differ // nil selects diff.Auto(runner)
	registry *registry.Registry
}

// flags holds the parsed command line.
type flags struct {
	cmd     string
	root    string
	rootSet bool
	update  bool
	run     string
	jobs    int
	jobsSet bool
	verbose bool
	color   string
	list    bool
	version bool
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := output.New()
	reg, err := registry.Default()
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	a := &app{
		out:      out,
		runner:   runner.NewExec(),
		registry: reg,
	}
	return a.run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	f, err := parseFlags(args)
	if stderrors.Is(err, flag.ErrHelp) {
		printUsage(a.out)
		return errors.ExitSuccess
	}
	if err != nil {
		a.out.ErrorPrefix("%v", err)
		a.out.Errorln("Run 'dextest -h' for usage.")
		return errors.GetExitCode(err)
	}

	if f.version {
		a.out.Println("dextest %s", Version)
		return errors.ExitSuccess
	}

	if err := a.configure(f); err != nil {
		a.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	reg, err := a.selectCases(f.run)
	if err != nil {
		a.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	if f.list {
		printCases(a.out, reg)
		return errors.ExitSuccess
	}

	jobs := f.jobs
	if !f.jobsSet {
		jobs = driver.ParallelFromEnv(a.out)
	}

	opts := driver.Options{
		Command: runner.SplitCommand(f.cmd),
		Root:    f.root,
		RootSet: f.rootSet,
		Update:  f.update,
		Jobs:    jobs,
	}

	differ := a.differ
	if differ == nil && !f.update {
		differ = diff.Auto(a.runner)
	}

	drv, err := driver.New(reg, a.runner, differ, a.out, opts)
	if err != nil {
		a.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	a.out.Debug("running %d case(s) with %s", reg.Len(), runner.Line(opts.Command))

	sum, err := drv.Run(ctx)
	if err != nil {
		a.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if ctx.Err() != nil {
		a.out.Warning("interrupted, results are incomplete")
		return errors.ExitFailure
	}
	return sum.ExitCode
}

// parseFlags parses args into flags. Parse failures are usage errors;
// -h and -help surface as flag.ErrHelp.
func parseFlags(args []string) (*flags, error) {
	f := &flags{}

	fs := flag.NewFlagSet("dextest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&f.cmd, "cmd", DefaultCommand, "")
	fs.StringVar(&f.root, "root", DefaultRoot, "")
	fs.BoolVar(&f.update, "update", false, "")
	fs.StringVar(&f.run, "run", "", "")
	fs.IntVar(&f.jobs, "j", driver.DefaultJobs, "")
	fs.BoolVar(&f.verbose, "v", false, "")
	fs.StringVar(&f.color, "color", string(output.ColorAuto), "")
	fs.BoolVar(&f.list, "list", false, "")
	fs.BoolVar(&f.version, "version", false, "")

	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, errors.Usage(err.Error())
	}

	if fs.NArg() > 0 {
		return nil, errors.Usage(fmt.Sprintf("unexpected argument %q", fs.Arg(0)))
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "root":
			f.rootSet = true
		case "j":
			f.jobsSet = true
		}
	})

	if f.jobsSet && (f.jobs < 1 || f.jobs > driver.MaxJobs) {
		return nil, errors.Usage(fmt.Sprintf("-j %d out of range [1-%d]", f.jobs, driver.MaxJobs))
	}
	if strings.TrimSpace(f.cmd) == "" {
		return nil, errors.Usage("-cmd must not be empty")
	}

	return f, nil
}

// configure applies the output settings.
func (a *app) configure(f *flags) error {
	mode, ok := output.ParseColorMode(f.color)
	if !ok {
		return errors.Usage(fmt.Sprintf("invalid -color value %q (want auto, on, or off)", f.color))
	}
	a.out.ApplyColorMode(mode)
	a.out.SetVerbose(f.verbose)
	return nil
}

// selectCases narrows the registry to the cases whose names match pattern.
func (a *app) selectCases(pattern string) (*registry.Registry, error) {
	if pattern == "" {
		return a.registry, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Usage(fmt.Sprintf("invalid -run pattern: %v", err))
	}

	reg := a.registry.Filter(re)
	if reg.Len() == 0 {
		a.out.Warning("no cases match -run %q", pattern)
	}
	return reg, nil
}
