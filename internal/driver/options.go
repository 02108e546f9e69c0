package driver

import (
	"os"
	"strconv"

	"github.com/AndreyAkinshin/dextest/internal/errors"
	"github.com/AndreyAkinshin/dextest/internal/output"
)

const (
	// DefaultJobs keeps runs strictly sequential unless asked otherwise.
	DefaultJobs = 1

	// MaxJobs caps parallelism. Each job is one tool process, so more
	// than this only adds scheduler and memory pressure.
	MaxJobs = 256

	// ParallelEnvVar provides the -j default.
	ParallelEnvVar = "DEXTEST_PARALLEL"
)

// Options configures one run.
type Options struct {
	Command []string // Tool invocation prefix, e.g. {"dexter"}
	Root    string   // Test data root holding inputs and expected/
	RootSet bool     // Root was given explicitly
	Update  bool     // Rewrite golden files instead of comparing
	Jobs    int      // Concurrent tool processes; <= 1 is sequential
}

// Validate checks the preconditions that must hold before any test runs.
func (o Options) Validate() error {
	if o.Update && !o.RootSet {
		return errors.Config("-update requires -root value")
	}
	if len(o.Command) == 0 {
		return errors.Config("-cmd must name the tool under test")
	}
	if o.Root == "" {
		return errors.Config("-root must not be empty")
	}
	if o.Jobs > MaxJobs {
		return errors.Configf("-j %d out of range [1-%d]", o.Jobs, MaxJobs)
	}
	return nil
}

// ParallelFromEnv returns the job count from DEXTEST_PARALLEL.
// Unset or invalid values (non-numeric, <1, >256) fall back to
// DefaultJobs; invalid ones also print a warning to w.
func ParallelFromEnv(w *output.Writer) int {
	env := os.Getenv(ParallelEnvVar)
	if env == "" {
		return DefaultJobs
	}

	n, err := strconv.Atoi(env)
	if err != nil {
		w.Warning("invalid %s value %q (not a number), using default", ParallelEnvVar, env)
		return DefaultJobs
	}

	if n < 1 || n > MaxJobs {
		w.Warning("%s=%d out of range [1-%d], using default", ParallelEnvVar, n, MaxJobs)
		return DefaultJobs
	}

	return n
}
