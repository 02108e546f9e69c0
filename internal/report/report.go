// Package report prints per-test outcomes and the run summary, and owns
// the run counters.
package report

import (
	"path/filepath"

	"github.com/AndreyAkinshin/dextest/internal/errors"
	"github.com/AndreyAkinshin/dextest/internal/output"
)

// Mode selects between comparing against and rewriting golden files.
type Mode int

const (
	Verify Mode = iota
	Update
)

func (m Mode) String() string {
	if m == Update {
		return "update"
	}
	return "verify"
}

// Result holds the counters of one run.
type Result struct {
	Mode     Mode
	Total    int // Resolved inputs actually executed
	Failures int // Mismatches and per-test errors
	Updated  int // Golden files rewritten in update mode
}

// Reporter records outcomes and prints them as they happen.
// It is not safe for concurrent use; callers report from one goroutine.
type Reporter struct {
	out    *output.Writer
	result Result
}

// New creates a Reporter for a run in the given mode.
func New(out *output.Writer, mode Mode) *Reporter {
	return &Reporter{
		out:    out,
		result: Result{Mode: mode},
	}
}

// Begin prints the run header. Only update runs announce themselves.
func (r *Reporter) Begin(root string) {
	if r.result.Mode == Update {
		r.out.Println("")
		r.out.Println("Updating expected output (test data root: %s)", root)
	}
}

// Pass records a golden file that matched the captured output.
func (r *Reporter) Pass(goldenPath string) {
	r.result.Total++
	r.out.Success("ok: output matching (%s)", filepath.Base(goldenPath))
}

// Fail records a mismatch and prints the diff text verbatim.
func (r *Reporter) Fail(goldenPath, diffText string) {
	r.result.Total++
	r.result.Failures++
	r.out.Println("")
	r.out.Failure("FAILED: expected output mismatch (%s)", filepath.Base(goldenPath))
	_, _ = r.out.Write([]byte(diffText))
	r.out.Println("")
}

// Error records a test that could not be executed or recorded.
func (r *Reporter) Error(goldenPath string, err error) {
	r.result.Total++
	r.result.Failures++
	r.out.Println("")
	r.out.Failure("FAILED: %v (%s)", err, filepath.Base(goldenPath))
}

// Updated records a rewritten golden file.
func (r *Reporter) Updated(goldenPath string) {
	r.result.Total++
	r.result.Updated++
	r.out.Debug("updated %s", goldenPath)
}

// Result returns a snapshot of the counters.
func (r *Reporter) Result() Result {
	return r.result
}

// Finalize prints the summary and returns the process exit code.
func (r *Reporter) Finalize() int {
	res := r.result
	failed := res.Failures > 0

	if res.Mode == Update {
		if failed {
			r.out.Summary(true, "SUMMARY: updated expected output for %d tests, %d failure(s)", res.Updated, res.Failures)
		} else {
			r.out.Summary(false, "SUMMARY: updated expected output for %d tests", res.Updated)
		}
	} else {
		r.out.Summary(failed, "SUMMARY: %d failure(s), %d test cases", res.Failures, res.Total)
	}

	if failed {
		return errors.ExitFailure
	}
	return errors.ExitSuccess
}
