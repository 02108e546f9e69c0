// Package runner executes the tool under test and captures its output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	dexerrors "github.com/AndreyAkinshin/dextest/internal/errors"
)

// Result is the captured outcome of one process run.
type Result struct {
	// Output holds stdout and stderr interleaved in the order the
	// process wrote them. It is never trimmed or normalized.
	Output []byte

	// ExitCode is the process exit status. A non-zero value is not an
	// error: tool failures reach the comparison as output content.
	ExitCode int
}

// Runner runs a command line and returns its combined output.
type Runner interface {
	Run(ctx context.Context, argv []string, stdin []byte) (*Result, error)
}

// Exec runs commands as child processes without a shell.
type Exec struct {
	Dir string   // Working directory; empty means the current one
	Env []string // Environment; nil inherits the harness environment
}

// NewExec creates an Exec runner in the current directory.
func NewExec() *Exec {
	return &Exec{}
}

// Run starts argv[0] with the remaining arguments, feeds stdin if it is
// non-nil, and blocks until the process exits.
func (e *Exec) Run(ctx context.Context, argv []string, stdin []byte) (*Result, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, dexerrors.Config("empty command line")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.Dir
	cmd.Env = e.Env

	// A single writer for both streams makes os/exec share one pipe, so
	// the relative order of stdout and stderr writes is kept.
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	err := cmd.Run()
	if err == nil {
		return &Result{Output: combined.Bytes()}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, dexerrors.Wrap(ctxErr, "interrupted: "+Line(argv))
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Result{Output: combined.Bytes(), ExitCode: exitErr.ExitCode()}, nil
	}

	return nil, dexerrors.Exec(argv[0], err)
}

// SplitCommand splits a command prefix or argument string into separate
// argv tokens on whitespace.
func SplitCommand(s string) []string {
	return strings.Fields(s)
}

// Line renders argv for display.
func Line(argv []string) string {
	return strings.Join(argv, " ")
}
