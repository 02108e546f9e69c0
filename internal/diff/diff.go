// Package diff compares captured tool output with golden files.
//
// Equality is always byte-exact. The differ only decides what text is shown
// to the user when the bytes differ.
package diff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/dextest/internal/golden"
	"github.com/AndreyAkinshin/dextest/internal/runner"
)

// Differ compares actual against the golden file at goldenPath.
// It returns an empty string when they are byte-identical, and otherwise a
// non-empty description of the difference. A missing golden file is a
// difference, not an error.
type Differ interface {
	Diff(ctx context.Context, goldenPath string, actual []byte) (string, error)
}

// System runs an external diff program, piping actual on its stdin.
type System struct {
	Runner  runner.Runner
	Program string // Path or name of diff; empty means "diff"
}

// Diff implements Differ.
func (d *System) Diff(ctx context.Context, goldenPath string, actual []byte) (string, error) {
	expected, err := golden.Read(goldenPath)
	if err == nil && bytes.Equal(expected, actual) {
		return "", nil
	}

	program := d.Program
	if program == "" {
		program = "diff"
	}

	res, err := d.Runner.Run(ctx, []string{program, goldenPath, "-"}, actual)
	if err != nil {
		return "", err
	}
	if len(res.Output) == 0 {
		return differsMessage(goldenPath), nil
	}
	return string(res.Output), nil
}

// Text diffs line by line in process.
type Text struct{}

// Diff implements Differ.
func (Text) Diff(_ context.Context, goldenPath string, actual []byte) (string, error) {
	expected, err := golden.Read(goldenPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("missing expected output: %s\n", goldenPath), nil
	}
	if err != nil {
		return "", err
	}
	if bytes.Equal(expected, actual) {
		return "", nil
	}

	d := cmp.Diff(splitLines(expected), splitLines(actual))
	if d == "" {
		return differsMessage(goldenPath), nil
	}
	return fmt.Sprintf("--- %s\n+++ actual output\n%s", goldenPath, d), nil
}

// splitLines keeps line terminators so that a missing trailing newline
// still shows up as a difference.
func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	return strings.SplitAfter(string(b), "\n")
}

func differsMessage(goldenPath string) string {
	return fmt.Sprintf("output differs from %s\n", goldenPath)
}

// Auto returns a System differ when a diff program is on PATH, and the
// in-process Text differ otherwise.
func Auto(r runner.Runner) Differ {
	if path, err := exec.LookPath("diff"); err == nil {
		return &System{Runner: r, Program: path}
	}
	return Text{}
}
