package runner

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	dexerrors "github.com/AndreyAkinshin/dextest/internal/errors"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExec_Run_CombinesStreamsInOrder(t *testing.T) {
	sh := requireShell(t)

	res, err := NewExec().Run(context.Background(),
		[]string{sh, "-c", "echo one; echo two 1>&2; echo three"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got, want := string(res.Output), "one\ntwo\nthree\n"; got != want {
		t.Errorf("Output = %q, want %q", got, want)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
}

func TestExec_Run_NonZeroExitIsFoldedIn(t *testing.T) {
	sh := requireShell(t)

	res, err := NewExec().Run(context.Background(),
		[]string{sh, "-c", "echo 'bad input' 1>&2; exit 3"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil for non-zero exit", err)
	}

	if got, want := string(res.Output), "bad input\n"; got != want {
		t.Errorf("Output = %q, want %q", got, want)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestExec_Run_PipesStdin(t *testing.T) {
	sh := requireShell(t)

	input := []byte("line 1\nno newline at end")
	res, err := NewExec().Run(context.Background(), []string{sh, "-c", "cat"}, input)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if diff := cmp.Diff(string(input), string(res.Output)); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestExec_Run_NoStdinReadsEmpty(t *testing.T) {
	sh := requireShell(t)

	res, err := NewExec().Run(context.Background(), []string{sh, "-c", "cat; echo done"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := string(res.Output); got != "done\n" {
		t.Errorf("Output = %q, want %q", got, "done\n")
	}
}

func TestExec_Run_PreservesRawBytes(t *testing.T) {
	sh := requireShell(t)

	res, err := NewExec().Run(context.Background(), []string{sh, "-c", `printf 'a\r\n\tb  '`}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := string(res.Output), "a\r\n\tb  "; got != want {
		t.Errorf("Output = %q, want %q", got, want)
	}
}

func TestExec_Run_Dir(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()

	res, err := (&Exec{Dir: dir}).Run(context.Background(), []string{sh, "-c", "pwd -P"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(res.Output); got != want+"\n" {
		t.Errorf("Output = %q, want %q", got, want+"\n")
	}
}

func TestExec_Run_StartFailureIsExecError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-tool")

	res, err := NewExec().Run(context.Background(), []string{missing, "-s"}, nil)
	if err == nil {
		t.Fatalf("Run() = %+v, want error", res)
	}
	if !dexerrors.IsKind(err, dexerrors.KindExec) {
		t.Errorf("Run() error kind: got %v, want exec error", err)
	}
}

func TestExec_Run_EmptyCommand(t *testing.T) {
	_, err := NewExec().Run(context.Background(), nil, nil)
	if !dexerrors.IsKind(err, dexerrors.KindConfig) {
		t.Errorf("Run(nil) error = %v, want config error", err)
	}
}

func TestExec_Run_CanceledContext(t *testing.T) {
	sh := requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewExec().Run(ctx, []string{sh, "-c", "sleep 5"}, nil); err == nil {
		t.Error("Run() with canceled context should fail")
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"dexter", []string{"dexter"}},
		{"-d -x stress_entry_hook", []string{"-d", "-x", "stress_entry_hook"}},
		{"  -d   --cfg=verbose ", []string{"-d", "--cfg=verbose"}},
		{"-d -x com/example/ExampleJavaHelper", []string{"-d", "-x", "com/example/ExampleJavaHelper"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitCommand(tt.in)); diff != "" {
				t.Errorf("SplitCommand(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestLine(t *testing.T) {
	if got := Line([]string{"dexter", "-s", "a.dex"}); got != "dexter -s a.dex" {
		t.Errorf("Line() = %q", got)
	}
}
