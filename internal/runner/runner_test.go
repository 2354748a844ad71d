// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"keebi-cli/internal/bridge"
	"keebi-cli/internal/host"
	"keebi-cli/internal/input"
	"keebi-cli/internal/issue"
	"keebi-cli/internal/testutil"
	"keebi-cli/pkg/platform"
)

type runOutput struct {
	rec    *input.Recorder
	stdout string
	stderr string
	result *Result
	err    error
}

func runSource(t *testing.T, src string, opts Options) runOutput {
	t.Helper()

	prog, err := Compile([]byte(src), "test.sh")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	out := runOutput{rec: input.NewRecorder()}
	var stdout, stderr bytes.Buffer
	opts.Stdout = &stdout
	opts.Stderr = &stderr
	if opts.Factory == nil {
		opts.Factory = input.RecorderFactory(out.rec)
	}
	if opts.Shell == nil {
		opts.Shell = []string{"sh", "-c"}
	}

	out.result, out.err = New(opts).Run(t.Context(), prog)
	out.stdout = stdout.String()
	out.stderr = stderr.String()
	return out
}

func requireScriptError(t *testing.T, err error, status int) *ScriptError {
	t.Helper()
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ScriptError, got %T: %v", err, err)
	}
	if se.Status != status {
		t.Fatalf("Status = %d, want %d (%v)", se.Status, status, err)
	}
	if !errors.Is(err, ErrScriptFailed) {
		t.Error("ScriptError should wrap ErrScriptFailed")
	}
	return se
}

func TestRun_Arguments(t *testing.T) {
	t.Parallel()

	out := runSource(t, `echo "$(arg 0)"
echo "$1 $#"`, Options{Args: []string{"hello"}})
	if out.err != nil {
		t.Fatalf("Run() error: %v", out.err)
	}
	if out.result.ExitCode != 0 {
		t.Errorf("ExitCode = %d", out.result.ExitCode)
	}
	if out.stdout != "hello\nhello 1\n" {
		t.Errorf("stdout = %q", out.stdout)
	}
}

func TestRun_ArgumentOutOfBounds(t *testing.T) {
	t.Parallel()

	out := runSource(t, `arg 1`, Options{Args: []string{"hello"}, ErrExit: true})

	se := requireScriptError(t, out.err, 1)
	if !errors.Is(se, host.ErrArgOutOfBounds) {
		t.Errorf("cause = %v, want ErrArgOutOfBounds", se.Cause)
	}
	if !strings.Contains(out.stderr, "[keebi] arg: argument index 1 out of bounds") {
		t.Errorf("stderr = %q", out.stderr)
	}
}

func TestRun_DashArgumentsAreNotOptions(t *testing.T) {
	t.Parallel()

	out := runSource(t, `echo "$1"; arg 1`, Options{Args: []string{"-v", "--env=x"}})
	if out.err != nil {
		t.Fatalf("Run() error: %v", out.err)
	}
	if out.stdout != "-v\n--env=x" {
		t.Errorf("stdout = %q", out.stdout)
	}
}

func TestRun_InputOrdering(t *testing.T) {
	t.Parallel()

	out := runSource(t, `text ab
key enter
text "$(arg 0)"
button left press
button left release`, Options{Args: []string{"cd"}})
	if out.err != nil {
		t.Fatalf("Run() error: %v", out.err)
	}

	var got []string
	for _, ev := range out.rec.Events() {
		got = append(got, ev.String())
	}
	want := []string{
		`text "a"`, `text "b"`,
		"key enter click",
		`text "c"`, `text "d"`,
		"button left press",
		"button left release",
	}
	if !slices.Equal(got, want) {
		t.Errorf("events = %q\nwant %q", got, want)
	}
}

func TestRun_CatchableErrors(t *testing.T) {
	t.Parallel()

	out := runSource(t, `key nope || echo fallback
button nope || echo fallback2
key a bogus-direction`, Options{ErrExit: true})
	if out.err != nil {
		t.Fatalf("Run() error: %v", out.err)
	}
	if out.stdout != "fallback\nfallback2\n" {
		t.Errorf("stdout = %q", out.stdout)
	}

	events := out.rec.Events()
	if len(events) != 1 || events[0].Direction != input.Click {
		t.Errorf("events = %v, want one click", events)
	}
}

func TestRun_ErrExitDisabled(t *testing.T) {
	t.Parallel()

	out := runSource(t, `key nope
echo still-running`, Options{})
	if out.err != nil {
		t.Fatalf("Run() error: %v", out.err)
	}
	if out.stdout != "still-running\n" {
		t.Errorf("stdout = %q", out.stdout)
	}
}

func TestRun_ExitStatus(t *testing.T) {
	t.Parallel()

	out := runSource(t, `exit 3`, Options{})
	se := requireScriptError(t, out.err, 3)
	if se.Cause != nil {
		t.Errorf("Cause = %v, want nil for a plain exit", se.Cause)
	}
	if out.result != nil {
		t.Errorf("Result = %+v, want nil on failure", out.result)
	}
}

func TestRun_FatalInputFailure(t *testing.T) {
	t.Parallel()

	rec := input.NewRecorder()
	rec.OnEvent = func(input.Event) error { return errors.New("display connection lost") }

	out := runSource(t, `text x || echo caught
echo after`, Options{Factory: input.RecorderFactory(rec)})

	se := requireScriptError(t, out.err, 1)
	var be *bridge.Error
	if !errors.As(se, &be) || be.Kind != bridge.KindInput {
		t.Errorf("cause = %v, want fatal input error", se.Cause)
	}
	if !strings.Contains(se.Error(), "display connection lost") {
		t.Errorf("message lost the host error: %q", se.Error())
	}
	if out.stdout != "" {
		t.Errorf("script kept running: stdout = %q", out.stdout)
	}
}

func TestRun_FatalFailureInsideSubstitution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "assignment", src: "x=$(text ab)\necho after-subst $?"},
		{name: "argument", src: "echo \"$(key a)\"\necho after-subst"},
		{name: "caught by ||", src: "y=$(button left) || echo caught\necho after-subst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := input.NewRecorder()
			rec.OnEvent = func(input.Event) error { return errors.New("display connection lost") }

			out := runSource(t, tt.src, Options{Factory: input.RecorderFactory(rec)})

			se := requireScriptError(t, out.err, 1)
			var be *bridge.Error
			if !errors.As(se, &be) || be.Kind != bridge.KindInput {
				t.Errorf("cause = %v, want fatal input error", se.Cause)
			}
			if strings.Contains(out.stdout, "after-subst") || strings.Contains(out.stdout, "caught") {
				t.Errorf("script kept running: stdout = %q", out.stdout)
			}
		})
	}
}

func TestRun_ExecIntoClosedPipe(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == platform.Windows {
		t.Skip("uses a POSIX shell")
	}

	// The child's output is larger than a pipe buffer, so writing it after
	// "true" has exited fails with EPIPE.
	out := runSource(t, `keebi.exec 'i=0; while [ $i -lt 20000 ]; do echo 0123456789abcdef0123456789abcdef; i=$((i+1)); done' | true
echo after`, Options{})
	if out.err != nil {
		t.Fatalf("Run() error: %v", out.err)
	}
	if out.stdout != "after\n" {
		t.Errorf("stdout = %q, want %q", out.stdout, "after\n")
	}
}

func TestRun_UnavailableInput(t *testing.T) {
	t.Parallel()

	factory := func() (input.Simulator, error) { return nil, errors.New("no display") }
	out := runSource(t, `echo "$(rand_range 1 1)"
key a`, Options{Factory: factory})

	se := requireScriptError(t, out.err, 1)
	if !errors.Is(se, host.ErrUnavailable) {
		t.Errorf("cause = %v, want ErrUnavailable", se.Cause)
	}
	if out.stdout != "1\n" {
		t.Errorf("stdout = %q; functions without input should still work", out.stdout)
	}
}

func TestRun_Exec(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == platform.Windows {
		t.Skip("uses a POSIX shell")
	}

	out := runSource(t, `v=$(keebi.exec "echo hi; exit 4")
text "$v"`, Options{ErrExit: true})
	if out.err != nil {
		t.Fatalf("Run() error: %v", out.err)
	}
	// Command substitution strips the trailing newline.
	if got := out.rec.Typed(); got != "hi" {
		t.Errorf("typed = %q, want %q", got, "hi")
	}
}

func TestRun_Interrupted(t *testing.T) {
	t.Parallel()

	prog, err := Compile([]byte(`sleep 3600; echo unreachable`), "t.sh")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	time.AfterFunc(20*time.Millisecond, cancel)

	var stdout bytes.Buffer
	_, err = New(Options{Stdout: &stdout, Stderr: &bytes.Buffer{}}).Run(ctx, prog)

	se := requireScriptError(t, err, 1)
	var be *bridge.Error
	if !errors.As(se, &be) || be.Kind != bridge.KindInterrupted {
		t.Errorf("cause = %v, want interrupted", se.Cause)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_ConcurrentPipelinesDoNotInterleave(t *testing.T) {
	t.Parallel()

	out := runSource(t, `text aaaa | text bbbb | text cccc`, Options{})
	if out.err != nil {
		t.Fatalf("Run() error: %v", out.err)
	}

	typed := out.rec.Typed()
	if len(typed) != 12 {
		t.Fatalf("typed = %q", typed)
	}
	for i := 0; i < 12; i += 4 {
		chunk := typed[i : i+4]
		if strings.Count(chunk, chunk[:1]) != 4 {
			t.Errorf("interleaved input: %q", typed)
			break
		}
	}
}

func TestCompile_Error(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte("if true; then\n  text x\n"), "broken.sh")

	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrCompile) {
		t.Error("CompileError should wrap ErrCompile")
	}
	if !strings.Contains(err.Error(), "broken.sh") {
		t.Errorf("message should name the script: %q", err.Error())
	}

	if err := New(Options{}).Check([]byte("text ok"), "ok.sh"); err != nil {
		t.Errorf("Check() error: %v", err)
	}
}

func TestScriptPath(t *testing.T) {
	t.Parallel()

	got, err := ScriptPath("/s", "login", "sh")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/s", "login.sh"); got != want {
		t.Errorf("ScriptPath() = %q, want %q", got, want)
	}

	for _, name := range []string{"", "../x", "a/b", "con"} {
		_, err := ScriptPath("/s", name, "sh")
		if !errors.Is(err, platform.ErrInvalidScriptName) {
			t.Errorf("ScriptPath(%q) error = %v, want ErrInvalidScriptName", name, err)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, dir, "hi.sh", "text hi\n")

	data, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "text hi\n" {
		t.Errorf("Load() = %q", data)
	}

	_, err = Load(filepath.Join(dir, "missing.sh"))
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
	}
	if ae.IssueId != issue.ScriptNotFoundId || len(ae.Suggestions) == 0 {
		t.Errorf("missing script error = %#v", ae)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("error should wrap fs.ErrNotExist")
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, "b.sh", "")
	testutil.MustWriteFile(t, dir, "a.sh", "")
	testutil.MustWriteFile(t, dir, "notes.txt", "")
	testutil.MustWriteFile(t, dir, "config.cue", "")
	testutil.MustWriteFile(t, filepath.Join(dir, "sub.sh"), "c.sh", "")

	names, err := List(dir, "sh")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if want := []string{"a", "b"}; !slices.Equal(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}

	_, err = List(filepath.Join(dir, "missing"), "sh")
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueId != issue.ScriptsDirNotFoundId {
		t.Errorf("List(missing) error = %v", err)
	}
}
