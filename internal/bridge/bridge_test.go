// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"keebi-cli/internal/host"
	"keebi-cli/internal/input"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runScript runs src in an interpreter whose exec handler goes through b.
func runScript(t *testing.T, b *Bridge, src string) (stdout, stderr string, err error) {
	t.Helper()

	file, err := syntax.NewParser().Parse(strings.NewReader(src), "test.sh")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	runner, err := interp.New(
		interp.StdIO(nil, &outBuf, &errBuf),
		interp.ExecHandlers(b.ExecHandler),
	)
	if err != nil {
		t.Fatalf("interp.New: %v", err)
	}

	err = runner.Run(t.Context(), file)
	return outBuf.String(), errBuf.String(), err
}

func TestExecHandler_CapturesResults(t *testing.T) {
	t.Parallel()

	rec := input.NewRecorder()
	b := New(host.New([]string{"hello"}, input.RecorderFactory(rec)), Options{})

	stdout, _, err := runScript(t, b, `name=$(arg 0)
text "$name"
echo "[$(keebi.arg 0)]"`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout != "[hello]\n" {
		t.Errorf("stdout = %q, want %q", stdout, "[hello]\n")
	}
	if got := rec.Typed(); got != "hello" {
		t.Errorf("typed = %q, want %q", got, "hello")
	}
}

func TestExecHandler_CatchableFailure(t *testing.T) {
	t.Parallel()

	rec := input.NewRecorder()
	b := New(host.New(nil, input.RecorderFactory(rec)), Options{})

	stdout, stderr, err := runScript(t, b, `key nope || echo fallback
arg 3
echo "status=$?"`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout != "fallback\nstatus=1\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "[keebi] key: unrecognized key \"nope\"") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stderr, "[keebi] arg: ") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestExecHandler_FatalFailureHalts(t *testing.T) {
	t.Parallel()

	rec := input.NewRecorder()
	rec.OnEvent = func(input.Event) error { return errors.New("simulator lost") }
	b := New(host.New(nil, input.RecorderFactory(rec)), Options{})

	stdout, _, err := runScript(t, b, `echo before
text x || echo caught
echo after`)

	var be *Error
	if !errors.As(err, &be) || be.Kind != KindInput {
		t.Fatalf("run error = %v, want fatal input error", err)
	}
	if stdout != "before\n" {
		t.Errorf("stdout = %q, want only %q", stdout, "before\n")
	}
}

func TestExecHandler_FatalFailureIsSticky(t *testing.T) {
	t.Parallel()

	rec := input.NewRecorder()
	rec.OnEvent = func(input.Event) error { return errors.New("simulator lost") }
	var reported []*Error
	b := New(host.New(nil, input.RecorderFactory(rec)), Options{
		OnFatal: func(err *Error) { reported = append(reported, err) },
	})

	// The shell recovers from a failure inside $(...); the next command
	// must not run.
	stdout, _, err := runScript(t, b, `x=$(text ab)
rand_char
echo after`)

	var be *Error
	if !errors.As(err, &be) || be.Kind != KindInput {
		t.Fatalf("run error = %v, want fatal input error", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing after the fatal failure", stdout)
	}
	if !errors.Is(b.Fatal(), be) {
		t.Errorf("Fatal() = %v, want %v", b.Fatal(), be)
	}
	if len(reported) != 1 {
		t.Errorf("OnFatal called %d times, want 1", len(reported))
	}
}

func TestExecHandler_BrokenPipeIsCatchable(t *testing.T) {
	t.Parallel()

	big := strings.Repeat("x", 1<<20)
	b := New(host.New([]string{big}, nil), Options{})

	stdout, stderr, err := runScript(t, b, `arg 0 | true
echo "after $?"`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout != "after 0\n" {
		t.Errorf("stdout = %q, want %q", stdout, "after 0\n")
	}
	if !strings.Contains(stderr, "[keebi] arg: write result") {
		t.Errorf("stderr = %q", stderr)
	}
	if b.Fatal() != nil {
		t.Errorf("Fatal() = %v, want nil", b.Fatal())
	}
}

func TestExecHandler_RandCharNewlineCapturesEmpty(t *testing.T) {
	t.Parallel()

	b := New(host.New(nil, nil), Options{Rand: fixedRand{n: '\n'}})

	stdout, _, err := runScript(t, b, `c=$(rand_char)
echo "[$c] ${#c}"`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout != "[] 0\n" {
		t.Errorf("stdout = %q, want %q", stdout, "[] 0\n")
	}
}

func TestExecHandler_PassesThroughUnknownCommands(t *testing.T) {
	t.Parallel()

	b := New(host.New(nil, nil), Options{})

	_, _, err := runScript(t, b, `keebi-definitely-not-a-command-xyz`)

	var es interp.ExitStatus
	if !errors.As(err, &es) || es != 127 {
		t.Errorf("run error = %v, want exit status 127", err)
	}
}
