// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"keebi-cli/internal/bridge"
	"keebi-cli/internal/host"
	"keebi-cli/internal/input"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// Options configures a Runner.
	Options struct {
		// Args are the script arguments, readable with arg and as $1..$n.
		Args []string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// Dir is the interpreter's working directory. Defaults to the process's.
		Dir string

		// Factory builds the input simulator on first use. A nil factory
		// makes text, key and button fail as unavailable.
		Factory input.Factory

		// Logger receives run and native-call diagnostics.
		Logger *log.Logger

		// Shell is the argv prefix for keebi.exec; nil selects the platform default.
		Shell []string

		// ErrExit stops the script at the first failing command (sh -e).
		ErrExit bool

		// Rand and Clock replace the randomness and time sources, for tests.
		Rand  bridge.RandSource
		Clock bridge.Clock
	}

	// Runner executes compiled scripts. Each Run is independent.
	Runner struct {
		opts   Options
		logger *log.Logger
	}

	// Result describes a successful run.
	Result struct {
		ExitCode int
		Duration time.Duration
	}
)

// New creates a Runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Runner{opts: opts, logger: logger}
}

// Check compiles src without running it.
func (r *Runner) Check(src []byte, name string) error {
	_, err := Compile(src, name)
	return err
}

// Run executes prog with a fresh host state and bridge. It returns a
// *ScriptError when the script exits non-zero or a native function fails
// fatally; the host state is closed on every path.
//
// A fatal failure cancels the interpreter and always ends the run with
// status 1, even when it happened in a context the shell would otherwise
// recover from, such as $(...).
func (r *Runner) Run(ctx context.Context, prog *syntax.File) (*Result, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	state := host.New(r.opts.Args, r.opts.Factory)
	defer func() {
		if err := state.Close(); err != nil {
			r.logger.Warn("failed to release input simulator", "error", err)
		}
	}()

	b := bridge.New(state, bridge.Options{
		Logger:  r.logger,
		Shell:   r.opts.Shell,
		Rand:    r.opts.Rand,
		Clock:   r.opts.Clock,
		OnFatal: func(err *bridge.Error) { cancel(err) },
	})

	// "--" keeps arguments such as "-v" from being read as shell options.
	params := []string{"--"}
	if r.opts.ErrExit {
		params = []string{"-e", "--"}
	}
	params = append(params, r.opts.Args...)

	runOpts := []interp.RunnerOption{
		interp.StdIO(r.opts.Stdin, r.opts.Stdout, r.opts.Stderr),
		interp.Params(params...),
		interp.ExecHandlers(b.ExecHandler),
	}
	if r.opts.Dir != "" {
		runOpts = append(runOpts, interp.Dir(r.opts.Dir))
	}

	shell, err := interp.New(runOpts...)
	if err != nil {
		return nil, &ScriptError{Status: 1, Cause: err}
	}

	r.logger.Debug("running script", "script", describe(prog), "args", r.opts.Args)
	start := time.Now()
	err = shell.Run(ctx, prog)
	elapsed := time.Since(start)

	if fatal := b.Fatal(); fatal != nil {
		r.logger.Debug("script halted", "error", fatal, "elapsed", elapsed)
		return nil, &ScriptError{Status: 1, Cause: fatal}
	}

	if err == nil {
		r.logger.Debug("script finished", "elapsed", elapsed)
		return &Result{ExitCode: 0, Duration: elapsed}, nil
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		r.logger.Debug("script exited", "status", uint8(status), "elapsed", elapsed)
		return nil, &ScriptError{Status: int(status), Cause: b.LastError()}
	}

	r.logger.Debug("script halted", "error", err, "elapsed", elapsed)
	return nil, &ScriptError{Status: 1, Cause: err}
}
