// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"keebi-cli/internal/host"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/interp"
)

type (
	// Options configures a Bridge.
	Options struct {
		// Logger receives debug traces of native calls. Defaults to a discarding logger.
		Logger *log.Logger
		// Shell is the argv prefix used by exec (e.g., ["sh", "-c"]).
		// Defaults to DefaultShell().
		Shell []string
		// Rand is the randomness source. Defaults to math/rand/v2.
		Rand RandSource
		// Clock times sleep. Defaults to the real clock.
		Clock Clock
		// OnFatal is called once, with the first fatal failure. The runner
		// uses it to cancel the interpreter so that builtins stop as well.
		OnFatal func(*Error)
	}

	// Bridge binds the native functions to one host.State and translates
	// their outcomes into interpreter results.
	Bridge struct {
		registry *Registry
		logger   *log.Logger
		onFatal  func(*Error)

		mu      sync.Mutex
		lastErr *Error
		fatal   *Error
	}
)

// New creates a Bridge with every native function registered against state.
// The registry is sealed before New returns.
func New(state *host.State, opts Options) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = globalRand{}
	}

	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}

	r := NewRegistry()
	r.Register(newArgFunction(state))
	r.Register(&sleepFunction{clock: clock})
	r.Register(newExecFunction(opts.Shell))
	r.Register(&randRangeFunction{rng: rng})
	r.Register(&randCharFunction{rng: rng})
	r.Register(&textFunction{state: state})
	r.Register(&buttonFunction{state: state, logger: logger})
	r.Register(&keyFunction{state: state, logger: logger})
	r.Seal()

	return &Bridge{
		registry: r,
		logger:   logger,
		onFatal:  opts.OnFatal,
	}
}

// Registry returns the sealed function registry.
func (b *Bridge) Registry() *Registry {
	return b.registry
}

// ExecHandler is an interp.ExecHandlers middleware. Registered function
// names are handled by the bridge; anything else goes to next. Once a
// native function has failed fatally, every later command fails with the
// same error, so a failure inside $(...) or a pipeline still halts the run.
func (b *Bridge) ExecHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if fatal := b.Fatal(); fatal != nil {
			return fatal
		}
		if len(args) == 0 {
			return next(ctx, args)
		}
		fn, ok := b.registry.Lookup(args[0])
		if !ok {
			return next(ctx, args)
		}
		return b.invoke(ctx, fn, args)
	}
}

// Call runs the named function as the interpreter would, with the handler
// context taken from ctx, and returns the translated outcome.
func (b *Bridge) Call(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("bridge: empty call")
	}
	fn, ok := b.registry.Lookup(args[0])
	if !ok {
		return b.translate(ctx, &Error{Func: args[0], Kind: KindNotFound, Err: ErrFunctionNotFound})
	}
	return b.invoke(ctx, fn, args)
}

// LastError returns the most recent catchable failure, or nil if the last
// native call succeeded.
func (b *Bridge) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastErr == nil {
		return nil
	}
	return b.lastErr
}

// Fatal returns the first fatal failure, or nil if there was none.
func (b *Bridge) Fatal() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fatal == nil {
		return nil
	}
	return b.fatal
}

func (b *Bridge) invoke(ctx context.Context, fn Function, args []string) error {
	start := time.Now()
	err := call(ctx, fn, args)

	if err != nil {
		b.logger.Debug("native call failed", "func", fn.Name(), "args", args[1:], "elapsed", time.Since(start), "error", err)
		return b.translate(ctx, classify(fn.Name(), err))
	}

	b.logger.Debug("native call", "func", fn.Name(), "args", args[1:], "elapsed", time.Since(start))
	b.setLast(nil)
	return nil
}

// translate is the single point where host failures become interpreter
// results. Fatal kinds are returned as plain errors, which halt the runner.
// Catchable kinds are reported on the command's stderr and turned into a
// non-zero exit status the script can test.
func (b *Bridge) translate(ctx context.Context, err *Error) error {
	if err.Kind.Fatal() {
		b.setFatal(err)
		return err
	}

	b.setLast(err)
	fmt.Fprintln(GetHandlerContext(ctx).Stderr, err.Error())
	return interp.NewExitStatus(err.Kind.ExitStatus())
}

// setFatal records err unless an earlier fatal failure exists.
func (b *Bridge) setFatal(err *Error) {
	b.mu.Lock()
	first := b.fatal == nil
	if first {
		b.fatal = err
	}
	b.mu.Unlock()

	if first && b.onFatal != nil {
		b.onFatal(err)
	}
}

func (b *Bridge) setLast(err *Error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastErr = err
}
