// SPDX-License-Identifier: MPL-2.0

// Package host holds the mutable state shared by every native function of a
// single script run: the input-simulation handle and the script arguments.
package host

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"keebi-cli/internal/input"
)

var (
	// ErrArgOutOfBounds is the sentinel error wrapped by ArgIndexError.
	ErrArgOutOfBounds = errors.New("argument index out of bounds")
	// ErrPoisoned is returned once a panic has left the input handle in an unknown state.
	ErrPoisoned = errors.New("input handle poisoned by an earlier failure")
	// ErrUnavailable is the sentinel error wrapped by UnavailableError.
	ErrUnavailable = errors.New("input handle unavailable")
	// ErrClosed is returned by WithInput after Close.
	ErrClosed = errors.New("host state closed")
)

type (
	// State is the lock-guarded resource bundle shared by all native functions.
	// The argument list is immutable after construction; the simulator is
	// created on first use and only ever touched while holding mu.
	State struct {
		args []string

		mu       sync.Mutex
		factory  input.Factory
		sim      input.Simulator
		buildErr error
		poisoned error
		closed   bool
	}

	// ArgIndexError is returned when a script asks for an argument that does not exist.
	// It wraps ErrArgOutOfBounds for errors.Is() compatibility.
	ArgIndexError struct {
		Index int64
		Count int
	}

	// UnavailableError is returned when the input simulator could not be constructed.
	// It wraps ErrUnavailable and the construction error.
	UnavailableError struct {
		Cause error
	}

	// PanicError is returned by WithInput when the guarded function panicked.
	PanicError struct {
		Value any
	}
)

// New creates a State holding a copy of args. factory is called at most once,
// on the first WithInput call; a nil factory makes every WithInput call fail.
func New(args []string, factory input.Factory) *State {
	return &State{
		args:    append([]string(nil), args...),
		factory: factory,
	}
}

// Arg returns the argument at index i.
func (s *State) Arg(i int64) (string, error) {
	if i < 0 || i >= int64(len(s.args)) {
		return "", &ArgIndexError{Index: i, Count: len(s.args)}
	}
	return s.args[i], nil
}

// Args returns a copy of the argument list.
func (s *State) Args() []string {
	return append([]string(nil), s.args...)
}

// WithInput runs fn with sole access to the input simulator and releases
// access before returning, including when fn fails or panics.
//
// An error returned by fn fails only this call. A panic poisons the state:
// this and every later call return an error without touching the simulator.
func (s *State) WithInput(fn func(input.Simulator) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return ErrClosed
	case s.poisoned != nil:
		return fmt.Errorf("%w: %w", ErrPoisoned, s.poisoned)
	}

	sim, err := s.simulatorLocked()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{Value: r}
			s.poisoned = perr
			err = perr
		}
	}()

	return fn(sim)
}

// Poisoned reports whether an earlier panic disabled the input handle.
func (s *State) Poisoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poisoned != nil
}

// Close releases the simulator if it holds OS resources. It is safe to call
// more than once.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if c, ok := s.sim.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// simulatorLocked returns the simulator, constructing it on first use.
// A construction failure is remembered so the factory is never retried.
func (s *State) simulatorLocked() (input.Simulator, error) {
	if s.sim != nil {
		return s.sim, nil
	}
	if s.buildErr != nil {
		return nil, s.buildErr
	}
	if s.factory == nil {
		s.buildErr = &UnavailableError{Cause: errors.New("no input backend configured")}
		return nil, s.buildErr
	}

	sim, err := s.factory()
	if err == nil && sim == nil {
		err = errors.New("input backend returned no simulator")
	}
	if err != nil {
		s.buildErr = &UnavailableError{Cause: err}
		return nil, s.buildErr
	}

	s.sim = sim
	return sim, nil
}

// Error implements the error interface.
func (e *ArgIndexError) Error() string {
	return fmt.Sprintf("argument index %d out of bounds (%d arguments)", e.Index, e.Count)
}

// Unwrap returns ErrArgOutOfBounds so callers can use errors.Is for programmatic detection.
func (e *ArgIndexError) Unwrap() error { return ErrArgOutOfBounds }

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnavailable, e.Cause)
}

// Unwrap returns both ErrUnavailable and the construction error.
func (e *UnavailableError) Unwrap() []error { return []error{ErrUnavailable, e.Cause} }

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("input simulator panicked: %v", e.Value)
}
