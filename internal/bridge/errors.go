// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"errors"
	"fmt"

	"keebi-cli/internal/host"
	"keebi-cli/internal/input"
)

const (
	// KindNotFound means no function with the requested name exists.
	KindNotFound ErrorKind = iota + 1
	// KindArity means the argument count does not match the signature.
	KindArity
	// KindArgument means an argument word could not be converted (malformed
	// number, invalid range).
	KindArgument
	// KindUnknownName means a key or button name is not recognized.
	KindUnknownName
	// KindBounds means an argument index is out of range.
	KindBounds
	// KindSpawn means the host shell could not be launched.
	KindSpawn
	// KindOutput means a result could not be written to the command's
	// standard output, e.g. because the reader of a pipe went away.
	KindOutput
	// KindFailed is any other failure of a function. It is catchable.
	KindFailed
	// KindInput means the input simulator failed while emitting an event.
	KindInput
	// KindUnavailable means the input simulator cannot be used at all.
	KindUnavailable
	// KindInterrupted means the run was cancelled while the function was blocked.
	KindInterrupted
)

// ErrFunctionNotFound is wrapped by errors of kind KindNotFound.
var ErrFunctionNotFound = errors.New("function not found")

type (
	// ErrorKind classifies native function failures at the script boundary.
	ErrorKind int

	// Error is the only error type native functions hand to the interpreter.
	Error struct {
		Func string
		Kind ErrorKind
		Err  error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[keebi] %s: %v", e.Func, e.Err)
}

// Unwrap returns the underlying host error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether errors of this kind halt the interpreter instead of
// being observable by the script.
func (k ErrorKind) Fatal() bool {
	switch k {
	case KindInput, KindUnavailable, KindInterrupted:
		return true
	default:
		return false
	}
}

// ExitStatus is the command status reported to the script for catchable kinds.
func (k ErrorKind) ExitStatus() uint8 {
	switch k {
	case KindNotFound:
		return 127
	case KindArity:
		return 2
	default:
		return 1
	}
}

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindArity:
		return "arity"
	case KindArgument:
		return "argument"
	case KindUnknownName:
		return "unknown-name"
	case KindBounds:
		return "bounds"
	case KindSpawn:
		return "spawn"
	case KindOutput:
		return "output"
	case KindFailed:
		return "failed"
	case KindInput:
		return "input"
	case KindUnavailable:
		return "unavailable"
	case KindInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// classify wraps an error returned by fn into an *Error. Errors that are
// already *Error pass through unchanged. Only host sentinels map to fatal
// kinds; an unrecognized error is KindFailed.
func classify(fn string, err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}

	kind := KindFailed
	switch {
	case errors.Is(err, host.ErrArgOutOfBounds):
		kind = KindBounds
	case errors.Is(err, input.ErrUnknownKey), errors.Is(err, input.ErrUnknownButton):
		kind = KindUnknownName
	case errors.Is(err, host.ErrUnavailable), errors.Is(err, host.ErrPoisoned), errors.Is(err, host.ErrClosed):
		kind = KindUnavailable
	case errors.Is(err, errInterrupted):
		kind = KindInterrupted
	}
	return &Error{Func: fn, Kind: kind, Err: err}
}
