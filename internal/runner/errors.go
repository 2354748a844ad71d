// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrScriptFailed is the sentinel error wrapped by ScriptError.
	ErrScriptFailed = errors.New("script failed")
	// ErrCompile is the sentinel error wrapped by CompileError.
	ErrCompile = errors.New("compile error")
)

type (
	// ScriptError is the terminal error of a run that did not succeed.
	// Status is the process exit status to report. Cause is the fatal error
	// that halted the interpreter, or the last catchable native-function
	// failure when the script exited non-zero on its own.
	ScriptError struct {
		Status int
		Cause  error
	}

	// CompileError is returned when a script cannot be parsed. The parser
	// error already carries the script name and position.
	CompileError struct {
		Name string
		Err  error
	}
)

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("script exited with status %d", e.Status)
	}
	return fmt.Sprintf("script exited with status %d: %v", e.Status, e.Cause)
}

// Unwrap returns ErrScriptFailed and the cause for errors.Is/As.
func (e *ScriptError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrScriptFailed}
	}
	return []error{ErrScriptFailed, e.Cause}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("syntax error: %v", e.Err)
}

// Unwrap returns ErrCompile and the parser error.
func (e *CompileError) Unwrap() []error { return []error{ErrCompile, e.Err} }
