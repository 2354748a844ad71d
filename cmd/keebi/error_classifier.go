// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"keebi-cli/internal/bridge"
	"keebi-cli/internal/host"
	"keebi-cli/internal/issue"
	"keebi-cli/internal/runner"
)

// classifyError maps a failure to the issue catalogue page that explains it,
// or 0 when there is none.
func classifyError(err error) issue.Id {
	var (
		ae        *issue.ActionableError
		compErr   *runner.CompileError
		nativeErr *bridge.Error
	)

	switch {
	case errors.As(err, &ae) && ae.Issue() != nil:
		return ae.Issue().Id()
	case errors.As(err, &compErr):
		return issue.ScriptParseErrorId
	case errors.Is(err, host.ErrUnavailable), errors.Is(err, host.ErrPoisoned):
		return issue.InputUnavailableId
	case errors.As(err, &nativeErr) && nativeErr.Kind == bridge.KindSpawn:
		return issue.ShellNotFoundId
	case errors.Is(err, runner.ErrScriptFailed):
		return issue.ScriptExecutionFailedId
	default:
		return 0
	}
}

// isFatalNativeError reports whether err halted the script from inside a
// native function rather than through the script's own exit status.
func isFatalNativeError(err error) bool {
	var nativeErr *bridge.Error
	return errors.As(err, &nativeErr) && nativeErr.Kind.Fatal()
}
