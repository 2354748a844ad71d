// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"keebi-cli/internal/bridge"
	"keebi-cli/internal/host"
	"keebi-cli/internal/issue"
	"keebi-cli/internal/runner"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{
			name: "linked actionable error",
			err: fmt.Errorf("run: %w", issue.NewErrorContext().
				WithOperation("load script").
				WithIssue(issue.ScriptNotFoundId).
				BuildError()),
			want: issue.ScriptNotFoundId,
		},
		{
			name: "id outside the catalogue falls through",
			err:  &issue.ActionableError{Operation: "load script", IssueId: 999},
			want: 0,
		},
		{
			name: "compile error",
			err:  &runner.CompileError{Name: "a.sh", Err: errors.New("1:4: unexpected")},
			want: issue.ScriptParseErrorId,
		},
		{
			name: "unavailable input inside a script error",
			err:  &runner.ScriptError{Status: 1, Cause: &bridge.Error{Func: "text", Kind: bridge.KindUnavailable, Err: host.ErrUnavailable}},
			want: issue.InputUnavailableId,
		},
		{
			name: "spawn failure",
			err:  &bridge.Error{Func: "exec", Kind: bridge.KindSpawn, Err: errors.New("no such file")},
			want: issue.ShellNotFoundId,
		},
		{
			name: "plain script failure",
			err:  &runner.ScriptError{Status: 3},
			want: issue.ScriptExecutionFailedId,
		},
		{
			name: "unrelated",
			err:  errors.New("boom"),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %d, want %d", got, tt.want)
			}
		})
	}
}
