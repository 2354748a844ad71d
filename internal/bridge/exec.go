// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"keebi-cli/pkg/platform"
)

// execFunction implements exec: it runs a command string through the host
// shell and returns its standard output.
type execFunction struct {
	shell []string
}

// DefaultShell returns the platform command interpreter and the flag that
// makes it run a single command string: cmd /C on Windows, sh -c elsewhere.
// Inside a Flatpak or Snap sandbox the command is spawned on the host.
func DefaultShell() []string {
	return platform.HostShell()
}

func newExecFunction(shell []string) *execFunction {
	if len(shell) == 0 {
		shell = DefaultShell()
	}
	return &execFunction{shell: append([]string(nil), shell...)}
}

// Name returns the function name.
func (f *execFunction) Name() string { return "exec" }

// Signature returns the function signature.
func (f *execFunction) Signature() Signature {
	return Signature{
		Params: []Param{{Name: "command", Type: TypeString}},
		Result: TypeString,
		Doc:    "Run COMMAND with the host shell and return its standard output",
	}
}

// Call executes exec.
// Usage: keebi.exec COMMAND
//
// The child's exit status is ignored; only a failure to launch it is an
// error. Standard error is forwarded to the script's standard error. Invalid
// UTF-8 in the output is replaced with U+FFFD.
func (f *execFunction) Call(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	argv := append(append([]string(nil), f.shell[1:]...), args[1])
	cmd := exec.CommandContext(ctx, f.shell[0], argv...)
	cmd.Dir = hc.Dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = hc.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return &Error{Func: f.Name(), Kind: KindInterrupted, Err: fmt.Errorf("%w: %w", errInterrupted, ctx.Err())}
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return &Error{Func: f.Name(), Kind: KindSpawn, Err: fmt.Errorf("failed to execute command: %w", err)}
		}
	}

	return writeResult(f.Name(), hc.Stdout, strings.ToValidUTF8(stdout.String(), "�"))
}
