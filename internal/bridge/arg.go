// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"

	"keebi-cli/internal/host"
)

// argFunction implements arg: it returns a script argument by position.
type argFunction struct {
	state *host.State
}

func newArgFunction(state *host.State) *argFunction {
	return &argFunction{state: state}
}

// Name returns the function name.
func (f *argFunction) Name() string { return "arg" }

// Signature returns the function signature.
func (f *argFunction) Signature() Signature {
	return Signature{
		Params: []Param{{Name: "index", Type: TypeInt}},
		Result: TypeString,
		Doc:    "Return the script argument at INDEX (0-based)",
	}
}

// Call executes arg.
// Usage: arg INDEX
func (f *argFunction) Call(ctx context.Context, args []string) error {
	i, err := parseIndex(f.Name(), "index", args[1])
	if err != nil {
		return err
	}

	v, err := f.state.Arg(i)
	if err != nil {
		return &Error{Func: f.Name(), Kind: KindBounds, Err: err}
	}

	return writeResult(f.Name(), GetHandlerContext(ctx).Stdout, v)
}
