// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"
	"errors"

	"keebi-cli/internal/host"
	"keebi-cli/internal/input"

	"github.com/charmbracelet/log"
)

type (
	// textFunction implements text: it types a string literally.
	textFunction struct {
		state *host.State
	}

	// keyFunction implements key: it emits a keyboard event.
	keyFunction struct {
		state  *host.State
		logger *log.Logger
	}

	// buttonFunction implements button: it emits a mouse button event.
	buttonFunction struct {
		state  *host.State
		logger *log.Logger
	}
)

// Name returns the function name.
func (f *textFunction) Name() string { return "text" }

// Signature returns the function signature.
func (f *textFunction) Signature() Signature {
	return Signature{
		Params: []Param{{Name: "text", Type: TypeString}},
		Doc:    "Type TEXT literally",
	}
}

// Call executes text.
// Usage: text TEXT
func (f *textFunction) Call(_ context.Context, args []string) error {
	text := args[1]
	return inputError(f.Name(), f.state.WithInput(func(sim input.Simulator) error {
		return sim.Text(text)
	}))
}

// Name returns the function name.
func (f *keyFunction) Name() string { return "key" }

// Signature returns the function signature.
func (f *keyFunction) Signature() Signature {
	return Signature{
		Params: []Param{
			{Name: "name", Type: TypeKey},
			{Name: "direction", Type: TypeDirection, Optional: true},
		},
		Doc: "Press, release or click (default) a key: one character or alt, control, backspace, escape, enter",
	}
}

// Call executes key.
// Usage: key NAME [DIRECTION]
func (f *keyFunction) Call(_ context.Context, args []string) error {
	k, err := input.ParseKey(args[1])
	if err != nil {
		return &Error{Func: f.Name(), Kind: KindUnknownName, Err: err}
	}
	d := parseDirection(f.logger, f.Name(), optionalArg(args, 2))

	return inputError(f.Name(), f.state.WithInput(func(sim input.Simulator) error {
		return sim.Key(k, d)
	}))
}

// Name returns the function name.
func (f *buttonFunction) Name() string { return "button" }

// Signature returns the function signature.
func (f *buttonFunction) Signature() Signature {
	return Signature{
		Params: []Param{
			{Name: "name", Type: TypeButton},
			{Name: "direction", Type: TypeDirection, Optional: true},
		},
		Doc: "Press, release or click (default) a mouse button: left, right, middle",
	}
}

// Call executes button.
// Usage: button NAME [DIRECTION]
func (f *buttonFunction) Call(_ context.Context, args []string) error {
	b, err := input.ParseButton(args[1])
	if err != nil {
		return &Error{Func: f.Name(), Kind: KindUnknownName, Err: err}
	}
	d := parseDirection(f.logger, f.Name(), optionalArg(args, 2))

	return inputError(f.Name(), f.state.WithInput(func(sim input.Simulator) error {
		return sim.Button(b, d)
	}))
}

// parseDirection defaults unrecognized names to click. This is not an error;
// a non-empty unrecognized name is only noted at debug level.
func parseDirection(logger *log.Logger, fn, name string) input.Direction {
	d, ok := input.LookupDirection(name)
	if !ok && name != "" {
		logger.Debug("unrecognized direction, using click", "func", fn, "direction", name)
	}
	return d
}

// inputError classifies a WithInput failure. A handle that cannot be used
// at all is KindUnavailable; anything the simulator itself reports,
// including a panic, is KindInput. Both are fatal.
func inputError(fn string, err error) error {
	if err == nil {
		return nil
	}
	kind := KindInput
	if errors.Is(err, host.ErrUnavailable) || errors.Is(err, host.ErrPoisoned) || errors.Is(err, host.ErrClosed) {
		kind = KindUnavailable
	}
	return &Error{Func: fn, Kind: kind, Err: err}
}
