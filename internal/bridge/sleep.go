// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"
	"fmt"
	"time"
)

type (
	// Clock is the time source sleep waits on.
	Clock interface {
		After(d time.Duration) <-chan time.Time
	}

	realClock struct{}

	// sleepFunction implements sleep. It blocks the calling script for a
	// fractional number of seconds. Only run cancellation (process interrupt)
	// cuts it short.
	sleepFunction struct {
		clock Clock
	}
)

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Name returns the function name.
func (f *sleepFunction) Name() string { return "sleep" }

// Signature returns the function signature.
func (f *sleepFunction) Signature() Signature {
	return Signature{
		Params: []Param{{Name: "seconds", Type: TypeFloat}},
		Doc:    "Block for SECONDS (fractional allowed; negative sleeps zero)",
	}
}

// Call executes sleep.
// Usage: sleep SECONDS
func (f *sleepFunction) Call(ctx context.Context, args []string) error {
	seconds, err := parseFloat(f.Name(), "seconds", args[1])
	if err != nil {
		return err
	}

	d := secondsToDuration(seconds)
	if d == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return &Error{Func: f.Name(), Kind: KindInterrupted, Err: fmt.Errorf("%w: %w", errInterrupted, ctx.Err())}
	case <-f.clock.After(d):
		return nil
	}
}
