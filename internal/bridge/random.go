// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	surrogateMin = 0xD800
	surrogateLen = 0x800
	// scalarCount is the number of Unicode scalar values: every code point
	// up to U+10FFFF except the surrogate block.
	scalarCount = 0x110000 - surrogateLen
)

type (
	// RandSource is the randomness used by rand_range and rand_char.
	// Implementations must be safe for concurrent use.
	RandSource interface {
		Float64() float64
		IntN(n int) int
	}

	// globalRand draws from math/rand/v2's goroutine-safe top-level source.
	globalRand struct{}

	// randRangeFunction implements rand_range.
	randRangeFunction struct {
		rng RandSource
	}

	// randCharFunction implements rand_char.
	randCharFunction struct {
		rng RandSource
	}
)

func (globalRand) Float64() float64 { return rand.Float64() }

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Name returns the function name.
func (f *randRangeFunction) Name() string { return "rand_range" }

// Signature returns the function signature.
func (f *randRangeFunction) Signature() Signature {
	return Signature{
		Params: []Param{{Name: "min", Type: TypeFloat}, {Name: "max", Type: TypeFloat}},
		Result: TypeFloat,
		Doc:    "Return a uniform random number in [MIN, MAX); MIN == MAX returns MIN",
	}
}

// Call executes rand_range.
// Usage: rand_range MIN MAX
//
// MIN > MAX and non-finite bounds are argument errors.
func (f *randRangeFunction) Call(ctx context.Context, args []string) error {
	lo, err := parseFloat(f.Name(), "min", args[1])
	if err != nil {
		return err
	}
	hi, err := parseFloat(f.Name(), "max", args[2])
	if err != nil {
		return err
	}

	v, err := randRange(f.rng, lo, hi)
	if err != nil {
		return &Error{Func: f.Name(), Kind: KindArgument, Err: err}
	}

	return writeResult(f.Name(), GetHandlerContext(ctx).Stdout, formatFloat(v))
}

// randRange draws a uniform value in [lo, hi).
func randRange(rng RandSource, lo, hi float64) (float64, error) {
	switch {
	case math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0):
		return 0, fmt.Errorf("bounds must be finite, got [%v, %v)", lo, hi)
	case lo > hi:
		return 0, fmt.Errorf("empty range: min %v is greater than max %v", lo, hi)
	case lo == hi:
		return lo, nil
	}

	// Interpolating avoids overflow of hi-lo for ranges wider than MaxFloat64.
	u := rng.Float64()
	v := lo*(1-u) + hi*u
	if v < lo {
		v = lo
	}
	if v >= hi {
		v = math.Nextafter(hi, lo)
	}
	return v, nil
}

// Name returns the function name.
func (f *randCharFunction) Name() string { return "rand_char" }

// Signature returns the function signature.
func (f *randCharFunction) Signature() Signature {
	return Signature{
		Result: TypeString,
		Doc:    "Return one uniformly random Unicode scalar value. $(...) drops U+0000 and strips a trailing U+000A, so those two draws capture as an empty string",
	}
}

// Call executes rand_char.
// Usage: rand_char
//
// Every scalar value, U+0000 and U+000A included, is written as drawn.
// Command substitution removes both, so a script that captures the result
// sees an empty string for those two values.
func (f *randCharFunction) Call(ctx context.Context, args []string) error {
	return writeResult(f.Name(), GetHandlerContext(ctx).Stdout, string(randChar(f.rng)))
}

// randChar maps a uniform index onto the scalar values, skipping surrogates.
func randChar(rng RandSource) rune {
	n := rng.IntN(scalarCount)
	if n >= surrogateMin {
		n += surrogateLen
	}
	return rune(n)
}
