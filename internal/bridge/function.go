// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"
	"fmt"
	"strings"
)

const (
	// TypeNone marks a function without a result.
	TypeNone ValueType = ""
	// TypeInt is a base-10 64-bit signed integer word.
	TypeInt ValueType = "int"
	// TypeFloat is a floating-point word.
	TypeFloat ValueType = "float"
	// TypeString is an arbitrary word.
	TypeString ValueType = "string"
	// TypeKey is a key name (see input.ParseKey).
	TypeKey ValueType = "key"
	// TypeButton is a button name (see input.ParseButton).
	TypeButton ValueType = "button"
	// TypeDirection is a direction name (see input.ParseDirection).
	TypeDirection ValueType = "direction"
)

type (
	// Function is a native function callable from scripts.
	Function interface {
		// Name returns the function name (e.g., "key", "rand_range").
		Name() string

		// Signature describes the parameters and result.
		Signature() Signature

		// Call executes the function. args[0] is the name the script used,
		// args[1:] are the arguments, already checked against Signature.
		// Results are written to the handler context's stdout.
		Call(ctx context.Context, args []string) error
	}

	// ValueType names the script-level type of a parameter or result.
	ValueType string

	// Param describes one positional parameter.
	Param struct {
		Name     string
		Type     ValueType
		Optional bool
	}

	// Signature is the arity and type contract of a Function.
	Signature struct {
		Params []Param
		Result ValueType
		// Doc is a one-line description.
		Doc string
	}
)

// MinArgs returns the number of required parameters.
func (s Signature) MinArgs() int {
	n := 0
	for _, p := range s.Params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// MaxArgs returns the total number of parameters.
func (s Signature) MaxArgs() int {
	return len(s.Params)
}

// Validate checks that no required parameter follows an optional one.
func (s Signature) Validate() error {
	optional := false
	for _, p := range s.Params {
		if p.Name == "" {
			return fmt.Errorf("parameter with empty name")
		}
		if p.Optional {
			optional = true
			continue
		}
		if optional {
			return fmt.Errorf("required parameter %q follows an optional one", p.Name)
		}
	}
	return nil
}

// CheckArity reports whether n arguments satisfy the signature.
func (s Signature) CheckArity(n int) error {
	minArgs, maxArgs := s.MinArgs(), s.MaxArgs()
	switch {
	case n < minArgs && minArgs == maxArgs:
		return fmt.Errorf("expected %d argument(s), got %d", minArgs, n)
	case n < minArgs:
		return fmt.Errorf("expected at least %d argument(s), got %d", minArgs, n)
	case n > maxArgs:
		return fmt.Errorf("expected at most %d argument(s), got %d", maxArgs, n)
	}
	return nil
}

// Usage renders the signature for name, e.g. "key NAME:key [DIRECTION:direction]".
func (s Signature) Usage(name string) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, p := range s.Params {
		sb.WriteByte(' ')
		param := strings.ToUpper(p.Name) + ":" + string(p.Type)
		if p.Optional {
			param = "[" + param + "]"
		}
		sb.WriteString(param)
	}
	if s.Result != TypeNone {
		sb.WriteString(" -> ")
		sb.WriteString(string(s.Result))
	}
	return sb.String()
}
