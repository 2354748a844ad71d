// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Namespace is the qualifier under which every function is also reachable
// (e.g., "keebi.exec").
const Namespace = "keebi"

// Registry maps function names to their implementations.
// It is safe for concurrent use and becomes read-only once sealed.
type Registry struct {
	mu        sync.RWMutex
	functions map[string]Function
	sealed    bool
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		functions: make(map[string]Function),
	}
}

// Register adds a function to the registry.
// Panics if the name is empty, qualified, already registered, if the
// signature is invalid, or if the registry is sealed.
func (r *Registry) Register(fn Function) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := fn.Name()
	switch {
	case r.sealed:
		panic(fmt.Sprintf("bridge: cannot register %q: registry is sealed", name))
	case name == "":
		panic("bridge: cannot register function with empty name")
	case strings.Contains(name, "."):
		panic(fmt.Sprintf("bridge: function name %q must not be qualified", name))
	}
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("bridge: function %q already registered", name))
	}
	if err := fn.Signature().Validate(); err != nil {
		panic(fmt.Sprintf("bridge: function %q: invalid signature: %v", name, err))
	}
	r.functions[name] = fn
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Lookup retrieves a function by bare ("key") or qualified ("keebi.key") name.
// Returns nil, false if the function is not registered.
func (r *Registry) Lookup(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if bare, ok := strings.CutPrefix(name, Namespace+"."); ok {
		name = bare
	}
	fn, ok := r.functions[name]
	return fn, ok
}

// Names returns the names of all registered functions in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := maps.Keys(r.functions)
	slices.Sort(names)
	return names
}

// Run executes a function by name after checking the argument count.
// The args slice should include the function name as args[0].
func (r *Registry) Run(ctx context.Context, name string, args []string) error {
	fn, ok := r.Lookup(name)
	if !ok {
		return &Error{Func: name, Kind: KindNotFound, Err: ErrFunctionNotFound}
	}
	return call(ctx, fn, args)
}

// call checks arity against the signature and dispatches.
func call(ctx context.Context, fn Function, args []string) error {
	if len(args) == 0 {
		args = []string{fn.Name()}
	}
	if err := fn.Signature().CheckArity(len(args) - 1); err != nil {
		return &Error{Func: fn.Name(), Kind: KindArity, Err: err}
	}
	return fn.Call(ctx, args)
}
