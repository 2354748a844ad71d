// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"context"
	"io"

	"mvdan.cc/sh/v3/interp"
)

type (
	// HandlerContext provides the I/O of the command invoking a native function.
	// This is extracted from mvdan/sh's interp.HandlerCtx.
	HandlerContext struct {
		// Stdout receives the function result.
		Stdout io.Writer
		// Stderr receives catchable error messages.
		Stderr io.Writer
		// Dir is the interpreter's current working directory.
		Dir string
	}

	// handlerContextKey is the context key for storing HandlerContext.
	handlerContextKey struct{}
)

// ExtractHandlerContext extracts the HandlerContext from mvdan/sh's context.
func ExtractHandlerContext(ctx context.Context) *HandlerContext {
	hc := interp.HandlerCtx(ctx)
	return &HandlerContext{
		Stdout: hc.Stdout,
		Stderr: hc.Stderr,
		Dir:    hc.Dir,
	}
}

// WithHandlerContext stores a HandlerContext in the context.
// This is primarily used for calling functions outside the interpreter, e.g. in tests.
func WithHandlerContext(ctx context.Context, hc *HandlerContext) context.Context {
	return context.WithValue(ctx, handlerContextKey{}, hc)
}

// GetHandlerContext retrieves the HandlerContext from the context.
// If the context was created with WithHandlerContext, it returns that value.
// Otherwise, it extracts from mvdan/sh's handler context.
func GetHandlerContext(ctx context.Context) *HandlerContext {
	if hc, ok := ctx.Value(handlerContextKey{}).(*HandlerContext); ok {
		return hc
	}
	hc := ExtractHandlerContext(ctx)
	if hc.Stdout == nil {
		hc.Stdout = io.Discard
	}
	if hc.Stderr == nil {
		hc.Stderr = io.Discard
	}
	return hc
}
