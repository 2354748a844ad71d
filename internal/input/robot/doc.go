// SPDX-License-Identifier: MPL-2.0

// Package robot provides the OS input.Simulator backed by robotgo.
//
// robotgo requires cgo (CoreGraphics on macOS, X11/XTest on Linux,
// user32 on Windows). Builds without cgo get a stub whose constructor
// always fails with ErrUnavailable, so a script run fails at the first
// input call instead of at link time.
package robot

import "errors"

// ErrUnavailable is returned by New when no input backend can be used.
var ErrUnavailable = errors.New("input simulation unavailable")
