// SPDX-License-Identifier: MPL-2.0

// Package bridge exposes keebi's native functions to scripts running in the
// embedded mvdan/sh interpreter.
//
// Every native function is a command. The Bridge's exec handler intercepts
// commands whose name is registered and falls back to the next handler (host
// binaries) for everything else. Results are written to the command's
// standard output without a trailing newline, so scripts capture them with
// command substitution:
//
//	name=$(arg 0)
//	key a press
//	key a release
//	text "hello $name"
//	sleep 0.25
//	out=$(keebi.exec "date +%s")
//
// Each function is also available as keebi.<name>. exec is a shell builtin in
// the interpreter, so scripts must spell it keebi.exec.
//
// # Functions
//
//   - arg INDEX: the script argument at INDEX
//   - sleep SECONDS: block for a fractional number of seconds
//   - keebi.exec COMMAND: run COMMAND with the host shell, print its stdout
//   - rand_range MIN MAX: a uniform float in [MIN, MAX)
//   - rand_char: one uniformly drawn Unicode scalar value
//   - text TEXT: type TEXT
//   - button NAME [DIRECTION]: left, right or middle; press, release or click
//   - key NAME [DIRECTION]: a single character or alt, control, backspace,
//     escape, enter; press, release or click
//
// An unrecognized direction is treated as click. An unrecognized key or
// button name is an error.
//
// # Error Format
//
// Errors are prefixed with "[keebi]" and the function name:
//
//	[keebi] key: unrecognized key "shift"
//	[keebi] arg: argument index 3 out of bounds (1 arguments)
//
// Most errors are catchable: the message is written to the script's standard
// error and the command exits with a non-zero status, so "key x || ..." works
// and, with errexit, an uncaught failure ends the script. Failures of the
// input simulator itself are fatal and halt the interpreter immediately.
package bridge
