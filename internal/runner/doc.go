// SPDX-License-Identifier: MPL-2.0

// Package runner loads, compiles and runs keebi scripts.
//
// A script is a POSIX shell file executed by the embedded mvdan.cc/sh
// interpreter. Each run gets a fresh host.State and bridge.Bridge; native
// functions are reached through the interpreter's exec handler. Compile
// failures, fatal native-function failures and non-zero script exits all
// surface as a single error from Run.
package runner
