// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests: environment and home directory
// overrides that restore themselves, file fixtures, and a manually advanced
// clock for code that waits.
package testutil
