// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Setup failures (missing scripts, unreadable config, no input backend) are
// returned as ActionableError values. Known failure classes also have a
// Markdown page in the catalogue, rendered with glamour by the CLI.
package issue
