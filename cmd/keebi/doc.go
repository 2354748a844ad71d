// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the keebi command line.
//
// The root command runs a script by name; subcommands check, list and
// describe scripts, list the native functions, and manage the config file.
package cmd
