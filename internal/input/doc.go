// SPDX-License-Identifier: MPL-2.0

// Package input defines the keyboard and mouse vocabulary used by keebi
// scripts and the Simulator interface that OS input backends implement.
//
// Name parsing is deliberately asymmetric: an unrecognized key or button name
// is an error, while an unrecognized direction silently becomes Click.
//
// The Recorder type is an in-memory Simulator used for dry runs and tests.
// The OS backend lives in the robot subpackage.
package input
