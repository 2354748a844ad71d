// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidScriptName is the sentinel error wrapped by InvalidScriptNameError.
var ErrInvalidScriptName = errors.New("invalid script name")

type (
	// InvalidScriptNameError is returned when a script name cannot name a file
	// in the scripts directory. It wraps ErrInvalidScriptName.
	InvalidScriptNameError struct {
		Name   string
		Reason string
	}
)

// windowsReservedNames are filenames that cannot be used on Windows,
// regardless of extension.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Error implements the error interface.
func (e *InvalidScriptNameError) Error() string {
	return fmt.Sprintf("invalid script name %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidScriptName so callers can use errors.Is.
func (e *InvalidScriptNameError) Unwrap() error { return ErrInvalidScriptName }

// IsWindowsReservedName checks if a filename is a Windows reserved name.
// Only the part before the last dot is considered.
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return windowsReservedNames[upper]
}

// ValidateScriptName rejects names that would escape the scripts directory
// or that some platform cannot store. The check is the same on every OS so
// that script collections stay portable.
func ValidateScriptName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &InvalidScriptNameError{Name: name, Reason: "name is empty"}
	case strings.ContainsAny(name, `/\`):
		return &InvalidScriptNameError{Name: name, Reason: "name must not contain path separators"}
	case name == "." || name == "..":
		return &InvalidScriptNameError{Name: name, Reason: "name must not be a relative directory"}
	case strings.ContainsRune(name, 0):
		return &InvalidScriptNameError{Name: name, Reason: "name must not contain NUL"}
	case IsWindowsReservedName(name):
		return &InvalidScriptNameError{Name: name, Reason: "name is reserved on Windows"}
	}
	return nil
}
