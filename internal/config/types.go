// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// LogLevelDebug logs every native call.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only errors.
	LogLevelError LogLevel = "error"

	// DefaultScriptExtension is the file extension of scripts.
	DefaultScriptExtension = "sh"
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidScriptExtension is the sentinel error wrapped by InvalidScriptExtensionError.
	ErrInvalidScriptExtension = errors.New("invalid script extension")
	// ErrInvalidShell is the sentinel error wrapped by InvalidShellError.
	ErrInvalidShell = errors.New("invalid shell")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of log output.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidScriptExtensionError is returned when the script extension
	// contains a dot or a path separator.
	InvalidScriptExtensionError struct {
		Value string
	}

	// InvalidShellError is returned when shell arguments are set without a command.
	InvalidShellError struct {
		Args []string
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the keebi configuration.
	Config struct {
		Scripts ScriptsConfig `json:"scripts" mapstructure:"scripts"`
		Script  ScriptConfig  `json:"script" mapstructure:"script"`
		Shell   ShellConfig   `json:"shell" mapstructure:"shell"`
		Log     LogConfig     `json:"log" mapstructure:"log"`
		Input   InputConfig   `json:"input" mapstructure:"input"`

		// Source is the file the configuration was loaded from, empty when
		// only defaults apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// ScriptsConfig locates script files.
	ScriptsConfig struct {
		// Dir is the scripts directory. Empty means the config directory.
		Dir string `json:"dir" mapstructure:"dir"`
		// Extension is appended to script names, without the dot.
		Extension string `json:"extension" mapstructure:"extension"`
	}

	// ScriptConfig controls how scripts run.
	ScriptConfig struct {
		// ErrExit stops a script at the first failing command.
		ErrExit bool `json:"errexit" mapstructure:"errexit"`
	}

	// ShellConfig selects the command interpreter for keebi.exec.
	ShellConfig struct {
		// Command is the interpreter binary. Empty means the platform default.
		Command string `json:"command" mapstructure:"command"`
		// Args precede the command string (e.g. ["-c"]).
		Args []string `json:"args" mapstructure:"args"`
	}

	// LogConfig controls diagnostics.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// InputConfig controls the input backend.
	InputConfig struct {
		// DryRun records input events instead of sending them.
		DryRun bool `json:"dry_run" mapstructure:"dry_run"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Scripts: ScriptsConfig{Extension: DefaultScriptExtension},
		Script:  ScriptConfig{ErrExit: true},
		Shell:   ShellConfig{Args: []string{}},
		Log:     LogConfig{Level: LogLevelInfo},
	}
}

// ScriptsDir resolves the scripts directory: the configured one (with a
// leading ~ expanded) or the config directory.
func (c *Config) ScriptsDir() (string, error) {
	dir := c.Scripts.Dir
	if dir == "" {
		return ConfigDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir, nil
}

// ShellArgv returns the argv prefix for keebi.exec, or nil for the platform default.
func (c *Config) ShellArgv() []string {
	if c.Shell.Command == "" {
		return nil
	}
	return append([]string{c.Shell.Command}, c.Shell.Args...)
}

// IsValid returns whether the Config has valid fields.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if ext := c.Scripts.Extension; ext == "" || strings.ContainsAny(ext, `./\`) {
		errs = append(errs, &InvalidScriptExtensionError{Value: ext})
	}
	if c.Shell.Command == "" && len(c.Shell.Args) > 0 {
		errs = append(errs, &InvalidShellError{Args: c.Shell.Args})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Error implements the error interface for InvalidScriptExtensionError.
func (e *InvalidScriptExtensionError) Error() string {
	return fmt.Sprintf("invalid script extension %q: must be non-empty without dots or separators", e.Value)
}

// Unwrap returns ErrInvalidScriptExtension for errors.Is() compatibility.
func (e *InvalidScriptExtensionError) Unwrap() error { return ErrInvalidScriptExtension }

// Error implements the error interface for InvalidShellError.
func (e *InvalidShellError) Error() string {
	return fmt.Sprintf("invalid shell: args %q set without a command", e.Args)
}

// Unwrap returns ErrInvalidShell for errors.Is() compatibility.
func (e *InvalidShellError) Unwrap() error { return ErrInvalidShell }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
