// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the keebi configuration directory
// ($XDG_CONFIG_HOME/keebi on Linux, ~/Library/Application Support/keebi on
// macOS, %APPDATA%\keebi on Windows). The file is validated against the
// embedded schema (config_schema.cue) before being merged over the defaults.
// Environment variables prefixed with KEEBI_ (e.g. KEEBI_LOG_LEVEL) override
// both.
package config
