// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride lets tests pin the config directory, since
// os.UserHomeDir() does not follow HOME on every platform.
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
