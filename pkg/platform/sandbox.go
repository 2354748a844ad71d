// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"runtime"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
//
// INVARIANT: detectSandboxFrom MUST NOT panic; sync.OnceValue would re-panic
// on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the type of application sandbox the current process is running in.
// The result is cached after the first call.
//
// Detection methods:
//   - Flatpak: Checks for existence of /.flatpak-info
//   - Snap: Checks for SNAP_NAME environment variable
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostShell returns the argv prefix that runs a single command string with
// the platform command interpreter, escaping the current sandbox if any.
func HostShell() []string {
	return HostShellFor(runtime.GOOS, DetectSandbox())
}

// HostShellFor is the pure form of HostShell: cmd /C on Windows, sh -c
// elsewhere, prefixed with the sandbox spawn command when sandboxed.
func HostShellFor(goos string, st SandboxType) []string {
	if goos == Windows {
		return []string{"cmd", "/C"}
	}
	return append(SpawnArgsFor(st), "sh", "-c")
}

// SpawnArgsFor returns the command prefix that runs a program on the host
// from inside the given sandbox. It returns nil when not sandboxed.
func SpawnArgsFor(st SandboxType) []string {
	switch st {
	case SandboxFlatpak:
		return []string{"flatpak-spawn", "--host"}
	case SandboxSnap:
		return []string{"snap", "run", "--shell"}
	default:
		return nil
	}
}

// detectSandboxFrom performs sandbox detection using the provided lookup functions.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// Flatpak takes precedence; /.flatpak-info is always present inside it.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}

	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}

	return SandboxNone
}

// statFile is the production adapter for detectSandboxFrom.
func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
