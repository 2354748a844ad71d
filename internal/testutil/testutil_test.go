// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestMustSetenv_Restores(t *testing.T) {
	const key = "KEEBI_TESTUTIL_VAR"

	restoreOuter := MustUnsetenv(t, key)
	defer restoreOuter()

	restore := MustSetenv(t, key, "value")
	if got := os.Getenv(key); got != "value" {
		t.Fatalf("Getenv = %q, want %q", got, "value")
	}
	restore()

	if _, ok := os.LookupEnv(key); ok {
		t.Error("variable should be unset after restore")
	}
}

func TestSetHomeDir(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(SetHomeDir(t, dir))

	key := "HOME"
	if runtime.GOOS == "windows" {
		key = "USERPROFILE"
	}
	if got := os.Getenv(key); got != dir {
		t.Errorf("%s = %q, want %q", key, got, dir)
	}
}

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	path := MustWriteFile(t, dir, "a.sh", "text hi\n")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "text hi\n" {
		t.Errorf("content = %q", data)
	}
}

func TestFakeClock_After(t *testing.T) {
	t.Parallel()

	c := NewFakeClock()
	start := c.Now()

	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) should fire immediately")
	}

	ch := c.After(time.Minute)
	if c.Waiters() != 1 {
		t.Fatalf("Waiters() = %d, want 1", c.Waiters())
	}

	c.Advance(30 * time.Second)
	select {
	case <-ch:
		t.Fatal("fired before the deadline")
	default:
	}

	c.Advance(30 * time.Second)
	select {
	case got := <-ch:
		if want := start.Add(time.Minute); !got.Equal(want) {
			t.Errorf("fired at %v, want %v", got, want)
		}
	default:
		t.Fatal("did not fire at the deadline")
	}
	if c.Waiters() != 0 {
		t.Errorf("Waiters() = %d after firing, want 0", c.Waiters())
	}
}

func TestFakeClock_BlockUntil(t *testing.T) {
	t.Parallel()

	c := NewFakeClock()
	if c.BlockUntil(1, 10*time.Millisecond) {
		t.Error("BlockUntil should time out with no waiters")
	}

	go c.After(time.Hour)
	if !c.BlockUntil(1, 5*time.Second) {
		t.Error("BlockUntil should see the pending waiter")
	}
}
