// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

func startWatcher(t *testing.T, cfg Config) (cancel func() error) {
	t.Helper()

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the event loop time to start.
	time.Sleep(50 * time.Millisecond)

	return func() error {
		stop()
		return <-errCh
	}
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("text hi\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// TestWatcherDebounce verifies that rapid writes are coalesced into a single
// callback naming every changed script.
func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{}, 1)

	stop := startWatcher(t, Config{
		Dir:       dir,
		Extension: "sh",
		Debounce:  100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			select {
			case done <- struct{}{}:
			default:
			}
			return nil
		},
	})

	for _, name := range []string{"a.sh", "b.sh", "c.sh"} {
		writeFile(t, dir, name)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	// Allow a brief settle for any additional spurious callbacks.
	time.Sleep(300 * time.Millisecond)

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	for _, want := range []string{"a", "b", "c"} {
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed scripts, got %v", want, collected)
		}
	}
}

// TestWatcherFiltersNonScripts confirms that only files with the script
// extension trigger the callback.
func TestWatcherFiltersNonScripts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	stop := startWatcher(t, Config{
		Dir:       dir,
		Extension: "sh",
		Debounce:  50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})

	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, ".login.sh.swp")
	writeFile(t, dir, ".hidden.sh")

	// Wait long enough for a debounce cycle to complete.
	time.Sleep(200 * time.Millisecond)

	writeFile(t, dir, "login.sh")

	select {
	case changed := <-fired:
		if !slices.Equal(changed, []string{"login"}) {
			t.Errorf("changed = %v, want [login]", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherRunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Dir: t.TempDir(), Extension: "sh"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if err := w.Run(ctx); err == nil {
		t.Error("second Run() should fail")
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "file.sh")

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing dir", Config{Dir: filepath.Join(dir, "nope"), Extension: "sh"}},
		{"not a dir", Config{Dir: filepath.Join(dir, "file.sh"), Extension: "sh"}},
		{"empty extension", Config{Dir: dir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestScriptName(t *testing.T) {
	t.Parallel()

	w := &Watcher{suffix: ".sh"}

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/s/login.sh", "login", true},
		{"/s/login.sh~", "", false},
		{"/s/.login.sh", "", false},
		{"/s/.sh", "", false},
		{"/s/login.bash", "", false},
	}

	for _, tt := range tests {
		got, ok := w.scriptName(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("scriptName(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}
