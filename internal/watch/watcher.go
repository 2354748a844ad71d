// SPDX-License-Identifier: MPL-2.0

// Package watch reports script files that change on disk.
//
// A Watcher observes one scripts directory and invokes a callback after a
// quiet period. Events within the debounce window are coalesced so the
// callback fires once with every script that changed.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce absorbs editors that write a temp file and rename it.
const defaultDebounce = 300 * time.Millisecond

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dir is the scripts directory. It is not watched recursively.
		Dir string

		// Extension selects the files that count as scripts, without the dot.
		Extension string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted script names (file names without the
		// extension) that changed. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. Defaults to a discarding logger.
		Logger *log.Logger
	}

	// Watcher monitors a scripts directory. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		logger   *log.Logger
		suffix   string
		debounce time.Duration
		started  atomic.Bool
	}
)

// New creates a Watcher for cfg.Dir. The directory must exist.
func New(cfg Config) (*Watcher, error) {
	if cfg.Extension == "" {
		return nil, errors.New("watch: empty script extension")
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", cfg.Dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("watch: add directory %q: %w", cfg.Dir, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		logger:   logger,
		suffix:   "." + cfg.Extension,
		debounce: debounce,
	}, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation. Callbacks never overlap; changes that arrive
// while one is running are delivered by the next.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch callback failed", "error", err)
			}
		}
	}

	schedule := func(names ...string) {
		mu.Lock()
		defer mu.Unlock()
		for _, n := range names {
			pending[n] = struct{}{}
		}
		if timer == nil {
			timer = time.AfterFunc(w.debounce, fire)
		} else {
			timer.Reset(w.debounce)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("failed to close watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			name, ok := w.scriptName(evt.Name)
			if !ok {
				continue
			}
			w.logger.Debug("script changed", "script", name, "op", evt.Op.String())
			schedule(name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// Events were dropped; treat every script as changed.
				w.logger.Warn("watch events overflowed, rescanning", "dir", w.cfg.Dir)
				schedule(w.allScripts()...)
				continue
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// scriptName maps an event path to a script name. Hidden files are
// skipped, which covers most editor swap and backup files.
func (w *Watcher) scriptName(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return "", false
	}
	name, ok := strings.CutSuffix(base, w.suffix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func (w *Watcher) allScripts() []string {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		w.logger.Warn("rescan failed", "error", err)
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := w.scriptName(e.Name()); ok {
			names = append(names, name)
		}
	}
	return names
}
