// SPDX-License-Identifier: MPL-2.0

package host

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"keebi-cli/internal/input"
)

func TestState_Arg(t *testing.T) {
	t.Parallel()

	args := []string{"hello", "", "wörld", "-v"}
	s := New(args, nil)

	for i, want := range args {
		got, err := s.Arg(int64(i))
		if err != nil {
			t.Fatalf("Arg(%d) unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("Arg(%d) = %q, want %q", i, got, want)
		}
	}

	for _, i := range []int64{-1, int64(len(args)), 100, math.MaxInt64, math.MinInt64} {
		_, err := s.Arg(i)
		if !errors.Is(err, ErrArgOutOfBounds) {
			t.Errorf("Arg(%d) error = %v, want ErrArgOutOfBounds", i, err)
		}
		var aie *ArgIndexError
		if !errors.As(err, &aie) || aie.Index != i || aie.Count != len(args) {
			t.Errorf("Arg(%d) error = %#v, want *ArgIndexError", i, err)
		}
	}
}

func TestState_ArgsIsolatedFromCaller(t *testing.T) {
	t.Parallel()

	args := []string{"a"}
	s := New(args, nil)
	args[0] = "mutated"

	if got, _ := s.Arg(0); got != "a" {
		t.Errorf("Arg(0) = %q, state must not alias caller slice", got)
	}

	copied := s.Args()
	copied[0] = "mutated"
	if got, _ := s.Arg(0); got != "a" {
		t.Errorf("Arg(0) = %q, Args() must return a copy", got)
	}
}

func TestState_WithInput_LazyConstruction(t *testing.T) {
	t.Parallel()

	calls := 0
	rec := input.NewRecorder()
	s := New(nil, func() (input.Simulator, error) {
		calls++
		return rec, nil
	})

	if calls != 0 {
		t.Fatal("factory should not run before first use")
	}

	for range 3 {
		if err := s.WithInput(func(sim input.Simulator) error { return sim.Text("x") }); err != nil {
			t.Fatalf("WithInput() error: %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("factory called %d times, want 1", calls)
	}
	if rec.Typed() != "xxx" {
		t.Errorf("Typed() = %q, want %q", rec.Typed(), "xxx")
	}
}

func TestState_WithInput_ConstructionFailureIsSticky(t *testing.T) {
	t.Parallel()

	calls := 0
	cause := errors.New("no display")
	s := New(nil, func() (input.Simulator, error) {
		calls++
		return nil, cause
	})

	for range 2 {
		err := s.WithInput(func(input.Simulator) error {
			t.Fatal("fn must not run without a simulator")
			return nil
		})
		if !errors.Is(err, ErrUnavailable) || !errors.Is(err, cause) {
			t.Errorf("WithInput() error = %v, want ErrUnavailable wrapping cause", err)
		}
	}
	if calls != 1 {
		t.Errorf("factory called %d times, want 1", calls)
	}
}

func TestState_WithInput_NilFactory(t *testing.T) {
	t.Parallel()

	s := New(nil, nil)
	if err := s.WithInput(func(input.Simulator) error { return nil }); !errors.Is(err, ErrUnavailable) {
		t.Errorf("WithInput() error = %v, want ErrUnavailable", err)
	}
}

func TestState_WithInput_ErrorFailsOnlyTheCall(t *testing.T) {
	t.Parallel()

	rec := input.NewRecorder()
	s := New(nil, input.RecorderFactory(rec))
	boom := errors.New("boom")

	if err := s.WithInput(func(input.Simulator) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("WithInput() error = %v, want %v", err, boom)
	}
	if s.Poisoned() {
		t.Fatal("an ordinary error must not poison the state")
	}
	if err := s.WithInput(func(sim input.Simulator) error { return sim.Text("ok") }); err != nil {
		t.Fatalf("WithInput() after error: %v", err)
	}
	if rec.Typed() != "ok" {
		t.Errorf("Typed() = %q, want %q", rec.Typed(), "ok")
	}
}

func TestState_WithInput_PanicPoisons(t *testing.T) {
	t.Parallel()

	rec := input.NewRecorder()
	s := New(nil, input.RecorderFactory(rec))

	err := s.WithInput(func(input.Simulator) error { panic("driver exploded") })
	var perr *PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("WithInput() error = %v, want *PanicError", err)
	}
	if !strings.Contains(err.Error(), "driver exploded") {
		t.Errorf("panic error should mention panic value: %v", err)
	}
	if !s.Poisoned() {
		t.Fatal("state should be poisoned after panic")
	}

	// The lock must have been released: this call would deadlock otherwise.
	called := false
	err = s.WithInput(func(input.Simulator) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrPoisoned) {
		t.Errorf("WithInput() after panic error = %v, want ErrPoisoned", err)
	}
	if called {
		t.Error("poisoned state must not run fn")
	}
}

func TestState_WithInput_SerializesCallers(t *testing.T) {
	t.Parallel()

	rec := input.NewRecorder()
	s := New(nil, input.RecorderFactory(rec))

	words := []string{"aaaa", "bbbb", "cccc", "dddd", "eeee", "ffff", "gggg", "hhhh"}

	var wg sync.WaitGroup
	for _, w := range words {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.WithInput(func(sim input.Simulator) error { return sim.Text(w) }); err != nil {
				t.Errorf("WithInput(%q) error: %v", w, err)
			}
		}()
	}
	wg.Wait()

	typed := rec.Typed()
	if len(typed) != 4*len(words) {
		t.Fatalf("Typed() length = %d, want %d", len(typed), 4*len(words))
	}
	for i := 0; i < len(typed); i += 4 {
		chunk := typed[i : i+4]
		if strings.Count(chunk, chunk[:1]) != 4 {
			t.Errorf("text interleaved: chunk %q in %q", chunk, typed)
		}
	}
}

func TestState_Close(t *testing.T) {
	t.Parallel()

	s := New(nil, input.RecorderFactory(input.NewRecorder()))
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if err := s.WithInput(func(input.Simulator) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("WithInput() after Close error = %v, want ErrClosed", err)
	}
}
