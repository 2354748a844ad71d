// SPDX-License-Identifier: MPL-2.0

package input

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

const (
	// EventText is a literal text character.
	EventText EventKind = iota + 1
	// EventKey is a keyboard key event.
	EventKey
	// EventButton is a mouse button event.
	EventButton
)

type (
	// EventKind distinguishes recorded events.
	EventKind int

	// Event is one recorded input event.
	Event struct {
		Kind      EventKind
		Text      string
		Key       Key
		Button    Button
		Direction Direction
	}

	// Recorder is a Simulator that records events in memory instead of
	// touching the OS. Text is recorded one character per event so that
	// unsynchronized concurrent callers would visibly interleave.
	Recorder struct {
		// OnEvent, when set, is called before every Text, Key and Button
		// call. A non-nil error aborts the call and is returned to the caller.
		OnEvent func(Event) error

		mu     sync.Mutex
		events []Event
	}
)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecorderFactory returns a Factory that always yields rec.
func RecorderFactory(rec *Recorder) Factory {
	return func() (Simulator, error) {
		return rec, nil
	}
}

// Text records each character of s as a separate EventText.
func (r *Recorder) Text(s string) error {
	if err := r.notify(Event{Kind: EventText, Text: s}); err != nil {
		return err
	}
	for _, ch := range s {
		r.append(Event{Kind: EventText, Text: string(ch)})
		runtime.Gosched()
	}
	return nil
}

// Key records a key event.
func (r *Recorder) Key(k Key, d Direction) error {
	ev := Event{Kind: EventKey, Key: k, Direction: d}
	if err := r.notify(ev); err != nil {
		return err
	}
	r.append(ev)
	return nil
}

// Button records a mouse button event.
func (r *Recorder) Button(b Button, d Direction) error {
	ev := Event{Kind: EventButton, Button: b, Direction: d}
	if err := r.notify(ev); err != nil {
		return err
	}
	r.append(ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Typed returns the concatenation of all recorded text characters.
func (r *Recorder) Typed() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	for _, ev := range r.events {
		if ev.Kind == EventText {
			sb.WriteString(ev.Text)
		}
	}
	return sb.String()
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder) notify(ev Event) error {
	if r.OnEvent == nil {
		return nil
	}
	return r.OnEvent(ev)
}

func (r *Recorder) append(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// String renders the event the way a script would have written it.
func (e Event) String() string {
	switch e.Kind {
	case EventText:
		return fmt.Sprintf("text %q", e.Text)
	case EventKey:
		return fmt.Sprintf("key %s %s", e.Key, e.Direction)
	case EventButton:
		return fmt.Sprintf("button %s %s", e.Button, e.Direction)
	default:
		return fmt.Sprintf("EventKind(%d)", int(e.Kind))
	}
}
