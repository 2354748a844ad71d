// SPDX-License-Identifier: MPL-2.0

package input

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// KeyUnicode is a literal character key; the character is Key.Char.
	KeyUnicode KeyCode = iota
	// KeyAlt is the Alt (Option) modifier.
	KeyAlt
	// KeyControl is the Control modifier.
	KeyControl
	// KeyBackspace is the Backspace key.
	KeyBackspace
	// KeyEscape is the Escape key.
	KeyEscape
	// KeyEnter is the Enter (Return) key.
	KeyEnter
)

const (
	// ButtonLeft is the primary mouse button.
	ButtonLeft Button = iota + 1
	// ButtonRight is the secondary mouse button.
	ButtonRight
	// ButtonMiddle is the middle (wheel) mouse button.
	ButtonMiddle
)

const (
	// Click presses and releases. It is the zero value and the default.
	Click Direction = iota
	// Press holds the key or button down.
	Press
	// Release lets the key or button go.
	Release
)

var (
	// ErrUnknownKey is the sentinel error wrapped by UnknownKeyError.
	ErrUnknownKey = errors.New("unrecognized key")
	// ErrUnknownButton is the sentinel error wrapped by UnknownButtonError.
	ErrUnknownButton = errors.New("unrecognized button")

	namedKeys = map[string]KeyCode{
		"alt":       KeyAlt,
		"control":   KeyControl,
		"backspace": KeyBackspace,
		"escape":    KeyEscape,
		"enter":     KeyEnter,
	}

	buttons = map[string]Button{
		"left":   ButtonLeft,
		"right":  ButtonRight,
		"middle": ButtonMiddle,
	}

	directions = map[string]Direction{
		"press":   Press,
		"release": Release,
		"click":   Click,
	}
)

type (
	// KeyCode identifies a named key, or KeyUnicode for literal characters.
	KeyCode int

	// Key is a keyboard key: a named key or a single Unicode character.
	Key struct {
		Code KeyCode
		// Char is set only when Code is KeyUnicode.
		Char rune
	}

	// Button is a mouse button.
	Button int

	// Direction is the press/release/click phase of a key or button event.
	Direction int

	// UnknownKeyError is returned when a key name is not recognized.
	// It wraps ErrUnknownKey for errors.Is() compatibility.
	UnknownKeyError struct {
		Name string
	}

	// UnknownButtonError is returned when a button name is not recognized.
	// It wraps ErrUnknownButton for errors.Is() compatibility.
	UnknownButtonError struct {
		Name string
	}

	// Simulator emits synthetic input through a single OS-level channel.
	// Implementations are not required to be safe for concurrent use;
	// callers serialize access (see package host).
	Simulator interface {
		// Text types s literally.
		Text(s string) error
		// Key emits a keyboard event.
		Key(k Key, d Direction) error
		// Button emits a mouse button event.
		Button(b Button, d Direction) error
	}

	// Factory constructs a Simulator. It is called at most once per run.
	Factory func() (Simulator, error)
)

// Error implements the error interface.
func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unrecognized key %q", e.Name)
}

// Unwrap returns ErrUnknownKey so callers can use errors.Is for programmatic detection.
func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }

// Error implements the error interface.
func (e *UnknownButtonError) Error() string {
	return fmt.Sprintf("unrecognized button %q", e.Name)
}

// Unwrap returns ErrUnknownButton so callers can use errors.Is for programmatic detection.
func (e *UnknownButtonError) Unwrap() error { return ErrUnknownButton }

// CharKey returns the literal key for r.
func CharKey(r rune) Key {
	return Key{Code: KeyUnicode, Char: r}
}

// ParseKey maps a script key name to a Key. A string holding exactly one
// character is that literal character; otherwise the name must be one of
// alt, control, backspace, escape or enter.
func ParseKey(name string) (Key, error) {
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if r != utf8.RuneError || name == string(utf8.RuneError) {
			return CharKey(r), nil
		}
	}
	if code, ok := namedKeys[name]; ok {
		return Key{Code: code}, nil
	}
	return Key{}, &UnknownKeyError{Name: name}
}

// ParseButton maps a script button name to a Button.
func ParseButton(name string) (Button, error) {
	if b, ok := buttons[name]; ok {
		return b, nil
	}
	return 0, &UnknownButtonError{Name: name}
}

// ParseDirection maps a script direction name to a Direction.
// Unrecognized names, including the empty string, yield Click.
func ParseDirection(name string) Direction {
	d, _ := LookupDirection(name)
	return d
}

// LookupDirection is ParseDirection that also reports whether name was recognized.
func LookupDirection(name string) (Direction, bool) {
	d, ok := directions[name]
	if !ok {
		return Click, false
	}
	return d, true
}

// KeyNames returns the recognized named keys in a stable order.
func KeyNames() []string {
	return []string{"alt", "control", "backspace", "escape", "enter"}
}

// ButtonNames returns the recognized button names in a stable order.
func ButtonNames() []string {
	return []string{"left", "right", "middle"}
}

// String returns the script name of the key, or the character itself.
func (k Key) String() string {
	switch k.Code {
	case KeyUnicode:
		return string(k.Char)
	case KeyAlt:
		return "alt"
	case KeyControl:
		return "control"
	case KeyBackspace:
		return "backspace"
	case KeyEscape:
		return "escape"
	case KeyEnter:
		return "enter"
	default:
		return fmt.Sprintf("KeyCode(%d)", int(k.Code))
	}
}

// String returns the script name of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// String returns the script name of the direction.
func (d Direction) String() string {
	switch d {
	case Press:
		return "press"
	case Release:
		return "release"
	case Click:
		return "click"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}
