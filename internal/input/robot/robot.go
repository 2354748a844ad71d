// SPDX-License-Identifier: MPL-2.0

//go:build cgo

package robot

import (
	"fmt"
	"os"
	"runtime"

	"keebi-cli/internal/input"
	"keebi-cli/pkg/platform"

	"github.com/go-vgo/robotgo"
)

// Simulator emits input through robotgo.
type Simulator struct{}

var _ input.Simulator = (*Simulator)(nil)

// New creates a robotgo-backed Simulator. On Linux it requires an X11
// display (robotgo drives XTest).
func New() (input.Simulator, error) {
	if runtime.GOOS == platform.Linux && os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("%w: DISPLAY is not set", ErrUnavailable)
	}
	return &Simulator{}, nil
}

// Text types s literally.
func (s *Simulator) Text(text string) error {
	robotgo.TypeStr(text)
	return nil
}

// Key emits a keyboard event.
func (s *Simulator) Key(k input.Key, d input.Direction) error {
	name, err := keyName(k)
	if err != nil {
		return err
	}

	switch d {
	case input.Press:
		return robotgo.KeyToggle(name, "down")
	case input.Release:
		return robotgo.KeyToggle(name, "up")
	default:
		if k.Code == input.KeyUnicode && !isTappable(k.Char) {
			robotgo.UnicodeType(uint32(k.Char))
			return nil
		}
		return robotgo.KeyTap(name)
	}
}

// Button emits a mouse button event.
func (s *Simulator) Button(b input.Button, d input.Direction) error {
	name := b.String()

	switch d {
	case input.Press:
		return robotgo.Toggle(name)
	case input.Release:
		return robotgo.Toggle(name, "up")
	default:
		if err := robotgo.Toggle(name); err != nil {
			return err
		}
		return robotgo.Toggle(name, "up")
	}
}

// keyName translates a Key into robotgo's key vocabulary.
func keyName(k input.Key) (string, error) {
	switch k.Code {
	case input.KeyUnicode:
		return string(k.Char), nil
	case input.KeyAlt:
		return "alt", nil
	case input.KeyControl:
		return "ctrl", nil
	case input.KeyBackspace:
		return "backspace", nil
	case input.KeyEscape:
		return "esc", nil
	case input.KeyEnter:
		return "enter", nil
	default:
		return "", fmt.Errorf("robot: no mapping for %s", k)
	}
}

// isTappable reports whether robotgo has a key code for r. Anything else is
// typed as a Unicode code point.
func isTappable(r rune) bool {
	return r < 0x80
}
