// SPDX-License-Identifier: MPL-2.0

//go:build !cgo

package robot

import (
	"fmt"

	"keebi-cli/internal/input"
)

// New always fails: robotgo needs cgo.
func New() (input.Simulator, error) {
	return nil, fmt.Errorf("%w: keebi was built without cgo", ErrUnavailable)
}
