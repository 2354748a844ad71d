// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// errInterrupted marks a blocking call cut short by run cancellation.
var errInterrupted = errors.New("interrupted")

// parseIndex converts an integer word. Negative values are returned as-is;
// the bounds check belongs to host.State.Arg.
func parseIndex(fn, param, word string) (int64, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(word), 10, 64)
	if err != nil {
		return 0, &Error{Func: fn, Kind: KindArgument, Err: fmt.Errorf("%s: invalid integer %q", param, word)}
	}
	return i, nil
}

// parseFloat converts a floating-point word. NaN and infinities are accepted
// here; callers decide whether they make sense.
func parseFloat(fn, param, word string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(word), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, nil
		}
		return 0, &Error{Func: fn, Kind: KindArgument, Err: fmt.Errorf("%s: invalid number %q", param, word)}
	}
	return f, nil
}

// secondsToDuration converts fractional seconds. Negative and NaN values
// become zero; values beyond the largest Duration (including +Inf) saturate.
func secondsToDuration(sec float64) time.Duration {
	if math.IsNaN(sec) || sec <= 0 {
		return 0
	}
	ns := sec * float64(time.Second)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}

// formatFloat renders a float result so that parsing it back is exact.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// optionalArg returns args[i] or "" when the optional parameter was omitted.
func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// writeResult writes a function result without a trailing newline. A write
// failure, such as a closed pipe, is catchable.
func writeResult(fn string, w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return &Error{Func: fn, Kind: KindOutput, Err: fmt.Errorf("write result: %w", err)}
	}
	return nil
}
