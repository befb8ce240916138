package timesheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrTimeFormat is returned for time values that are neither decimal hours
// ("7.5") nor "HH:MM" ("7:30").
var ErrTimeFormat = errors.New("expected time in the format hh:mm or hh.h")

// ParseHours converts a FinishTime value to decimal hours. The empty string
// is zero hours.
func ParseHours(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	switch strings.Count(value, ":") {
	case 0:
		if hours, ok := parseNumber(value); ok {
			return hours, nil
		}
	case 1:
		h, m, _ := strings.Cut(value, ":")
		hours, ok := parseNumber(h)
		if !ok {
			break
		}
		if minutes, ok := parseNumber(m); ok {
			return hours + minutes/60, nil
		}
	}
	return 0, fmt.Errorf("%w; got %q", ErrTimeFormat, value)
}

// parseNumber parses a finite float. NaN and infinities cannot be booked
// or encoded as JSON.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatHours renders hours for a FinishTime field. Zero is the empty
// string, which is how the entry screen shows a day without time.
func FormatHours(hours float64) string {
	if hours <= 0 {
		return ""
	}
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
