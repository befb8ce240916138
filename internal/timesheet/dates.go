// =============================================================================
// TimePro Timesheet - Dates and Periods
// =============================================================================
//
// Column indices of the form grid are day offsets from the period start, so
// every conversion between columns and dates goes through DateSeries.
//
// Named periods (current week, last month, ...) are always resolved against
// an explicit reference date. Only the CLI reads the clock.
//
// =============================================================================

package timesheet

import (
	"fmt"
	"strings"
	"time"
)

// ISODateLayout is the date format used as JSON keys.
const ISODateLayout = "2006-01-02"

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateSeries returns every calendar day from start to end, both inclusive.
// The series is empty when end is before start.
func DateSeries(start, end time.Time) []time.Time {
	start, end = Date(start), Date(end)
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ColumnOf returns the grid column of date within a period starting at start.
func ColumnOf(start, date time.Time) int {
	return int(Date(date).Sub(Date(start)).Hours() / 24)
}

// =============================================================================
// PERIODS
// =============================================================================

// Period is an inclusive date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// String renders the period for log messages.
func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start.Format(ISODateLayout), p.End.Format(ISODateLayout))
}

// PeriodKind names one of the predefined periods of the get command.
type PeriodKind string

const (
	DefaultPeriod PeriodKind = ""
	CurrentWeek   PeriodKind = "current-week"
	LastWeek      PeriodKind = "last-week"
	CurrentMonth  PeriodKind = "current-month"
	LastMonth     PeriodKind = "last-month"
)

// ResolvePeriod returns the dates of a named period relative to today.
//
// On Saturday and Sunday the "current" week is the upcoming one and "last"
// week is the week just been. The default period is this week up to Friday,
// but never reaching back into the previous month.
func ResolvePeriod(kind PeriodKind, today time.Time) (Period, error) {
	today = Date(today)

	weekOffset := 0
	if today.Weekday() == time.Saturday || today.Weekday() == time.Sunday {
		weekOffset = 1
	}

	switch kind {
	case CurrentMonth:
		start := firstOfMonth(today)
		return Period{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case LastMonth:
		start := firstOfMonth(today).AddDate(0, -1, 0)
		return Period{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case CurrentWeek:
		start := mondayOnOrBefore(today).AddDate(0, 0, 7*weekOffset)
		return Period{Start: start, End: fridayOnOrAfter(start)}, nil
	case LastWeek:
		start := mondayOnOrBefore(today).AddDate(0, 0, 7*(weekOffset-1))
		return Period{Start: start, End: fridayOnOrAfter(start)}, nil
	case DefaultPeriod:
		start := mondayOnOrBefore(today)
		if first := firstOfMonth(today); first.After(start) {
			start = first
		}
		return Period{Start: start, End: fridayOnOrAfter(today)}, nil
	default:
		return Period{}, fmt.Errorf("unknown period %q", kind)
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func mondayOnOrBefore(t time.Time) time.Time {
	offset := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	return t.AddDate(0, 0, -offset)
}

func fridayOnOrAfter(t time.Time) time.Time {
	offset := (int(time.Friday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}

// =============================================================================
// DATE PARSING
// =============================================================================

var dateLayouts = []string{
	ISODateLayout,
	FormDateLayout,
	"2-Jan-2006",
	"2006/01/02",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

// ParseDate parses a date given on the command line or as a JSON key.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Date(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}
