// =============================================================================
// TimePro Timesheet - Form Fields
// =============================================================================
//
// The TimePro entry screen is one big HTML form. Every cell of the timesheet
// grid is an input named "<EntryType>_<row>_<column>", for example
// "FinishTime_2_4" holds the hours of line 2 on the fifth day of the period.
//
// This file turns those names into explicit FieldKey records so the rest of
// the package never has to deal with string patterns. Names that do not
// follow the convention are simply not grid fields.
//
// =============================================================================

package timesheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EntryType is the leading part of a grid field name.
type EntryType string

const (
	Customer     EntryType = "Customer"
	CustomerCode EntryType = "CustomerCode"
	Project      EntryType = "Project"
	Task         EntryType = "Task"
	Description  EntryType = "Description"
	FinishTime   EntryType = "FinishTime"

	// PBatch and SBatch are never read, but the server rejects a submission
	// where a FinishTime cell lacks them.
	PBatch EntryType = "PBatch"
	SBatch EntryType = "SBatch"
)

// FormDateLayout is the date format of the StartDate/EndDate form fields.
const FormDateLayout = "02-Jan-2006"

// FieldKey identifies a single cell of the timesheet grid.
type FieldKey struct {
	Type   EntryType
	Row    int
	Column int
}

// Key builds a FieldKey.
func Key(t EntryType, row, column int) FieldKey {
	return FieldKey{Type: t, Row: row, Column: column}
}

// String returns the form field name, e.g. "FinishTime_0_3".
func (k FieldKey) String() string {
	return fmt.Sprintf("%s_%d_%d", k.Type, k.Row, k.Column)
}

// ParseFieldKey parses a form field name. The second return value is false
// for any name that is not "<word>_<row>_<column>" with non-negative
// integer row and column.
func ParseFieldKey(name string) (FieldKey, bool) {
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return FieldKey{}, false
	}

	// The entry type itself may contain underscores; row and column are
	// always the last two segments.
	n := len(parts)
	entryType := strings.Join(parts[:n-2], "_")
	if entryType == "" || !isWord(entryType) {
		return FieldKey{}, false
	}

	row, ok := parseIndex(parts[n-2])
	if !ok {
		return FieldKey{}, false
	}
	column, ok := parseIndex(parts[n-1])
	if !ok {
		return FieldKey{}, false
	}

	return FieldKey{Type: EntryType(entryType), Row: row, Column: column}, true
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isWord(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// =============================================================================
// FIELDS
// =============================================================================

// Fields holds the grid cells of a form.
type Fields map[FieldKey]string

// Clone returns a copy of the fields.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Keys returns the field keys ordered by row, column and type.
func (f Fields) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Type < b.Type
	})
	return keys
}

// Backfill adds empty Description, PBatch and SBatch cells next to every
// FinishTime cell that lacks them. Read-only timesheets do not render these
// inputs but the server requires them on submission.
func (f Fields) Backfill() {
	for k := range f {
		if k.Type != FinishTime {
			continue
		}
		for _, t := range []EntryType{Description, PBatch, SBatch} {
			sibling := Key(t, k.Row, k.Column)
			if _, ok := f[sibling]; !ok {
				f[sibling] = ""
			}
		}
	}
}

// =============================================================================
// FORM
// =============================================================================

// Form is the timesheet form of a single period.
type Form struct {
	StartDate time.Time
	EndDate   time.Time
	Fields    Fields
}
