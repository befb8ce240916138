// =============================================================================
// TimePro Timesheet - Field Codec
// =============================================================================
//
// Converts between the flat grid of form fields and one RowEntry per
// timesheet line.
//
//   Decode: Fields -> []RowEntry   (hours and descriptions ordered by column)
//   Encode: []RowEntry -> Fields   (rows renumbered 0..n-1)
//
// A row without customer and project, or without any hours, is empty and
// never leaves Decode. Encode numbers rows by their position, so the row
// numbers the server sees are always dense.
//
// =============================================================================

package timesheet

import (
	"fmt"
	"sort"
	"time"
)

// RowEntry is a single line of the timesheet.
type RowEntry struct {
	// Row is the grid row the entry was decoded from.
	Row int

	Customer string
	Project  string
	Task     string

	// Hours holds one value per column present, ordered by column.
	Hours []float64

	// Descriptions holds one value per Description column present,
	// ordered by column.
	Descriptions []string
}

// TotalHours sums the hours of every column.
func (r RowEntry) TotalHours() float64 {
	var total float64
	for _, h := range r.Hours {
		total += h
	}
	return total
}

// IsEmpty reports whether the row carries nothing worth submitting.
func (r RowEntry) IsEmpty() bool {
	return (r.Customer == "" && r.Project == "") || r.TotalHours() == 0
}

type cell struct {
	column int
	value  string
}

type rowBuilder struct {
	customer     string
	customerCode string
	project      string
	task         string
	times        []cell
	descriptions []cell
}

// Decode groups grid fields by row. Hours and descriptions are ordered by
// column index. Empty rows are dropped; the remaining rows are returned in
// row order. A FinishTime value that is not a valid time fails with
// ErrTimeFormat.
func Decode(fields Fields) ([]RowEntry, error) {
	builders := make(map[int]*rowBuilder)

	for _, k := range fields.Keys() {
		v := fields[k]
		b, ok := builders[k.Row]
		if !ok {
			b = &rowBuilder{}
			builders[k.Row] = b
		}

		// Keys are sorted by column, so the first value seen for a row-level
		// attribute is the one from the lowest column.
		switch k.Type {
		case Customer:
			if b.customer == "" {
				b.customer = v
			}
		case CustomerCode:
			if b.customerCode == "" {
				b.customerCode = v
			}
		case Project:
			if b.project == "" {
				b.project = v
			}
		case Task:
			if b.task == "" {
				b.task = v
			}
		case FinishTime:
			b.times = append(b.times, cell{column: k.Column, value: v})
		case Description:
			b.descriptions = append(b.descriptions, cell{column: k.Column, value: v})
		}
	}

	rowIDs := make([]int, 0, len(builders))
	for id := range builders {
		rowIDs = append(rowIDs, id)
	}
	sort.Ints(rowIDs)

	var rows []RowEntry
	for _, id := range rowIDs {
		b := builders[id]

		entry := RowEntry{
			Row:      id,
			Customer: b.customer,
			Project:  b.project,
			Task:     b.task,
		}
		if entry.Customer == "" {
			entry.Customer = b.customerCode
		}

		sortCells(b.times)
		for _, c := range b.times {
			hours, err := ParseHours(c.value)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", id, c.column, err)
			}
			entry.Hours = append(entry.Hours, hours)
		}

		sortCells(b.descriptions)
		for _, c := range b.descriptions {
			entry.Descriptions = append(entry.Descriptions, c.value)
		}

		if entry.IsEmpty() {
			continue
		}
		rows = append(rows, entry)
	}

	return rows, nil
}

func sortCells(cells []cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i].column < cells[j].column })
}

// Encode renders rows as grid fields for the period start..end. Rows are
// numbered by their position in the slice. Row-level values go on column 0;
// hours and descriptions are emitted for every day of the period, missing
// values as empty strings.
func Encode(rows []RowEntry, start, end time.Time) Fields {
	columns := len(DateSeries(start, end))
	fields := make(Fields)

	for i, r := range rows {
		fields[Key(Customer, i, 0)] = r.Customer
		fields[Key(CustomerCode, i, 0)] = r.Customer
		fields[Key(Project, i, 0)] = r.Project
		fields[Key(Task, i, 0)] = r.Task

		for c := 0; c < columns; c++ {
			var hours float64
			if c < len(r.Hours) {
				hours = r.Hours[c]
			}
			var description string
			if c < len(r.Descriptions) {
				description = r.Descriptions[c]
			}
			fields[Key(FinishTime, i, c)] = FormatHours(hours)
			fields[Key(Description, i, c)] = description
		}
	}

	return fields
}
