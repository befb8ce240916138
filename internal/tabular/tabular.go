// =============================================================================
// TimePro Timesheet - Tabular IO
// =============================================================================
//
// This module moves date entries in and out of files. Three formats are
// supported, all carrying the same information:
//
//   - JSON : { "YYYY-MM-DD": [ {line item}, ... ] }  (the get/post format)
//   - CSV  : one line item per row, gocsv
//   - XLSX : one line item per row on the "Timesheet" sheet, excelize
//
// CSV and XLSX share one column layout:
//
//   | date | customer_code | customer_description | project_code |
//   | project_psid | project_description | task_id | task_description |
//   | hours | description |
//
// Flat formats have no row for a date without items, so such dates are
// dropped on export.
//
// =============================================================================

package tabular

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"

	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

// Format is a file format for date entries.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Header is the column layout of CSV and XLSX files.
var Header = []string{
	"date",
	"customer_code",
	"customer_description",
	"project_code",
	"project_psid",
	"project_description",
	"task_id",
	"task_description",
	"hours",
	"description",
}

// ParseFormat accepts "json", "csv" or "xlsx", in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json, csv or xlsx)", s)
	}
}

// FormatFromPath picks the format from the file extension. Anything that is
// not .csv or .xlsx is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatJSON
	}
}

// Extension returns the file extension of f, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

// =============================================================================
// RECORDS
// =============================================================================

// Record is one line item together with its date, as one CSV or XLSX row.
type Record struct {
	Date                string  `csv:"date"`
	CustomerCode        string  `csv:"customer_code"`
	CustomerDescription string  `csv:"customer_description"`
	ProjectCode         string  `csv:"project_code"`
	ProjectPSID         string  `csv:"project_psid"`
	ProjectDescription  string  `csv:"project_description"`
	TaskID              string  `csv:"task_id"`
	TaskDescription     string  `csv:"task_description"`
	Hours               Hours   `csv:"hours"`
	Description         string  `csv:"description"`
}

// Hours is the hours column. It reads decimal hours or "h:mm" like the
// entry screen and writes decimal hours.
type Hours float64

// MarshalCSV implements gocsv.TypeMarshaller.
func (h Hours) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(h), 'f', -1, 64), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (h *Hours) UnmarshalCSV(s string) error {
	v, err := timesheet.ParseHours(s)
	if err != nil {
		return err
	}
	*h = Hours(v)
	return nil
}

// Records flattens entries into rows ordered by date, items in their
// original order.
func Records(entries timesheet.DateEntries) ([]Record, error) {
	dates, err := entries.Dates()
	if err != nil {
		return nil, err
	}

	normalized, err := entries.Normalize()
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, d := range dates {
		key := d.Format(timesheet.ISODateLayout)
		for _, item := range normalized[key] {
			var r Record
			if err := copier.Copy(&r, &item); err != nil {
				return nil, fmt.Errorf("failed to flatten %s: %w", key, err)
			}
			r.Date = key
			records = append(records, r)
		}
		// A normalized key may collect items of several input keys; emit once.
		delete(normalized, key)
	}
	return records, nil
}

// Entries groups rows back into date entries keyed by ISO date.
func Entries(records []Record) (timesheet.DateEntries, error) {
	entries := make(timesheet.DateEntries)
	for i, r := range records {
		d, err := timesheet.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		key := d.Format(timesheet.ISODateLayout)
		var item timesheet.LineItem
		if err := copier.Copy(&item, &records[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries[key] = append(entries[key], item)
	}
	return entries, nil
}

// =============================================================================
// JSON
// =============================================================================

// WriteJSON writes entries indented by two spaces, followed by a newline.
func WriteJSON(w io.Writer, entries timesheet.DateEntries) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ReadJSON reads entries as written by WriteJSON. Null item lists are
// treated as empty.
func ReadJSON(r io.Reader) (timesheet.DateEntries, error) {
	var entries timesheet.DateEntries
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	for k, v := range entries {
		if v == nil {
			entries[k] = []timesheet.LineItem{}
		}
	}
	return entries, nil
}

// =============================================================================
// DISPATCH
// =============================================================================

// Write writes entries in the given format.
func Write(w io.Writer, format Format, entries timesheet.DateEntries) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, entries)
	case FormatXLSX:
		return WriteXLSX(w, entries)
	case FormatJSON:
		return WriteJSON(w, entries)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Read reads entries in the given format.
func Read(r io.Reader, format Format) (timesheet.DateEntries, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ReadFile opens path and reads it in the format its extension names.
func ReadFile(path string) (timesheet.DateEntries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	entries, err := Read(file, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return entries, nil
}
