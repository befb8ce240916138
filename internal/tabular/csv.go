package tabular

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

// WriteCSV writes entries as CSV with a header row.
func WriteCSV(w io.Writer, entries timesheet.DateEntries) error {
	records, err := Records(entries)
	if err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ReadCSV reads entries written by WriteCSV. Columns are matched by header
// name, so their order does not matter and unknown columns are ignored.
func ReadCSV(r io.Reader) (timesheet.DateEntries, error) {
	var records []Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return Entries(records)
}
