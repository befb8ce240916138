package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

// SheetName is the worksheet holding the line items.
const SheetName = "Timesheet"

// WriteXLSX writes entries as a workbook with one sheet. The header row is
// bold and hours are stored as numbers.
func WriteXLSX(w io.Writer, entries timesheet.DateEntries) error {
	records, err := Records(entries)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(Header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Date,
			r.CustomerCode,
			r.CustomerDescription,
			r.ProjectCode,
			r.ProjectPSID,
			r.ProjectDescription,
			r.TaskID,
			r.TaskDescription,
			float64(r.Hours),
			r.Description,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ReadXLSX reads entries from the "Timesheet" sheet, or from the first sheet
// when there is none by that name. Columns are matched by header name.
// Hours may be numbers or "h:mm" text.
func ReadXLSX(r io.Reader) (timesheet.DateEntries, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := columns["date"]; !ok {
		return nil, fmt.Errorf("sheet %q has no date column", sheet)
	}

	var records []Record
	for n, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if cell("date") == "" {
			continue
		}

		hours, err := timesheet.ParseHours(cell("hours"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		records = append(records, Record{
			Date:                cell("date"),
			CustomerCode:        cell("customer_code"),
			CustomerDescription: cell("customer_description"),
			ProjectCode:         cell("project_code"),
			ProjectPSID:         cell("project_psid"),
			ProjectDescription:  cell("project_description"),
			TaskID:              cell("task_id"),
			TaskDescription:     cell("task_description"),
			Hours:               Hours(hours),
			Description:         cell("description"),
		})
	}

	return Entries(records)
}
