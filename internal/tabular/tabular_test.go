package tabular

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

func sampleEntries() timesheet.DateEntries {
	return timesheet.DateEntries{
		"2021-06-14": {
			{
				CustomerCode:        "ACME",
				CustomerDescription: "Acme Corporation",
				ProjectCode:         "ACME0001",
				ProjectPSID:         "ACME0001{:}7",
				ProjectDescription:  "Rocket skates",
				TaskID:              "DEV",
				TaskDescription:     "Development",
				Hours:               7.5,
				Description:         "wheels, brakes",
			},
			{CustomerCode: "INIT", ProjectPSID: "INIT0001{:}7", Hours: 0.5},
		},
		"2021-06-16": {
			{CustomerCode: "ACME", ProjectPSID: "ACME0001{:}7", TaskID: "QA", Hours: 8, Description: `said "ok"`},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "CSV": FormatCSV, " xlsx ": FormatXLSX} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for pdf")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"week.csv":       FormatCSV,
		"week.XLSX":      FormatXLSX,
		"week.json":      FormatJSON,
		"week":           FormatJSON,
		"/tmp/a.b/c.txt": FormatJSON,
	}
	for in, want := range tests {
		if got := FormatFromPath(in); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecordsOrder(t *testing.T) {
	records, err := Records(sampleEntries())
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, r := range records {
		got = append(got, r.Date+" "+r.CustomerCode)
	}
	want := []string{"2021-06-14 ACME", "2021-06-14 INIT", "2021-06-16 ACME"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatCSV, FormatXLSX} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, format, sampleEntries()); err != nil {
				t.Fatal(err)
			}
			got, err := Read(&buf, format)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, sampleEntries()) {
				t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, sampleEntries())
			}
		})
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleEntries()); err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != strings.Join(Header, ",") {
		t.Errorf("header = %q", first)
	}
}

func TestReadCSVColumnOrder(t *testing.T) {
	in := "hours,date,project_psid,customer_code,extra\n" +
		"2.5,14-Jun-2021,ACME0001{:}7,ACME,x\n"
	got, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := timesheet.DateEntries{
		"2021-06-14": {{CustomerCode: "ACME", ProjectPSID: "ACME0001{:}7", Hours: 2.5}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v", got)
	}
}

func TestReadCSVClockHours(t *testing.T) {
	in := "date,customer_code,project_psid,hours\n" +
		"2021-06-15,ACME,ACME0001{:}7,7:30\n" +
		"2021-06-15,ACME,ACME0001{:}7,\n"
	got, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := timesheet.DateEntries{
		"2021-06-15": {
			{CustomerCode: "ACME", ProjectPSID: "ACME0001{:}7", Hours: 7.5},
			{CustomerCode: "ACME", ProjectPSID: "ACME0001{:}7"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v", got)
	}
}

func TestReadCSVBadHours(t *testing.T) {
	for _, hours := range []string{"7:30:00", "NaN", "soon"} {
		in := "date,hours\n2021-06-15," + hours + "\n"
		if _, err := ReadCSV(strings.NewReader(in)); err == nil {
			t.Errorf("hours %q: expected error", hours)
		}
	}
}

func TestReadCSVBadDate(t *testing.T) {
	in := "date,hours\nsoon,1\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Error("expected error")
	}
}

func TestWriteXLSXLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleEntries()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{SheetName}) {
		t.Errorf("sheets = %v", got)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 || !reflect.DeepEqual(rows[0], Header) {
		t.Errorf("rows = %v", rows)
	}
	if got, _ := f.GetCellValue(SheetName, "I2"); got != "7.5" {
		t.Errorf("I2 = %q", got)
	}
}

func TestReadXLSXClockHours(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "Customer_Code", "Project_PSID", "Hours"},
		{"2021-06-15", "ACME", "ACME0001{:}7", "1:45"},
		{"", "", "", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := ReadXLSX(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := timesheet.DateEntries{
		"2021-06-15": {{CustomerCode: "ACME", ProjectPSID: "ACME0001{:}7", Hours: 1.75}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v", got)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []Format{FormatJSON, FormatCSV, FormatXLSX} {
		var buf bytes.Buffer
		if err := Write(&buf, format, sampleEntries()); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "week"+format.Extension())
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if !reflect.DeepEqual(got, sampleEntries()) {
			t.Errorf("%s: mismatch", path)
		}
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadJSONNullList(t *testing.T) {
	got, err := ReadJSON(strings.NewReader(`{"2021-06-14": null}`))
	if err != nil {
		t.Fatal(err)
	}
	if items, ok := got["2021-06-14"]; !ok || items == nil || len(items) != 0 {
		t.Errorf("got %#v", got)
	}
}
