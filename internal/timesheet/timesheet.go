// =============================================================================
// TimePro Timesheet - Timesheet
// =============================================================================
//
// A Timesheet is a form plus the reference data needed to describe it. It is
// built from one of two directions:
//
//   - New: from a form scraped off the entry screen (get)
//   - FromDateEntries: from the date-keyed JSON model (post)
//
// and can be rendered either as DateEntries (JSON) or as form values ready
// to submit.
//
// =============================================================================

package timesheet

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one resolved timesheet entry on a single date.
type LineItem struct {
	CustomerCode        string  `json:"customer_code"`
	CustomerDescription string  `json:"customer_description"`
	ProjectCode         string  `json:"project_code"`
	ProjectPSID         string  `json:"project_psid"`
	ProjectDescription  string  `json:"project_description"`
	TaskID              string  `json:"task_id"`
	TaskDescription     string  `json:"task_description"`
	Hours               float64 `json:"hours"`
	Description         string  `json:"description"`
}

// DateEntries maps an ISO date ("2006-01-02") to the line items of that day.
type DateEntries map[string][]LineItem

// Dates returns the parsed keys in ascending order.
func (d DateEntries) Dates() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(d))
	for k := range d {
		t, err := ParseDate(k)
		if err != nil {
			return nil, err
		}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Normalize re-keys the entries with ISO dates. Keys in any format accepted
// by ParseDate are allowed on input.
func (d DateEntries) Normalize() (DateEntries, error) {
	out := make(DateEntries, len(d))
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		t, err := ParseDate(k)
		if err != nil {
			return nil, err
		}
		iso := t.Format(ISODateLayout)
		out[iso] = append(out[iso], d[k]...)
	}
	return out, nil
}

// Timesheet is the form of one period together with its reference data.
type Timesheet struct {
	Form    Form
	Options *Options
}

// New builds a timesheet from a scraped form. Read-only timesheets have no
// customer inputs, so every row with a project but no customer gets the
// customer of that project.
func New(form Form, options *Options) *Timesheet {
	fields := form.Fields.Clone()
	for k, v := range form.Fields {
		if k.Type != Project {
			continue
		}
		customerKey := Key(Customer, k.Row, k.Column)
		if _, ok := fields[customerKey]; ok {
			continue
		}
		project, _ := options.LookupProject(v)
		fields[customerKey] = project.CustomerCode
	}
	form.Fields = fields
	return &Timesheet{Form: form, Options: options}
}

// Rows decodes the non-empty rows of the form.
func (t *Timesheet) Rows() ([]RowEntry, error) {
	return Decode(t.Form.Fields)
}

// CountEntries returns the number of non-empty rows. This is the InputRows
// value the server expects on submission.
func (t *Timesheet) CountEntries() (int, error) {
	rows, err := t.Rows()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// DateEntries resolves every FinishTime cell with time on it into a line
// item under its date. Every date of the period is present, days without
// time have an empty list.
func (t *Timesheet) DateEntries() (DateEntries, error) {
	rows, err := t.Rows()
	if err != nil {
		return nil, err
	}
	byRow := make(map[int]RowEntry, len(rows))
	for _, r := range rows {
		byRow[r.Row] = r
	}

	dates := DateSeries(t.Form.StartDate, t.Form.EndDate)
	entries := make(DateEntries, len(dates))
	for _, d := range dates {
		entries[d.Format(ISODateLayout)] = []LineItem{}
	}

	for _, k := range t.Form.Fields.Keys() {
		if k.Type != FinishTime {
			continue
		}
		v := strings.TrimSpace(t.Form.Fields[k])
		if v == "" || v == "0" {
			continue
		}
		row, ok := byRow[k.Row]
		if !ok || k.Column >= len(dates) {
			continue
		}

		hours, err := ParseHours(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		if hours == 0 {
			continue
		}

		item := t.resolve(row)
		item.Hours = hours
		item.Description = t.Form.Fields[Key(Description, k.Row, k.Column)]

		date := dates[k.Column].Format(ISODateLayout)
		entries[date] = append(entries[date], item)
	}

	return entries, nil
}

// resolve fills the descriptive fields of a row. Codes fall back to the raw
// row values when the reference data has no match.
func (t *Timesheet) resolve(row RowEntry) LineItem {
	item := LineItem{
		CustomerCode: row.Customer,
		TaskID:       row.Task,
	}
	if IsPSID(row.Project) {
		item.ProjectPSID = row.Project
	} else {
		item.ProjectCode = row.Project
	}

	if c, ok := t.Options.LookupCustomer(row.Customer); ok {
		item.CustomerCode = c.Code
		item.CustomerDescription = c.Description
	}
	if p, ok := t.Options.LookupProject(row.Project); ok {
		item.ProjectCode = p.Code
		item.ProjectPSID = p.PSID
		item.ProjectDescription = p.Description
	}
	if task, ok := t.Options.LookupTask(row.Task); ok {
		item.TaskID = task.ID
		item.TaskDescription = task.Description
	}
	return item
}

// JSON renders the date entries, indented by two spaces.
func (t *Timesheet) JSON() ([]byte, error) {
	entries, err := t.DateEntries()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(entries, "", "  ")
}

// FormValues returns the form ready for submission, including the
// StartDate/EndDate fields and back-filled companion cells.
func (t *Timesheet) FormValues() url.Values {
	fields := t.Form.Fields.Clone()
	fields.Backfill()

	values := url.Values{}
	values.Set("StartDate", t.Form.StartDate.Format(FormDateLayout))
	values.Set("EndDate", t.Form.EndDate.Format(FormDateLayout))
	for _, k := range fields.Keys() {
		values.Set(k.String(), fields[k])
	}
	return values
}

// =============================================================================
// FROM DATE ENTRIES
// =============================================================================

type rowKey struct {
	customer string
	project  string
	task     string
}

type rowTotals struct {
	hours        []decimal.Decimal
	descriptions [][]string
}

// FromDateEntries builds a timesheet from the date-keyed model. Each unique
// customer/PSID/task combination becomes one row, ordered by first
// appearance. The period runs from the earliest to the latest date. Hours of
// the same row on the same date are added up and their descriptions joined
// with "; ". Rows with no hours at all are left out.
func FromDateEntries(entries DateEntries) (*Timesheet, error) {
	normalized, err := entries.Normalize()
	if err != nil {
		return nil, err
	}
	dates, err := normalized.Dates()
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("timesheet has no dates")
	}

	start, end := dates[0], dates[len(dates)-1]
	series := DateSeries(start, end)

	var order []rowKey
	totals := make(map[rowKey]*rowTotals)

	for _, d := range dates {
		column := ColumnOf(start, d)
		for _, item := range normalized[d.Format(ISODateLayout)] {
			key := rowKey{customer: item.CustomerCode, project: item.ProjectPSID, task: item.TaskID}
			rt, ok := totals[key]
			if !ok {
				rt = &rowTotals{
					hours:        make([]decimal.Decimal, len(series)),
					descriptions: make([][]string, len(series)),
				}
				totals[key] = rt
				order = append(order, key)
			}
			rt.hours[column] = rt.hours[column].Add(decimal.NewFromFloat(item.Hours))
			if item.Description != "" {
				rt.descriptions[column] = append(rt.descriptions[column], item.Description)
			}
		}
	}

	var rows []RowEntry
	for _, key := range order {
		rt := totals[key]
		row := RowEntry{
			Row:          len(rows),
			Customer:     key.customer,
			Project:      key.project,
			Task:         key.task,
			Hours:        make([]float64, len(series)),
			Descriptions: make([]string, len(series)),
		}
		for c := range series {
			row.Hours[c] = rt.hours[c].InexactFloat64()
			row.Descriptions[c] = strings.Join(rt.descriptions[c], "; ")
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	return &Timesheet{
		Form: Form{
			StartDate: start,
			EndDate:   end,
			Fields:    Encode(rows, start, end),
		},
	}, nil
}
