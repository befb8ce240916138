// =============================================================================
// TimePro Timesheet - Hours Report
// =============================================================================
//
// Turns date entries into a terminal table of booked hours:
//
//   | Customer | Project       | Task | Mon 14 | Tue 15 | ... | Total |
//   |----------|---------------|------|--------|--------|-----|-------|
//   | ACME     | Rocket skates | DEV  | 7.5    |        |     | 7.5   |
//   | Total    |               |      | 7.5    |        |     | 7.5   |
//
// Sums use decimal arithmetic so a week of quarter hours adds up exactly.
//
// =============================================================================

package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

// Key identifies one line of the report.
type Key struct {
	Customer string
	Project  string
	Task     string
}

// Line is the hours of one customer/project/task combination.
type Line struct {
	Key

	// Labels shown in the table; descriptions where known, codes otherwise.
	CustomerLabel string
	ProjectLabel  string
	TaskLabel     string

	// Hours by ISO date.
	Hours map[string]decimal.Decimal
	Total decimal.Decimal
}

// Summary is the totals of a set of date entries.
type Summary struct {
	// Dates are the ISO dates covered, ascending. Dates without hours are
	// kept so the table shows the whole period.
	Dates []string

	// Lines in order of first appearance.
	Lines []*Line

	DateTotals map[string]decimal.Decimal
	Total      decimal.Decimal
}

// Summarize adds up the hours of entries per line and per date.
func Summarize(entries timesheet.DateEntries) (*Summary, error) {
	normalized, err := entries.Normalize()
	if err != nil {
		return nil, err
	}
	dates, err := normalized.Dates()
	if err != nil {
		return nil, err
	}

	s := &Summary{DateTotals: make(map[string]decimal.Decimal)}
	byKey := make(map[Key]*Line)

	for _, d := range dates {
		date := d.Format(timesheet.ISODateLayout)
		s.Dates = append(s.Dates, date)

		for _, item := range normalized[date] {
			hours := decimal.NewFromFloat(item.Hours)
			key := Key{
				Customer: item.CustomerCode,
				Project:  projectKey(item),
				Task:     item.TaskID,
			}

			line, ok := byKey[key]
			if !ok {
				line = &Line{
					Key:           key,
					CustomerLabel: label(item.CustomerDescription, item.CustomerCode),
					ProjectLabel:  label(item.ProjectDescription, key.Project),
					TaskLabel:     label(item.TaskDescription, item.TaskID),
					Hours:         make(map[string]decimal.Decimal),
				}
				byKey[key] = line
				s.Lines = append(s.Lines, line)
			}

			line.Hours[date] = line.Hours[date].Add(hours)
			line.Total = line.Total.Add(hours)
			s.DateTotals[date] = s.DateTotals[date].Add(hours)
			s.Total = s.Total.Add(hours)
		}
	}

	return s, nil
}

func projectKey(item timesheet.LineItem) string {
	if item.ProjectPSID != "" {
		return item.ProjectPSID
	}
	return item.ProjectCode
}

func label(description, code string) string {
	if description != "" {
		return description
	}
	return code
}

// =============================================================================
// RENDERING
// =============================================================================

// Headers returns the column titles: three label columns, one per date
// ("Mon 14") and Total.
func (s *Summary) Headers() []string {
	headers := []string{"Customer", "Project", "Task"}
	for _, date := range s.Dates {
		d, err := timesheet.ParseDate(date)
		if err != nil {
			headers = append(headers, date)
			continue
		}
		headers = append(headers, d.Format("Mon 02"))
	}
	return append(headers, "Total")
}

// Rows returns the table body, footer included. Zero cells are blank.
func (s *Summary) Rows() [][]string {
	rows := make([][]string, 0, len(s.Lines)+1)
	for _, line := range s.Lines {
		row := []string{line.CustomerLabel, line.ProjectLabel, line.TaskLabel}
		for _, date := range s.Dates {
			row = append(row, formatHours(line.Hours[date]))
		}
		rows = append(rows, append(row, formatHours(line.Total)))
	}

	footer := []string{"Total", "", ""}
	for _, date := range s.Dates {
		footer = append(footer, formatHours(s.DateTotals[date]))
	}
	return append(rows, append(footer, formatHours(s.Total)))
}

func formatHours(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	hoursStyle  = cellStyle.Align(lipgloss.Right)
	footerStyle = hoursStyle.Bold(true)
)

// Render draws the summary as a bordered table.
func Render(w io.Writer, s *Summary) error {
	rows := s.Rows()
	footer := len(rows) - 1

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(s.Headers()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == footer:
				return footerStyle
			case col >= 3:
				return hoursStyle
			default:
				return cellStyle
			}
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
