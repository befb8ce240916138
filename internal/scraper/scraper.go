// =============================================================================
// TimePro Timesheet - Form Scraper
// =============================================================================
//
// Reads the server-rendered TimePro pages with goquery.
//
// Nothing here talks to the network. The session client hands over each
// response body and gets back typed values:
//
//   - ExtractForm      : the timesheet grid of the entry screen
//   - CustomerOptions  : the customer drop-down
//   - ProjectOptions   : AddProjectEntry(...) calls in the page script
//   - TaskOptions      : AddTaskEntry(...) calls in the page script
//   - ErrorMessages    : the error table shown after a failed login or save
//   - InputValue       : hidden session inputs (UserContextID, StaffID)
//
// =============================================================================

package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

// gridFieldMarkers are the name fragments of the grid inputs we read.
var gridFieldMarkers = []string{
	"FinishTime_",
	"CustomerCode_",
	"Project_",
	"Task_",
	"Description_",
}

// customerSelectName is the drop-down of the first grid row; every row
// offers the same customers.
const customerSelectName = "CustomerCode_0_0"

var (
	projectEntryPattern = regexp.MustCompile(
		`AddProjectEntry\('([^']*?)','([^']*?)','([^']*?)','([^']*?)',([^']*?)\)\s`)
	taskEntryPattern = regexp.MustCompile(
		`AddTaskEntry\('([^']*?)','([^']*?)','([^']*?)'\)`)
)

// Page is a parsed TimePro page.
type Page struct {
	doc  *goquery.Document
	html string
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Page, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Page{doc: doc, html: string(body)}, nil
}

// InputValue returns the value of the first input with the given name.
func (p *Page) InputValue(name string) (string, bool) {
	sel := p.doc.Find(fmt.Sprintf(`input[name=%q]`, name)).First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.AttrOr("value", ""), true
}

// HasInput reports whether an input with the given name exists.
func (p *Page) HasInput(name string) bool {
	return p.doc.Find(fmt.Sprintf(`input[name=%q]`, name)).Length() > 0
}

// ErrorMessages returns the messages of the error table, if the page has
// one. Each message is the second cell of a row flagged as invalid.
func (p *Page) ErrorMessages() ([]string, bool) {
	table := p.doc.Find(`a[name="ErrorTable"]`).First().NextAllFiltered("table").First()
	if table.Length() == 0 {
		return nil, false
	}

	var messages []string
	table.Find(`img[src="images/invalid.png"]`).Each(func(_ int, img *goquery.Selection) {
		row := img.Closest("tr")
		text := strings.TrimSpace(row.Children().Filter("td").Eq(1).Text())
		if text != "" {
			messages = append(messages, text)
		}
	})
	return messages, true
}

// =============================================================================
// TIMESHEET FORM
// =============================================================================

// ExtractForm reads the timesheet grid. Grid inputs render either as inputs
// or, on an editable timesheet, as selects whose selected option carries
// the value. Rows at or beyond InputRows are spare rows of a read-only
// timesheet and are left out.
func (p *Page) ExtractForm() (timesheet.Form, error) {
	form := timesheet.Form{Fields: make(timesheet.Fields)}

	start, ok := p.InputValue("StartDate")
	if !ok {
		return form, fmt.Errorf("timesheet page has no StartDate")
	}
	end, ok := p.InputValue("EndDate")
	if !ok {
		return form, fmt.Errorf("timesheet page has no EndDate")
	}

	var err error
	if form.StartDate, err = timesheet.ParseDate(start); err != nil {
		return form, fmt.Errorf("invalid StartDate: %w", err)
	}
	if form.EndDate, err = timesheet.ParseDate(end); err != nil {
		return form, fmt.Errorf("invalid EndDate: %w", err)
	}

	// rows < 0 means InputRows is absent or unreadable; keep every row.
	rows := -1
	if v, ok := p.InputValue("InputRows"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			rows = n
		}
	}

	p.doc.Find("[name]").Each(func(_ int, el *goquery.Selection) {
		name := el.AttrOr("name", "")
		if !isGridField(name) {
			return
		}
		key, ok := timesheet.ParseFieldKey(name)
		if !ok {
			return
		}
		if rows >= 0 && key.Row >= rows {
			return
		}
		form.Fields[key] = elementValue(el)
	})

	return form, nil
}

func isGridField(name string) bool {
	for _, marker := range gridFieldMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func elementValue(el *goquery.Selection) string {
	if goquery.NodeName(el) == "select" {
		return el.Find("option[selected]").First().AttrOr("value", "")
	}
	return el.AttrOr("value", "")
}

// =============================================================================
// REFERENCE OPTIONS
// =============================================================================

// Options reads customers, projects and tasks from the entry screen.
func (p *Page) Options() timesheet.Options {
	return timesheet.Options{
		Customers: p.CustomerOptions(),
		Projects:  p.ProjectOptions(),
		Tasks:     p.TaskOptions(),
	}
}

// CustomerOptions reads the non-empty options of the customer drop-down.
func (p *Page) CustomerOptions() []timesheet.CustomerOption {
	var customers []timesheet.CustomerOption
	sel := fmt.Sprintf(`select[name=%q] option`, customerSelectName)
	p.doc.Find(sel).Each(func(_ int, opt *goquery.Selection) {
		code := opt.AttrOr("value", "")
		if code == "" {
			return
		}
		customers = append(customers, timesheet.CustomerOption{
			Code:        code,
			Description: strings.TrimSpace(opt.Text()),
		})
	})
	return customers
}

// ProjectOptions reads the AddProjectEntry calls of the page script.
func (p *Page) ProjectOptions() []timesheet.ProjectOption {
	var projects []timesheet.ProjectOption
	for _, m := range projectEntryPattern.FindAllStringSubmatch(p.html, -1) {
		count, _ := strconv.Atoi(strings.TrimSpace(m[5]))
		projects = append(projects, timesheet.ProjectOption{
			CustomerCode: m[1],
			Code:         m[2],
			PSID:         m[3],
			Description:  m[4],
			TaskCount:    count,
		})
	}
	return projects
}

// TaskOptions reads the AddTaskEntry calls of the page script.
func (p *Page) TaskOptions() []timesheet.TaskOption {
	var tasks []timesheet.TaskOption
	for _, m := range taskEntryPattern.FindAllStringSubmatch(p.html, -1) {
		tasks = append(tasks, timesheet.TaskOption{
			ProjectCode: m[1],
			ID:          m[2],
			Description: m[3],
		})
	}
	return tasks
}
