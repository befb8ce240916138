package timesheet

import "strings"

// PSIDSeparator marks a composite project-staff identifier, e.g.
// "ACME0001{:}42". Plain project codes never contain it.
const PSIDSeparator = "{:}"

// CustomerOption is a customer listed on the entry screen.
type CustomerOption struct {
	Code        string `json:"customer_code"`
	Description string `json:"customer_description"`
}

// ProjectOption is a project assignment listed on the entry screen.
type ProjectOption struct {
	CustomerCode string `json:"customer_code"`
	Code         string `json:"project_code"`
	PSID         string `json:"project_psid"`
	Description  string `json:"project_description"`
	TaskCount    int    `json:"task_count"`
}

// TaskOption is a task of a project.
type TaskOption struct {
	ProjectCode string `json:"project_code"`
	ID          string `json:"task_id"`
	Description string `json:"task_description"`
}

// Options holds the reference data of a session. It is fetched once and
// only read afterwards.
type Options struct {
	Customers []CustomerOption `json:"customers"`
	Projects  []ProjectOption  `json:"projects"`
	Tasks     []TaskOption     `json:"tasks"`
}

// IsPSID reports whether a project value is a composite PSID rather than a
// plain project code.
func IsPSID(project string) bool {
	return strings.Contains(project, PSIDSeparator)
}

// LookupCustomer resolves a customer code.
func (o *Options) LookupCustomer(code string) (CustomerOption, bool) {
	if o == nil {
		return CustomerOption{}, false
	}
	for _, c := range o.Customers {
		if c.Code == code {
			return c, true
		}
	}
	return CustomerOption{}, false
}

// LookupProject resolves a project by PSID when the value looks like one,
// otherwise by plain project code. The returned record has no task count.
func (o *Options) LookupProject(project string) (ProjectOption, bool) {
	if o == nil {
		return ProjectOption{}, false
	}
	byPSID := IsPSID(project)
	for _, p := range o.Projects {
		key := p.Code
		if byPSID {
			key = p.PSID
		}
		if key == project {
			p.TaskCount = 0
			return p, true
		}
	}
	return ProjectOption{}, false
}

// LookupTask resolves a task id.
func (o *Options) LookupTask(id string) (TaskOption, bool) {
	if o == nil {
		return TaskOption{}, false
	}
	for _, t := range o.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return TaskOption{}, false
}
