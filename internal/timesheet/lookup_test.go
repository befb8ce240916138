package timesheet

import "testing"

func testOptions() *Options {
	return &Options{
		Customers: []CustomerOption{
			{Code: "ACME", Description: "Acme Corporation"},
			{Code: "INIT", Description: "Initech"},
		},
		Projects: []ProjectOption{
			{CustomerCode: "ACME", Code: "ACME0001", PSID: "ACME0001{:}7", Description: "Rocket skates", TaskCount: 2},
			{CustomerCode: "INIT", Code: "INIT0001", PSID: "INIT0001{:}7", Description: "TPS reports", TaskCount: 0},
		},
		Tasks: []TaskOption{
			{ProjectCode: "ACME0001", ID: "DEV", Description: "Development"},
			{ProjectCode: "ACME0001", ID: "QA", Description: "Testing"},
		},
	}
}

func TestLookupCustomer(t *testing.T) {
	o := testOptions()
	c, ok := o.LookupCustomer("INIT")
	if !ok || c.Description != "Initech" {
		t.Errorf("LookupCustomer(INIT) = %+v, %v", c, ok)
	}
	if c, ok := o.LookupCustomer("NOPE"); ok || c != (CustomerOption{}) {
		t.Errorf("LookupCustomer(NOPE) = %+v, %v; want empty, false", c, ok)
	}
}

func TestLookupProjectByPSIDOrCode(t *testing.T) {
	o := testOptions()

	p, ok := o.LookupProject("ACME0001{:}7")
	if !ok || p.Code != "ACME0001" {
		t.Fatalf("lookup by PSID = %+v, %v", p, ok)
	}
	if p.TaskCount != 0 {
		t.Errorf("task count leaked into lookup result: %d", p.TaskCount)
	}
	if o.Projects[0].TaskCount != 2 {
		t.Error("lookup modified the cached options")
	}

	p, ok = o.LookupProject("INIT0001")
	if !ok || p.PSID != "INIT0001{:}7" {
		t.Errorf("lookup by code = %+v, %v", p, ok)
	}

	// A plain code never matches against PSIDs and vice versa.
	if _, ok := o.LookupProject("INIT0001{:}8"); ok {
		t.Error("unexpected match for unknown PSID")
	}
}

func TestLookupTask(t *testing.T) {
	o := testOptions()
	if task, ok := o.LookupTask("QA"); !ok || task.Description != "Testing" {
		t.Errorf("LookupTask(QA) = %+v, %v", task, ok)
	}
	if _, ok := o.LookupTask(""); ok {
		t.Error("empty task id matched")
	}
}

func TestLookupOnNilOptions(t *testing.T) {
	var o *Options
	if _, ok := o.LookupCustomer("ACME"); ok {
		t.Error("nil options matched a customer")
	}
	if _, ok := o.LookupProject("ACME0001"); ok {
		t.Error("nil options matched a project")
	}
	if _, ok := o.LookupTask("DEV"); ok {
		t.Error("nil options matched a task")
	}
}
