package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

const (
	loginOKPage = `<html><body>
<form><input type="hidden" name="UserContextID" value="ctx-123"></form>
</body></html>`

	loginRejectedPage = `<html><body>
<form><input type="hidden" name="RejectedLogon" value="Y"></form>
</body></html>`

	loginErrorPage = `<html><body>
<a name="ErrorTable"></a>
<table>
<tr><td><img src="images/invalid.png"></td><td>Unknown customer ID.</td></tr>
</table>
</body></html>`

	viewTimesheetPage = `<html><body>
<form><input type="hidden" name="StaffID" value="4711"></form>
</body></html>`

	weekPage = `<html><body><form>
<input type="hidden" name="StartDate" value="14-Jun-2021">
<input type="hidden" name="EndDate" value="16-Jun-2021">
<input type="hidden" name="InputRows" value="1">
<input type="hidden" name="Project_0_0" value="ACME0001{:}7">
<input type="hidden" name="Task_0_0" value="DEV">
<input name="FinishTime_0_0" value="8">
<input name="FinishTime_0_1" value="">
<input name="FinishTime_0_2" value="2:30">
<input type="hidden" name="Project_1_0" value="">
<input name="FinishTime_1_0" value="">
</form></body></html>`

	dayPage = `<html><head><script>
AddProjectEntry('ACME','ACME0001','ACME0001{:}7','Rocket skates',1)
AddTaskEntry('ACME0001','DEV','Development')
</script></head><body><form>
<input type="hidden" name="StartDate" value="31-Jul-2021">
<input type="hidden" name="EndDate" value="31-Jul-2021">
<select name="CustomerCode_0_0"><option value=""></option><option value="ACME">Acme Corporation</option></select>
</form></body></html>`

	saveErrorPage = `<html><body>
<a name="ErrorTable"></a>
<table>
<tr><td><img src="images/invalid.png"></td><td>Project is closed.</td></tr>
</table>
</body></html>`
)

// fakeTimePro imitates the TimePro pages used by the client.
type fakeTimePro struct {
	t         *testing.T
	submitted url.Values
	referer   string
	optionDay string
	rejectAll bool
}

func (f *fakeTimePro) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		f.t.Errorf("bad form: %v", err)
	}
	form := r.PostForm

	switch r.URL.Path {
	case loginPath:
		http.SetCookie(w, &http.Cookie{Name: "ASPSESSION", Value: "s1", Path: "/"})
		switch {
		case form.Get("systemid") != "ACME":
			fmt.Fprint(w, loginErrorPage)
		case form.Get("password") != "secret":
			fmt.Fprint(w, loginRejectedPage)
		case form.Get("username") == "tokenless":
			fmt.Fprint(w, "<html><body></body></html>")
		default:
			fmt.Fprint(w, loginOKPage)
		}
	case viewTimesheetPath:
		if form.Get("UserContextID") != "ctx-123" {
			f.t.Errorf("ViewTimeSheet without UserContextID: %v", form)
		}
		if _, err := r.Cookie("ASPSESSION"); err != nil {
			f.t.Error("session cookie not sent")
		}
		fmt.Fprint(w, viewTimesheetPage)
	case inputTimePath:
		if form.Get("UserContextID") != "ctx-123" || form.Get("StaffID") != "4711" {
			f.t.Errorf("InputTime without session values: %v", form)
		}
		switch {
		case form.Get("Save") != "":
			f.submitted = form
			f.referer = r.Header.Get("Referer")
			if f.rejectAll {
				fmt.Fprint(w, saveErrorPage)
				return
			}
			fmt.Fprint(w, "<html><body>Saved</body></html>")
		case form.Get("Mode") == "Day":
			f.optionDay = form.Get("StartDate")
			fmt.Fprint(w, dayPage)
		case form.Get("Mode") == "Week":
			fmt.Fprint(w, weekPage)
		default:
			http.Error(w, "unknown mode", http.StatusBadRequest)
		}
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeTimePro) {
	t.Helper()
	fake := &fakeTimePro{t: t}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	return c, fake
}

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t)
	if err := c.Login(context.Background(), "ACME", "wile", "secret"); err != nil {
		t.Fatal(err)
	}
	if !c.LoggedIn() || c.StaffID() != "4711" {
		t.Errorf("session not established: staff %q", c.StaffID())
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		customer string
		user     string
		password string
		message  string
	}{
		{"error table", "NOPE", "wile", "secret", "Unknown customer ID."},
		{"rejected logon", "ACME", "wile", "wrong", "Invalid login credentials."},
		{"missing token", "ACME", "tokenless", "secret", "UserContextID not found in login response."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t)
			err := c.Login(context.Background(), tt.customer, tt.user, tt.password)

			var loginErr *LoginError
			if !errors.As(err, &loginErr) {
				t.Fatalf("error = %v, want *LoginError", err)
			}
			if !strings.Contains(loginErr.Error(), tt.message) {
				t.Errorf("error = %q, want it to mention %q", loginErr.Error(), tt.message)
			}
			if c.LoggedIn() {
				t.Error("client reports logged in after failure")
			}
		})
	}
}

func TestRequestsBeforeLogin(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	day := time.Date(2021, 6, 14, 0, 0, 0, 0, time.UTC)

	if _, err := c.FetchForm(ctx, day, day); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("FetchForm error = %v", err)
	}
	if _, err := c.FetchReferenceOptions(ctx, day); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("FetchReferenceOptions error = %v", err)
	}
	if err := c.SubmitTimesheet(ctx, &timesheet.Timesheet{}); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("SubmitTimesheet error = %v", err)
	}
}

func TestFetchTimesheet(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()
	if err := c.Login(ctx, "ACME", "wile", "secret"); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2021, 6, 14, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 6, 16, 0, 0, 0, 0, time.UTC)
	today := time.Date(2021, 6, 16, 0, 0, 0, 0, time.UTC)

	ts, err := c.FetchTimesheet(ctx, start, end, today)
	if err != nil {
		t.Fatal(err)
	}
	if fake.optionDay != "31-Jul-2021" {
		t.Errorf("options requested for %q, want 31-Jul-2021", fake.optionDay)
	}

	entries, err := ts.DateEntries()
	if err != nil {
		t.Fatal(err)
	}
	mon := entries["2021-06-14"]
	if len(mon) != 1 {
		t.Fatalf("2021-06-14 has %d items", len(mon))
	}
	if mon[0].CustomerDescription != "Acme Corporation" || mon[0].TaskDescription != "Development" || mon[0].Hours != 8 {
		t.Errorf("unexpected item %+v", mon[0])
	}
	if wed := entries["2021-06-16"]; len(wed) != 1 || wed[0].Hours != 2.5 {
		t.Errorf("2021-06-16 = %+v", wed)
	}
}

func TestSubmitTimesheet(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()
	if err := c.Login(ctx, "ACME", "wile", "secret"); err != nil {
		t.Fatal(err)
	}

	ts, err := timesheet.FromDateEntries(timesheet.DateEntries{
		"2021-06-14": {{CustomerCode: "ACME", ProjectPSID: "ACME0001{:}7", TaskID: "DEV", Hours: 8, Description: "work"}},
		"2021-06-15": {{CustomerCode: "ACME", ProjectPSID: "ACME0001{:}7", TaskID: "QA", Hours: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SubmitTimesheet(ctx, ts); err != nil {
		t.Fatal(err)
	}

	got := fake.submitted
	checks := map[string]string{
		"InputRows":       "2",
		"DataForm":        "TimeEntry 4711",
		"Save":            "%A0%A0Save%A0%A0",
		"StartDate":       "14-Jun-2021",
		"EndDate":         "15-Jun-2021",
		"FinishTime_0_0":  "8",
		"Description_0_0": "work",
		"FinishTime_1_1":  "1",
		"PBatch_1_1":      "",
		"SBatch_0_1":      "",
	}
	for k, want := range checks {
		if _, ok := got[k]; !ok {
			t.Errorf("submission lacks %s", k)
			continue
		}
		if got.Get(k) != want {
			t.Errorf("%s = %q, want %q", k, got.Get(k), want)
		}
	}
	if !strings.HasSuffix(fake.referer, inputTimePath) {
		t.Errorf("Referer = %q", fake.referer)
	}
}

func TestSubmitTimesheetRejected(t *testing.T) {
	c, fake := newTestClient(t)
	fake.rejectAll = true
	ctx := context.Background()
	if err := c.Login(ctx, "ACME", "wile", "secret"); err != nil {
		t.Fatal(err)
	}

	ts, err := timesheet.FromDateEntries(timesheet.DateEntries{
		"2021-06-14": {{CustomerCode: "ACME", ProjectPSID: "ACME0001{:}7", Hours: 8}},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = c.SubmitTimesheet(ctx, ts)
	var siteErr *WebsiteError
	if !errors.As(err, &siteErr) {
		t.Fatalf("error = %v, want *WebsiteError", err)
	}
	if len(siteErr.Messages) != 1 || siteErr.Messages[0] != "Project is closed." {
		t.Errorf("messages = %q", siteErr.Messages)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	err = c.Login(context.Background(), "ACME", "wile", "secret")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want status error", err)
	}
	var loginErr *LoginError
	if errors.As(err, &loginErr) {
		t.Error("transport failure reported as LoginError")
	}
}

func TestOptionsDay(t *testing.T) {
	tests := map[string]string{
		"2021-06-16": "2021-07-31",
		"2021-01-31": "2021-02-28",
		"2021-12-05": "2022-01-31",
	}
	for in, want := range tests {
		today, _ := time.Parse("2006-01-02", in)
		if got := optionsDay(today).Format("2006-01-02"); got != want {
			t.Errorf("optionsDay(%s) = %s, want %s", in, got, want)
		}
	}
}
