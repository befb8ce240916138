// =============================================================================
// TimePro Timesheet - Session Client
// =============================================================================
//
// Talks to the TimePro web application the way a browser does: form POSTs
// over a cookie session. Every response is handed to the scraper.
//
// SESSION FLOW:
//   1. Login           POST /tplogin/default.asp       -> UserContextID
//                      POST /tp60/ViewTimeSheet.asp    -> StaffID
//   2. Fetch           POST /tp60/InputTime.asp (Mode=Week)
//      Options         POST /tp60/InputTime.asp (Mode=Day)
//   3. Submit          POST /tp60/InputTime.asp (Save)
//
// Every request after login carries UserContextID and StaffID.
//
// =============================================================================

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/timepro-timesheet/internal/logging"
	"github.com/ginjaninja78/timepro-timesheet/internal/scraper"
	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

// DefaultBaseURL is the public TimePro host.
const DefaultBaseURL = "https://www.timesheets.com.au"

// DefaultTimeout bounds each HTTP request.
const DefaultTimeout = 30 * time.Second

const (
	loginPath         = "/tplogin/default.asp"
	viewTimesheetPath = "/tp60/ViewTimeSheet.asp"
	inputTimePath     = "/tp60/InputTime.asp"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client is a logged-in (or not yet logged-in) TimePro session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger

	userContextID string
	staffID       string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the TimePro instance at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
		},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LoggedIn reports whether Login has succeeded.
func (c *Client) LoggedIn() bool {
	return c.userContextID != "" && c.staffID != ""
}

// StaffID returns the staff id of the logged-in user.
func (c *Client) StaffID() string {
	return c.staffID
}

// =============================================================================
// LOGIN
// =============================================================================

// Login opens a session. customerID is the employer's TimePro system id.
func (c *Client) Login(ctx context.Context, customerID, username, password string) error {
	c.logger.Debug("Logging in as %s (customer %s)", username, customerID)

	page, err := c.post(ctx, loginPath, url.Values{
		"CurrentClientTime": {""},
		"compact":           {"off"},
		"ForceInterface":    {"S"},
		"systemid":          {customerID},
		"username":          {username},
		"password":          {password},
	}, nil)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}

	if messages, ok := page.ErrorMessages(); ok {
		return &LoginError{Messages: messages}
	}
	if page.HasInput("RejectedLogon") {
		return &LoginError{Messages: []string{"Invalid login credentials."}}
	}

	userContextID, ok := page.InputValue("UserContextID")
	if !ok || userContextID == "" {
		return &LoginError{Messages: []string{"UserContextID not found in login response."}}
	}

	page, err = c.post(ctx, viewTimesheetPath, url.Values{
		"UserContextID": {userContextID},
	}, nil)
	if err != nil {
		return fmt.Errorf("staff lookup failed: %w", err)
	}

	staffID, ok := page.InputValue("StaffID")
	if !ok || staffID == "" {
		return &LoginError{Messages: []string{"StaffID not found in login response."}}
	}

	c.userContextID = userContextID
	c.staffID = staffID
	c.logger.Info("Logged in as %s (staff %s)", username, staffID)
	return nil
}

// =============================================================================
// FETCH
// =============================================================================

// FetchForm reads the timesheet grid of the period start..end.
func (c *Client) FetchForm(ctx context.Context, start, end time.Time) (timesheet.Form, error) {
	if !c.LoggedIn() {
		return timesheet.Form{}, ErrNotLoggedIn
	}

	page, err := c.post(ctx, inputTimePath, c.sessionValues(url.Values{
		"Mode":      {"Week"},
		"StartDate": {start.Format(timesheet.FormDateLayout)},
		"EndDate":   {end.Format(timesheet.FormDateLayout)},
	}), nil)
	if err != nil {
		return timesheet.Form{}, fmt.Errorf("failed to fetch timesheet: %w", err)
	}

	form, err := page.ExtractForm()
	if err != nil {
		return timesheet.Form{}, fmt.Errorf("failed to read timesheet: %w", err)
	}
	c.logger.Debug("Fetched %d timesheet fields for %s..%s", len(form.Fields),
		form.StartDate.Format(timesheet.ISODateLayout), form.EndDate.Format(timesheet.ISODateLayout))
	return form, nil
}

// FetchReferenceOptions reads the customers, projects and tasks available
// to the user. The entry screen only lists them on a day that is still
// open, so the last day of the month after today is requested.
func (c *Client) FetchReferenceOptions(ctx context.Context, today time.Time) (timesheet.Options, error) {
	if !c.LoggedIn() {
		return timesheet.Options{}, ErrNotLoggedIn
	}

	filterDay := optionsDay(today).Format(timesheet.FormDateLayout)
	page, err := c.post(ctx, inputTimePath, c.sessionValues(url.Values{
		"Mode":      {"Day"},
		"StartDate": {filterDay},
		"EndDate":   {filterDay},
	}), nil)
	if err != nil {
		return timesheet.Options{}, fmt.Errorf("failed to fetch reference options: %w", err)
	}

	opts := page.Options()
	c.logger.Debug("Fetched %d customers, %d projects, %d tasks",
		len(opts.Customers), len(opts.Projects), len(opts.Tasks))
	return opts, nil
}

// FetchTimesheet reads the period start..end together with the reference
// options needed to describe it.
func (c *Client) FetchTimesheet(ctx context.Context, start, end, today time.Time) (*timesheet.Timesheet, error) {
	form, err := c.FetchForm(ctx, start, end)
	if err != nil {
		return nil, err
	}
	opts, err := c.FetchReferenceOptions(ctx, today)
	if err != nil {
		return nil, err
	}
	return timesheet.New(form, &opts), nil
}

func optionsDay(today time.Time) time.Time {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 2, -1)
}

// =============================================================================
// SUBMIT
// =============================================================================

// SubmitTimesheet saves ts. InputRows is the number of non-empty rows, which
// must match the rows present in the form.
func (c *Client) SubmitTimesheet(ctx context.Context, ts *timesheet.Timesheet) error {
	if !c.LoggedIn() {
		return ErrNotLoggedIn
	}

	values, err := c.SubmissionValues(ts)
	if err != nil {
		return err
	}

	page, err := c.post(ctx, inputTimePath, values, http.Header{
		"Referer": {c.baseURL + inputTimePath},
	})
	if err != nil {
		return fmt.Errorf("failed to submit timesheet: %w", err)
	}

	if messages, ok := page.ErrorMessages(); ok {
		return &WebsiteError{Messages: messages}
	}

	c.logger.Info("Submitted timesheet for %s..%s",
		ts.Form.StartDate.Format(timesheet.ISODateLayout), ts.Form.EndDate.Format(timesheet.ISODateLayout))
	return nil
}

// SubmissionValues returns the exact form that SubmitTimesheet posts.
func (c *Client) SubmissionValues(ts *timesheet.Timesheet) (url.Values, error) {
	rows, err := ts.CountEntries()
	if err != nil {
		return nil, fmt.Errorf("invalid timesheet: %w", err)
	}

	values := c.sessionValues(ts.FormValues())
	values.Set("InputRows", strconv.Itoa(rows))
	values.Set("Save", "%A0%A0Save%A0%A0")
	values.Set("DataForm", "TimeEntry "+c.staffID)
	return values, nil
}

// =============================================================================
// HTTP
// =============================================================================

func (c *Client) sessionValues(values url.Values) url.Values {
	values.Set("UserContextID", c.userContextID)
	values.Set("StaffID", c.staffID)
	return values
}

func (c *Client) post(ctx context.Context, path string, values url.Values, header http.Header) (*scraper.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header[k] = v
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s from %s", res.Status, path)
	}

	return scraper.Parse(res.Body)
}
