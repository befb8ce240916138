package client

import (
	"errors"
	"strings"
)

// ErrNotLoggedIn is returned by any request made before a successful Login.
var ErrNotLoggedIn = errors.New("not logged in")

// LoginError reports a rejected login or a login response that lacks the
// session tokens needed for later requests.
type LoginError struct {
	Messages []string
}

func (e *LoginError) Error() string {
	return "login failed: " + strings.Join(e.Messages, " ")
}

// WebsiteError carries the validation messages TimePro shows when it
// refuses a submission.
type WebsiteError struct {
	Messages []string
}

func (e *WebsiteError) Error() string {
	return "timesheet rejected: " + strings.Join(e.Messages, " ")
}
