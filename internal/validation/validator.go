// =============================================================================
// TimePro Timesheet - Validation Engine
// =============================================================================
//
// This module checks date entries before they are submitted. TimePro reports
// its own errors after a save, but only one page at a time; catching the
// obvious mistakes locally saves a round trip and a half-saved week.
//
// VALIDATION LEVELS:
//   1. Date-level: every key must be a date
//   2. Item-level: hours in range, a customer or project when hours are booked
//   3. Day-level: the hours of one date must not exceed a day
//   4. Reference-level (optional): codes must exist in the user's options
//
// ERROR HANDLING:
//   - Errors are collected, not returned one by one
//   - Each error names the date, item index, field and value
//   - "error" severity blocks submission, "warning" does not
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// MaxHoursPerDay is the upper bound for one item and for one date.
const MaxHoursPerDay = 24

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation error.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Date is the date key as given in the input.
	Date string

	// Index is the position of the item within its date, or -1 when the
	// error concerns the date as a whole.
	Index int

	// Field is the JSON name of the offending field.
	Field string

	// Value is the offending value.
	Value string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	where := e.Date
	if e.Index >= 0 {
		where = fmt.Sprintf("%s #%d", e.Date, e.Index+1)
	}
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), where, e.Message)
	}
	return fmt.Sprintf("[%s] %s, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity), where, e.Field, e.Message, e.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors of severity "error".
	IsValid bool

	// Errors contains all validation errors, warnings included.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	// ItemsValidated is the total number of line items checked.
	ItemsValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks date entries.
type Validator struct {
	options ValidationOptions
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// Reference, when set, turns unknown customer, project and task codes
	// into warnings.
	Reference *timesheet.Options

	// TreatWarningsAsErrors makes any warning invalidate the result.
	TreatWarningsAsErrors bool
}

// NewValidator creates a Validator with the given options.
func NewValidator(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// ValidateAll validates every date, in key order.
func (v *Validator) ValidateAll(entries timesheet.DateEntries) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, date := range keys {
		items := entries[date]
		result.ItemsValidated += len(items)

		for _, err := range v.ValidateDate(date, items) {
			result.Errors = append(result.Errors, err)
			if err.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
			} else {
				result.WarningCount++
				if v.options.TreatWarningsAsErrors {
					result.IsValid = false
				}
			}
		}
	}

	return result
}

// ValidateDate validates the items booked on one date.
func (v *Validator) ValidateDate(date string, items []timesheet.LineItem) []*ValidationError {
	var errors []*ValidationError

	if _, err := timesheet.ParseDate(date); err != nil {
		errors = append(errors, &ValidationError{
			Severity: SeverityError,
			Date:     date,
			Index:    -1,
			Message:  fmt.Sprintf("'%s' is not a valid date", date),
		})
	}

	total := decimal.Zero
	for i := range items {
		errors = append(errors, v.ValidateItem(date, i, &items[i])...)
		if items[i].Hours > 0 {
			total = total.Add(decimal.NewFromFloat(items[i].Hours))
		}
	}

	if total.GreaterThan(decimal.NewFromInt(MaxHoursPerDay)) {
		errors = append(errors, &ValidationError{
			Severity: SeverityError,
			Date:     date,
			Index:    -1,
			Field:    "hours",
			Value:    total.String(),
			Message:  fmt.Sprintf("Total hours exceed %d", MaxHoursPerDay),
		})
	}

	return errors
}

// ValidateItem validates a single line item.
func (v *Validator) ValidateItem(date string, index int, item *timesheet.LineItem) []*ValidationError {
	var errors []*ValidationError
	fail := func(severity, field, value, message string) {
		errors = append(errors, &ValidationError{
			Severity: severity,
			Date:     date,
			Index:    index,
			Field:    field,
			Value:    value,
			Message:  message,
		})
	}

	// =========================================================================
	// HOURS
	// =========================================================================

	hours := timesheet.FormatHours(item.Hours)
	switch {
	case item.Hours < 0:
		fail(SeverityError, "hours", fmt.Sprint(item.Hours), "Hours must not be negative")
	case item.Hours > MaxHoursPerDay:
		fail(SeverityError, "hours", hours, fmt.Sprintf("Hours must not exceed %d", MaxHoursPerDay))
	}

	if item.Hours <= 0 {
		return errors
	}

	// =========================================================================
	// REQUIRED CODES
	// =========================================================================

	// A row with either code survives decoding; only one with neither is
	// rejected.
	customer := strings.TrimSpace(item.CustomerCode)
	project := strings.TrimSpace(item.ProjectPSID)
	switch {
	case customer == "" && project == "":
		fail(SeverityError, "project_psid", item.ProjectPSID,
			"Customer code or project PSID is required when hours are booked")
	case customer == "":
		fail(SeverityWarning, "customer_code", item.CustomerCode, "Customer code is missing")
	case project == "":
		fail(SeverityWarning, "project_psid", item.ProjectPSID, "Project PSID is missing")
	}
	if project != "" && !timesheet.IsPSID(project) {
		fail(SeverityWarning, "project_psid", item.ProjectPSID,
			fmt.Sprintf("Project PSID usually contains '%s'", timesheet.PSIDSeparator))
	}

	// =========================================================================
	// REFERENCE DATA
	// =========================================================================

	ref := v.options.Reference
	if ref == nil {
		return errors
	}
	if item.CustomerCode != "" {
		if _, ok := ref.LookupCustomer(item.CustomerCode); !ok {
			fail(SeverityWarning, "customer_code", item.CustomerCode, "Unknown customer")
		}
	}
	if item.ProjectPSID != "" {
		if _, ok := ref.LookupProject(item.ProjectPSID); !ok {
			fail(SeverityWarning, "project_psid", item.ProjectPSID, "Unknown project")
		}
	}
	if item.TaskID != "" {
		if _, ok := ref.LookupTask(item.TaskID); !ok {
			fail(SeverityWarning, "task_id", item.TaskID, "Unknown task")
		}
	}

	return errors
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errors)))
	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}
