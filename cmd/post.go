// =============================================================================
// TimePro Timesheet - Post Command
// =============================================================================
//
// COMMAND USAGE:
//   timepro post [-f FILE] [--dry-run] [--strict] -c CUSTOMER -u USER -p PASS
//
// INPUT:
//   -f FILE    : JSON, CSV or XLSX, chosen by extension
//   -f - / none: JSON on stdin
//
// PIPELINE:
//   1. Read the date entries
//   2. Validate them locally; any error stops here
//   3. Build the timesheet form (one row per customer/project/task)
//   4. With --dry-run print the form and stop
//   5. Log in and check the codes against the user's options; unknown
//      codes are warnings, which --strict turns into errors
//   6. Submit the form
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timepro-timesheet/internal/config"
	"github.com/ginjaninja78/timepro-timesheet/internal/tabular"
	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
	"github.com/ginjaninja78/timepro-timesheet/internal/validation"
)

// postOptions holds the flags of the post command.
type postOptions struct {
	file   string
	dryRun bool
	strict bool
}

var postOpts postOptions

// postCmd represents the 'post' command.
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Submit timesheet entries",
	Long: `Read timesheet entries and submit them to TimePro.

Entries with the same customer, project and task become one row of the
timesheet. Several entries of one row on the same date are added up and their
descriptions joined with "; ". The period runs from the first to the last
date given.

Entries are validated before anything is sent. Once logged in, customer,
project and task codes are checked against the options TimePro offers you;
unknown codes are reported as warnings, or as errors with --strict. Use
--dry-run to see the form that would be submitted without logging in.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPost(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), appConfig, postOpts)
	},
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringVarP(&postOpts.file, "file", "f", "-",
		"Entries to submit (.json, .csv or .xlsx); - reads JSON from stdin")
	postCmd.Flags().BoolVar(&postOpts.dryRun, "dry-run", false,
		"Validate and print the form without submitting")
	postCmd.Flags().BoolVar(&postOpts.strict, "strict", false,
		"Treat validation warnings as errors")
}

func runPost(ctx context.Context, in io.Reader, out io.Writer, cfg *config.Config, opts postOptions) error {
	entries, err := readEntries(in, opts.file)
	if err != nil {
		return err
	}

	local := checkEntries(entries, nil, opts.strict)
	if local.ErrorCount > 0 {
		return invalidEntries(local)
	}

	ts, err := timesheet.FromDateEntries(entries)
	if err != nil {
		return fmt.Errorf("failed to build timesheet: %w", err)
	}
	rows, err := ts.CountEntries()
	if err != nil {
		return err
	}
	logger.Info("Prepared %d row(s) for %s..%s", rows,
		ts.Form.StartDate.Format(timesheet.ISODateLayout), ts.Form.EndDate.Format(timesheet.ISODateLayout))

	if opts.dryRun {
		if err := reportEntries(local); err != nil {
			return err
		}
		return printForm(out, ts, rows)
	}

	c, err := loginClient(ctx, cfg)
	if err != nil {
		return err
	}
	ref, err := c.FetchReferenceOptions(ctx, now())
	if err != nil {
		return err
	}
	if err := reportEntries(checkEntries(entries, &ref, opts.strict)); err != nil {
		return err
	}

	if err := c.SubmitTimesheet(ctx, ts); err != nil {
		return err
	}
	fmt.Fprintf(out, "Submitted %d row(s) for %s..%s\n", rows,
		ts.Form.StartDate.Format(timesheet.ISODateLayout), ts.Form.EndDate.Format(timesheet.ISODateLayout))
	return nil
}

// checkEntries validates entries, against the user's options when ref is
// set.
func checkEntries(entries timesheet.DateEntries, ref *timesheet.Options, strict bool) *validation.ValidationResult {
	v := validation.NewValidator(validation.ValidationOptions{
		Reference:             ref,
		TreatWarningsAsErrors: strict,
	})
	result := v.ValidateAll(entries)
	logger.Debug("Validated %d item(s): %d error(s), %d warning(s)",
		result.ItemsValidated, result.ErrorCount, result.WarningCount)
	return result
}

// reportEntries logs the warnings of result and fails when it is invalid.
func reportEntries(result *validation.ValidationResult) error {
	if !result.IsValid {
		return invalidEntries(result)
	}
	for _, e := range result.Errors {
		if e.Severity == validation.SeverityWarning {
			logger.Warn("%s", e.Error())
		}
	}
	return nil
}

func invalidEntries(result *validation.ValidationResult) error {
	return fmt.Errorf("entries are invalid\n%s", validation.FormatErrors(result.Errors))
}

// readEntries reads JSON from in when path is "-" or empty, otherwise the
// file at path.
func readEntries(in io.Reader, path string) (timesheet.DateEntries, error) {
	if path == "" || path == "-" {
		entries, err := tabular.ReadJSON(in)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return entries, nil
	}
	return tabular.ReadFile(path)
}

// printForm writes the fields a submission would carry, one per line in
// name order. Session fields are only known after login and are left out.
func printForm(out io.Writer, ts *timesheet.Timesheet, rows int) error {
	values := ts.FormValues()
	values.Set("InputRows", fmt.Sprint(rows))

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(out, "%s=%s\n", name, values.Get(name)); err != nil {
			return err
		}
	}
	return nil
}
