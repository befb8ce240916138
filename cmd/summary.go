package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timepro-timesheet/internal/config"
	"github.com/ginjaninja78/timepro-timesheet/internal/report"
)

var summaryPeriod periodFlags

// summaryCmd represents the 'summary' command.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the hours of a timesheet period as a table",
	Long: `Log into TimePro and print a table of the hours booked in a period: one
row per customer, project and task, one column per date, with totals.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd.Context(), cmd.OutOrStdout(), appConfig, &summaryPeriod)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryPeriod.register(summaryCmd)
}

func runSummary(ctx context.Context, out io.Writer, cfg *config.Config, pf *periodFlags) error {
	ts, err := fetchPeriod(ctx, cfg, pf)
	if err != nil {
		return err
	}
	entries, err := ts.DateEntries()
	if err != nil {
		return fmt.Errorf("failed to read timesheet: %w", err)
	}

	s, err := report.Summarize(entries)
	if err != nil {
		return err
	}
	return report.Render(out, s)
}
