// =============================================================================
// TimePro Timesheet - Get Command
// =============================================================================
//
// COMMAND USAGE:
//   timepro get [--start DATE --end DATE | --current-week | --last-week |
//                --current-month | --last-month] -c CUSTOMER -u USER -p PASS
//
// OUTPUT:
//   The timesheet as JSON on stdout, every date of the period present:
//
//   {
//     "2021-06-14": [ { "customer_code": "ACME", ..., "hours": 7.5 } ],
//     "2021-06-15": []
//   }
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timepro-timesheet/internal/config"
)

var getPeriod periodFlags

// getCmd represents the 'get' command.
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a timesheet period as JSON",
	Long: `Log into TimePro and print the timesheet of a period as JSON keyed by date.

Without a period flag the current week up to Friday is read, starting no
earlier than the first of the month. On weekends "current week" means the
coming week.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd.Context(), cmd.OutOrStdout(), appConfig, &getPeriod)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getPeriod.register(getCmd)
}

func runGet(ctx context.Context, out io.Writer, cfg *config.Config, pf *periodFlags) error {
	ts, err := fetchPeriod(ctx, cfg, pf)
	if err != nil {
		return err
	}

	data, err := ts.JSON()
	if err != nil {
		return fmt.Errorf("failed to render timesheet: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
