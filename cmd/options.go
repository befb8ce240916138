package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timepro-timesheet/internal/config"
)

// optionsCmd represents the 'options' command.
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print the customers, projects and tasks you can book to",
	Long: `Log into TimePro and print the customers, projects and tasks available
to you as JSON. The project_psid values are what the post command expects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOptions(cmd.Context(), cmd.OutOrStdout(), appConfig)
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(ctx context.Context, out io.Writer, cfg *config.Config) error {
	c, err := loginClient(ctx, cfg)
	if err != nil {
		return err
	}
	opts, err := c.FetchReferenceOptions(ctx, now())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render options: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
