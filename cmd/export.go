// =============================================================================
// TimePro Timesheet - Export Command
// =============================================================================
//
// COMMAND USAGE:
//   timepro export [period flags] [--format csv|xlsx|json] [--output-dir DIR]
//
// OUTPUT:
//   One file in the output directory, named by output_file_format
//   (default "timesheet_{start}_{end}_{uuid}") plus the format's extension.
//   The path of the file is printed on stdout.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timepro-timesheet/internal/config"
	"github.com/ginjaninja78/timepro-timesheet/internal/tabular"
	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
	"github.com/ginjaninja78/timepro-timesheet/pkg/utils"
)

// exportOptions holds the flags of the export command.
type exportOptions struct {
	period    periodFlags
	format    string
	outputDir string
}

var exportOpts exportOptions

// exportCmd represents the 'export' command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a timesheet period to a CSV, XLSX or JSON file",
	Long: `Log into TimePro and write the timesheet of a period to a file.

CSV and XLSX files hold one line item per row. They can be edited and fed
back to the post command.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout(), appConfig, &exportOpts)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportOpts.period.register(exportCmd)
	exportCmd.Flags().StringVar(&exportOpts.format, "format", string(tabular.FormatCSV),
		"Output format: csv, xlsx or json")
	exportCmd.Flags().StringVar(&exportOpts.outputDir, "output-dir", "",
		"Directory to write to (default output_dir from the config)")
}

func runExport(ctx context.Context, out io.Writer, cfg *config.Config, opts *exportOptions) error {
	format, err := tabular.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	ts, err := fetchPeriod(ctx, cfg, &opts.period)
	if err != nil {
		return err
	}
	entries, err := ts.DateEntries()
	if err != nil {
		return fmt.Errorf("failed to read timesheet: %w", err)
	}

	dir := opts.outputDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	name := utils.GenerateOutputFileName(cfg.OutputFileFormat, format.Extension(), map[string]string{
		"start": ts.Form.StartDate.Format(timesheet.ISODateLayout),
		"end":   ts.Form.EndDate.Format(timesheet.ISODateLayout),
	})

	path, err := utils.NewFileManager(dir).WriteFile(name, func(w io.Writer) error {
		return tabular.Write(w, format, entries)
	})
	if err != nil {
		return err
	}

	logger.Info("Exported timesheet to %s", path)
	_, err = fmt.Fprintln(out, path)
	return err
}
