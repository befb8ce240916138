// =============================================================================
// TimePro Timesheet - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (timepro)
//   ├── getCmd     (timepro get)      - print a period as JSON
//   ├── postCmd    (timepro post)     - submit JSON/CSV/XLSX entries
//   ├── exportCmd  (timepro export)   - write a period to a file
//   ├── summaryCmd (timepro summary)  - print an hours table
//   ├── optionsCmd (timepro options)  - print customers, projects, tasks
//   └── versionCmd (timepro version)
//
// CONFIGURATION:
//   Before any command runs, the root command:
//   1. Loads the YAML config file (--config, or the default location)
//   2. Applies TIMEPRO_* environment variables
//   3. Applies the login flags (-c, -u, -p, --base-url)
//   4. Sets up logging on stderr (stdout carries command output)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timepro-timesheet/internal/config"
	"github.com/ginjaninja78/timepro-timesheet/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty means the
// default location.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// Login flags. Empty values leave the config file and environment alone.
var (
	customerFlag string
	usernameFlag string
	passwordFlag string
	baseURLFlag  string
)

// appConfig and logger are set up before any command runs.
var (
	appConfig *config.Config
	logger    = logging.Default()
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "timepro",
	Short: "TimePro Timesheet - read and submit Intertec TimePro timesheets",
	Long: `TimePro Timesheet logs into an Intertec TimePro site (timesheets.com.au)
and reads or submits your timesheet.

Timesheets are exchanged as JSON keyed by date:

  {
    "2021-06-14": [
      {"customer_code": "ACME", "project_psid": "ACME0001{:}7",
       "task_id": "DEV", "hours": 7.5, "description": "..."}
    ]
  }

Example Usage:
  timepro get -c ACME -u wile -p secret --last-week > week.json
  timepro post -c ACME -u wile -p secret -f week.json
  timepro export --current-month --format xlsx
  timepro summary --current-week`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initSettings(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. This is called by main.main(). An interrupt cancels
// the request in flight.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "",
		"Path to the configuration file (default $HOME/.config/timepro/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output for debugging")

	flags.StringVarP(&customerFlag, "customer", "c", "",
		"Employer's TimePro customer ID (env "+config.EnvCustomer+")")
	flags.StringVarP(&usernameFlag, "user", "u", "",
		"Username to log into TimePro (env "+config.EnvUsername+")")
	flags.StringVarP(&passwordFlag, "password", "p", "",
		"Password to log into TimePro (env "+config.EnvPassword+")")
	flags.StringVar(&baseURLFlag, "base-url", "",
		"TimePro site (env "+config.EnvBaseURL+", default "+config.DefaultBaseURL+")")
}

// initSettings loads the configuration and sets up the logger.
func initSettings(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	if verbose {
		cfg.LogLevel = "debug"
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = logging.New(cmd.ErrOrStderr(), level)
	logger.Debug("Using TimePro site %s", cfg.BaseURL)
	return nil
}

// applyFlagOverrides copies the login flags that were given over cfg.
func applyFlagOverrides(cfg *config.Config) {
	overrides := []struct {
		flag  string
		field *string
	}{
		{customerFlag, &cfg.Customer},
		{usernameFlag, &cfg.Username},
		{passwordFlag, &cfg.Password},
		{baseURLFlag, &cfg.BaseURL},
	}
	for _, o := range overrides {
		if o.flag != "" {
			*o.field = o.flag
		}
	}
}
