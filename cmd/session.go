package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timepro-timesheet/internal/client"
	"github.com/ginjaninja78/timepro-timesheet/internal/config"
	"github.com/ginjaninja78/timepro-timesheet/internal/timesheet"
)

// now is the clock of the CLI. Nothing below the cmd package reads it.
var now = time.Now

// =============================================================================
// PERIOD FLAGS
// =============================================================================

// periodFlags are the period selectors shared by get, export and summary.
type periodFlags struct {
	start        string
	end          string
	currentWeek  bool
	lastWeek     bool
	currentMonth bool
	lastMonth    bool
}

func (p *periodFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&p.start, "start", "", "Start date of the timesheet period")
	flags.StringVar(&p.end, "end", "", "End date of the timesheet period")
	flags.BoolVar(&p.currentWeek, "current-week", false, "This week, Monday to Friday (next week on weekends)")
	flags.BoolVar(&p.lastWeek, "last-week", false, "Last week, Monday to Friday (this week on weekends)")
	flags.BoolVar(&p.currentMonth, "current-month", false, "This calendar month")
	flags.BoolVar(&p.lastMonth, "last-month", false, "Last calendar month")

	cmd.MarkFlagsRequiredTogether("start", "end")
	cmd.MarkFlagsMutuallyExclusive("start", "current-week", "last-week", "current-month", "last-month")
}

// kind returns the named period selected by the flags.
func (p *periodFlags) kind() timesheet.PeriodKind {
	switch {
	case p.currentWeek:
		return timesheet.CurrentWeek
	case p.lastWeek:
		return timesheet.LastWeek
	case p.currentMonth:
		return timesheet.CurrentMonth
	case p.lastMonth:
		return timesheet.LastMonth
	default:
		return timesheet.DefaultPeriod
	}
}

// resolve returns the explicit --start/--end range if given, otherwise the
// named period relative to today. Without any flag this is the current
// week up to Friday, kept within the current month.
func (p *periodFlags) resolve(today time.Time) (timesheet.Period, error) {
	if p.start == "" && p.end == "" {
		return timesheet.ResolvePeriod(p.kind(), today)
	}
	if p.start == "" || p.end == "" {
		return timesheet.Period{}, fmt.Errorf("--start and --end must be given together")
	}

	start, err := timesheet.ParseDate(p.start)
	if err != nil {
		return timesheet.Period{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := timesheet.ParseDate(p.end)
	if err != nil {
		return timesheet.Period{}, fmt.Errorf("invalid --end: %w", err)
	}
	if end.Before(start) {
		return timesheet.Period{}, fmt.Errorf("--end %s is before --start %s",
			end.Format(timesheet.ISODateLayout), start.Format(timesheet.ISODateLayout))
	}
	return timesheet.Period{Start: start, End: end}, nil
}

// =============================================================================
// SESSION
// =============================================================================

// loginClient opens a TimePro session with the configured credentials.
func loginClient(ctx context.Context, cfg *config.Config) (*client.Client, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	c, err := client.New(cfg.BaseURL,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if err := c.Login(ctx, cfg.Customer, cfg.Username, cfg.Password); err != nil {
		return nil, err
	}
	return c, nil
}

// fetchPeriod logs in and reads the timesheet of the period chosen by pf.
func fetchPeriod(ctx context.Context, cfg *config.Config, pf *periodFlags) (*timesheet.Timesheet, error) {
	today := now()
	period, err := pf.resolve(today)
	if err != nil {
		return nil, err
	}

	c, err := loginClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Fetching timesheet %s", period)
	return c.FetchTimesheet(ctx, period.Start, period.End, today)
}
