// =============================================================================
// TimePro Timesheet - Main Entry Point
// =============================================================================
//
// This is the main entry point for the TimePro Timesheet CLI. It hands
// control to the Cobra commands in the cmd package.
//
// USAGE:
//   timepro get       - Print a timesheet period as JSON
//   timepro post      - Submit timesheet entries
//   timepro export    - Write a period to a CSV, XLSX or JSON file
//   timepro summary   - Print an hours table
//   timepro options   - Print the customers, projects and tasks available
//   timepro version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (session client, scraper, timesheet model)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/timepro-timesheet/cmd"
)

func main() {
	cmd.Execute()
}
