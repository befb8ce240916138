// =============================================================================
// TimePro Timesheet - Configuration Module
// =============================================================================
//
// This module loads the settings every command needs: where TimePro lives,
// who to log in as, and where exported files go.
//
// PRECEDENCE (highest first):
//   1. Command-line flags (applied by the cmd package)
//   2. Environment variables (TIMEPRO_*)
//   3. The YAML config file
//   4. Built-in defaults
//
// The config file is optional when it lives at the default location. A file
// named explicitly with --config must exist.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvCustomer = "TIMEPRO_CUSTOMER"
	EnvUsername = "TIMEPRO_USERNAME"
	EnvPassword = "TIMEPRO_PASSWORD"
	EnvBaseURL  = "TIMEPRO_BASE_URL"
)

// Built-in defaults.
const (
	DefaultBaseURL          = "https://www.timesheets.com.au"
	DefaultTimeout          = 30 * time.Second
	DefaultLogLevel         = "info"
	DefaultOutputDir        = "."
	DefaultOutputFileFormat = "timesheet_{start}_{end}_{uuid}"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application settings.
type Config struct {
	// =========================================================================
	// CONNECTION SETTINGS
	// =========================================================================

	// BaseURL is the TimePro host.
	// Default: "https://www.timesheets.com.au"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each HTTP request, e.g. "30s" or "1m".
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// =========================================================================
	// CREDENTIALS
	// =========================================================================

	// Customer is the employer's TimePro system id.
	Customer string `yaml:"customer"`

	// Username and Password are the user's TimePro login.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where the export command writes files.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// OutputFileFormat names exported files. The extension is added from
	// the export format.
	// Placeholders:
	//   {start}     - First date of the period (YYYY-MM-DD)
	//   {end}       - Last date of the period (YYYY-MM-DD)
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// Default: "timesheet_{start}_{end}_{uuid}"
	OutputFileFormat string `yaml:"output_file_format"`
}

// DefaultPath returns $HOME/.config/timepro/config.yaml, or "" when the
// home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "timepro", "config.yaml")
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadConfig loads the configuration file, then applies environment
// overrides and defaults.
//
// PARAMETERS:
//   - configPath: The file to read. "" means DefaultPath.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if an explicit file is missing, or any file cannot be parsed
//     or holds invalid values.
func LoadConfig(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultPath()
	}

	var config Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			// No config file; run on env and flags alone.
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnvOverrides(&config, os.LookupEnv)
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// applyEnvOverrides replaces file values with any TIMEPRO_* variables set.
func applyEnvOverrides(config *Config, lookup func(string) (string, bool)) {
	overrides := map[string]*string{
		EnvCustomer: &config.Customer,
		EnvUsername: &config.Username,
		EnvPassword: &config.Password,
		EnvBaseURL:  &config.BaseURL,
	}
	for name, field := range overrides {
		if v, ok := lookup(name); ok && v != "" {
			*field = v
		}
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.OutputDir == "" {
		config.OutputDir = DefaultOutputDir
	}
	if config.OutputFileFormat == "" {
		config.OutputFileFormat = DefaultOutputFileFormat
	}
}

// Validate checks the values that do not depend on the command being run.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	return nil
}

// RequireCredentials reports which login settings are still missing. It is
// checked by the commands that talk to TimePro, after flags are applied.
func (c *Config) RequireCredentials() error {
	var missing []string
	if c.Customer == "" {
		missing = append(missing, "customer (-c)")
	}
	if c.Username == "" {
		missing = append(missing, "username (-u)")
	}
	if c.Password == "" {
		missing = append(missing, "password (-p)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}
