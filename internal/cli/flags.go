package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BaseURLEnvVar overrides the configured auth service URL.
const BaseURLEnvVar = "LOGINFLOW_BASE_URL"

// GlobalFlags holds the flags shared by every command.
type GlobalFlags struct {
	// ConfigPath is the configuration directory. Empty means the default.
	ConfigPath string
	// BaseURL overrides backend.baseURL from the configuration.
	BaseURL string
	// LogLevel is the minimum level of log lines written to stderr.
	LogLevel string
	// Debug enables debug logging. It overrides LogLevel.
	Debug bool
	// Quiet suppresses progress indicators and non-essential output.
	Quiet bool
}

// RegisterGlobalFlags registers the shared flags as persistent flags of cmd.
//
// The registered flags are:
//   - --config: Configuration directory
//   - --base-url: Auth service URL (env: LOGINFLOW_BASE_URL)
//   - --log-level: Minimum log level (debug, info, warn, error)
//   - --debug: Enable debug logging
//   - --quiet/-q: Suppress non-essential output and all logging
func RegisterGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "Configuration directory (default ~/.config/loginflow)")
	cmd.PersistentFlags().StringVar(&flags.BaseURL, "base-url", os.Getenv(BaseURLEnvVar), "Auth service URL (env: "+BaseURLEnvVar+")")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "warn", "Minimum log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging (same as --log-level debug)")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output and logging")
}

// OutputFormat selects how results are printed.
type OutputFormat string

const (
	// OutputFormatTable prints a styled table.
	OutputFormatTable OutputFormat = "table"
	// OutputFormatJSON prints indented JSON.
	OutputFormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates an --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatTable, "":
		return OutputFormatTable, nil
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (valid: table, json)", s)
	}
}
