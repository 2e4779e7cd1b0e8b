package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"loginflow/internal/cli"
	"loginflow/pkg/logging"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeLoginFailed indicates the login flow ran but did not log in.
	ExitCodeLoginFailed = 3
)

// rootCmd is the command run by main.
var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// newRootCmd builds the command tree. Every call returns an independent
// tree with its own flag values.
func newRootCmd() *cobra.Command {
	flags := &cli.GlobalFlags{}

	cmd := &cobra.Command{
		Use:   "loginflow",
		Short: "Log in to an auth service with an OAuth2 provider",
		Long: `loginflow logs you in to a PocketBase-style auth service through one of
the OAuth2 providers it offers.

It asks the service which providers are configured, picks one, exchanges it
for a session token and stores the session locally.`,
		// Errors are printed by Execute; login failures were already shown as
		// notifications.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(cmd, flags)
		},
	}

	cli.RegisterGlobalFlags(cmd, flags)

	cmd.AddCommand(newLoginCmd(flags))
	cmd.AddCommand(newMethodsCmd(flags))
	cmd.AddCommand(newStatusCmd(flags))
	cmd.AddCommand(newLogoutCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initLogging applies --log-level, --debug and --quiet, in increasing order
// of precedence.
func initLogging(cmd *cobra.Command, flags *cli.GlobalFlags) error {
	if flags.Quiet {
		logging.Discard()
		return nil
	}

	level, err := logging.ParseLevel(flags.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if flags.Debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, cmd.ErrOrStderr())
	return nil
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a semantic exit code on error.
// An interrupt cancels the running command.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "loginflow version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(rootCmd, err)
		os.Exit(getExitCode(err))
	}
}

func printError(cmd *cobra.Command, err error) {
	var loginFailed *cli.LoginFailedError
	if errors.As(err, &loginFailed) {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", text.FgRed.Sprint("Error:"), err)
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var loginFailed *cli.LoginFailedError
	if errors.As(err, &loginFailed) {
		return ExitCodeLoginFailed
	}

	return ExitCodeError
}
