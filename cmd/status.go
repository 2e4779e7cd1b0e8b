package cmd

import (
	"errors"
	"time"

	"loginflow/internal/cli"
	"loginflow/internal/session"

	"github.com/spf13/cobra"
)

func newStatusCmd(flags *cli.GlobalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Long: `Show who you are logged in as, with which provider, and when the
session token expires. Makes no network requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}

			env, err := loadEnvironment(flags)
			if err != nil {
				return err
			}
			store, err := env.sessionStore()
			if err != nil {
				return err
			}

			s, err := store.Load()
			if errors.Is(err, session.ErrNotFound) {
				cli.NewPresenter(cmd.OutOrStdout(), false).Info("Not logged in to %s", env.baseURL())
				return nil
			}
			if err != nil {
				return err
			}

			return cli.RenderSession(cmd.OutOrStdout(), s, time.Now(), format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	return cmd
}
