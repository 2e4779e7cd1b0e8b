package cmd

import (
	"errors"

	"loginflow/internal/cli"
	"loginflow/internal/session"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newLogoutCmd(flags *cli.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(flags)
			if err != nil {
				return err
			}
			store, err := env.sessionStore()
			if err != nil {
				return err
			}

			presenter := cli.NewPresenter(cmd.OutOrStdout(), flags.Quiet)
			if err := store.Delete(); err != nil {
				if errors.Is(err, session.ErrNotFound) {
					presenter.Info("Not logged in to %s", env.baseURL())
					return nil
				}
				return err
			}

			presenter.Info("%s Logged out of %s", text.FgGreen.Sprint("✓"), env.baseURL())
			return nil
		},
	}
}
