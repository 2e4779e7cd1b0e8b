package cmd

import (
	"loginflow/internal/authmethods"
	"loginflow/internal/cli"

	"github.com/spf13/cobra"
)

func newMethodsCmd(flags *cli.GlobalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List the login methods the auth service offers",
		Long: `List the OAuth2 providers and password login options offered by the
auth service. Makes exactly one discovery request.`,
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

			resolver := authmethods.NewResolver(authmethods.ResolverConfig{
				Client:     env.client,
				Collection: env.cfg.Backend.Collection,
				Timeout:    env.cfg.Backend.RequestTimeout,
			})
			snapshot, err := resolver.Resolve(cmd.Context())
			if err != nil {
				return cli.Explain(err, env.baseURL())
			}

			return cli.RenderMethods(cmd.OutOrStdout(), snapshot, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	return cmd
}
