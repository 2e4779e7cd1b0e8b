package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loginflow/internal/authmethods"
	"loginflow/internal/cli"
	"loginflow/internal/login"
	"loginflow/internal/notify"
	"loginflow/internal/oauthsession"

	"github.com/spf13/cobra"
)

type loginOptions struct {
	provider string
	browser  bool
	timeout  time.Duration
}

func newLoginCmd(flags *cli.GlobalFlags) *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an OAuth2 provider",
		Long: `Log in to the auth service with one of its OAuth2 providers.

The service is asked which providers it offers; the first one (or the one
named with --provider) is used. On success the session is stored locally.

Examples:
  loginflow login                        # Use the first provider
  loginflow login --provider github      # Use a specific provider
  loginflow login --browser              # Complete the provider consent in a browser
  loginflow login --timeout 2m           # Give up if authorization takes longer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "OAuth2 provider to use (default: first offered)")
	cmd.Flags().BoolVar(&opts.browser, "browser", false, "Open the provider's consent page and wait for the redirect")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Maximum time to wait for authorization (0 waits indefinitely)")

	return cmd
}

func runLogin(cmd *cobra.Command, flags *cli.GlobalFlags, opts *loginOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := loadEnvironment(flags)
	if err != nil {
		return err
	}
	cfg := env.cfg

	if cmd.Flags().Changed("provider") {
		cfg.Login.Provider = opts.provider
	}
	if cmd.Flags().Changed("browser") {
		cfg.Login.OpenBrowser = opts.browser
	}
	if cmd.Flags().Changed("timeout") {
		if opts.timeout < 0 {
			return errors.New("--timeout must not be negative")
		}
		cfg.Login.AuthorizeTimeout = opts.timeout
	}

	store, err := env.sessionStore()
	if err != nil {
		return err
	}
	messages, err := login.ParseMessages(cfg.Notifications.Messages)
	if err != nil {
		return err
	}

	presenter := cli.NewPresenter(cmd.OutOrStdout(), flags.Quiet)

	var acquirer oauthsession.CodeAcquirer
	if cfg.Login.OpenBrowser {
		acquirer = &oauthsession.BrowserCodeAcquirer{
			CallbackPort: cfg.Login.CallbackPort,
			OpenURL: func(url string) error {
				presenter.Info("Opening %s", url)
				return oauthsession.OpenBrowser(url)
			},
		}
	}

	channel := notify.NewChannel(notify.WithAutoDismiss(cfg.Notifications.AutoDismiss))
	ctrl, err := login.NewController(login.Config{
		Resolver: authmethods.NewResolver(authmethods.ResolverConfig{
			Client:     env.client,
			Collection: cfg.Backend.Collection,
			Timeout:    cfg.Backend.RequestTimeout,
		}),
		Authorizer: oauthsession.New(oauthsession.Config{
			Client:     env.client,
			Collection: cfg.Backend.Collection,
			Acquirer:   acquirer,
			Timeout:    cfg.Login.AuthorizeTimeout,
		}),
		Notifier: channel,
	},
		login.WithProvider(cfg.Login.Provider),
		login.WithMessages(messages),
		login.WithHandoff(store),
	)
	if err != nil {
		return err
	}
	presenter.Attach(ctrl, channel)

	attempt := ctrl.Click(ctx)
	if attempt == nil {
		return errors.New("a login is already in progress")
	}

	// An interrupt cancels the exchange itself; the attempt still resolves.
	result, err := attempt.Wait(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}

	switch result.Kind {
	case login.ResultAuthorized:
		if result.Err != nil {
			return fmt.Errorf("logged in, but the session could not be saved: %w", result.Err)
		}
		presenter.LoggedIn(result.Success)
		return nil

	case login.ResultDiscoveryFailed:
		explained := cli.Explain(result.Err, env.baseURL())
		if !flags.Quiet {
			presenter.Warn("%v", explained)
		}
		return &cli.LoginFailedError{Reason: result.Kind.String(), Message: result.Notification, Err: explained}

	case login.ResultAuthorizationFailed:
		return &cli.LoginFailedError{
			Provider: result.Provider,
			Reason:   result.Failure.Reason.String(),
			Message:  result.Notification,
			Err:      result.Failure,
		}

	default:
		return &cli.LoginFailedError{Provider: result.Provider, Reason: result.Kind.String(), Message: result.Notification}
	}
}
