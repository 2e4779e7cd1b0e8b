package cmd

import (
	"fmt"
	"strings"

	"loginflow/internal/backend"
	"loginflow/internal/cli"
	"loginflow/internal/config"
	"loginflow/internal/session"
	"loginflow/pkg/logging"
)

// environment is what every command needs to talk to the auth service.
type environment struct {
	cfg    config.LoginflowConfig
	client *backend.Client
}

// loadEnvironment loads the configuration and applies the global flag
// overrides.
func loadEnvironment(flags *cli.GlobalFlags) (*environment, error) {
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if baseURL := strings.TrimSpace(flags.BaseURL); baseURL != "" {
		cfg.Backend.BaseURL = baseURL
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid --base-url: %w", err)
		}
	}

	logging.Debug("CLI", "Using auth service %s (collection %s)", cfg.Backend.BaseURL, cfg.Backend.Collection)
	return &environment{
		cfg:    cfg,
		client: backend.NewClient(backend.Config{BaseURL: cfg.Backend.BaseURL}),
	}, nil
}

func (e *environment) baseURL() string {
	return e.client.BaseURL()
}

func (e *environment) sessionStore() (*session.Store, error) {
	return session.NewStore(session.StoreConfig{
		StorageDir: e.cfg.Session.StorageDir,
		BaseURL:    e.baseURL(),
		Collection: e.cfg.Backend.Collection,
	})
}
