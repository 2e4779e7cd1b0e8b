package config

import "time"

const (
	// DefaultCollection is the auth collection PocketBase creates out of the box.
	DefaultCollection = "users"

	// DefaultCallbackPort is the loopback port for OAuth redirects.
	DefaultCallbackPort = 3000

	// DefaultRequestTimeout bounds discovery requests.
	DefaultRequestTimeout = 30 * time.Second
)

// Default notification texts.
const (
	DefaultNoProvidersMessage     = "No OAuth2 providers configured"
	DefaultProviderMissingMessage = `{{ with .Provider }}OAuth2 provider "{{ . }}" is not configured{{ else }}No matching OAuth2 provider is configured{{ end }}`
	DefaultDiscoveryFailedMessage = "Unable to load login options. Please try again."
	DefaultNetworkErrorMessage    = "Login with {{ .Provider | title }} failed: the server could not be reached"
	DefaultBackendErrorMessage    = "Login with {{ .Provider | title }} failed{{ with .Detail }}: {{ . }}{{ end }}"
	DefaultCanceledMessage        = "Login with {{ .Provider | title }} was canceled"
)

// DefaultMessages returns the built-in notification templates.
func DefaultMessages() Messages {
	return Messages{
		NoProviders:     DefaultNoProvidersMessage,
		ProviderMissing: DefaultProviderMissingMessage,
		DiscoveryFailed: DefaultDiscoveryFailedMessage,
		NetworkError:    DefaultNetworkErrorMessage,
		BackendError:    DefaultBackendErrorMessage,
		Canceled:        DefaultCanceledMessage,
	}
}

// GetDefaultConfig returns the configuration used when no config.yaml exists.
func GetDefaultConfig() LoginflowConfig {
	return LoginflowConfig{
		Backend: BackendConfig{
			BaseURL:        "http://127.0.0.1:8090",
			Collection:     DefaultCollection,
			RequestTimeout: DefaultRequestTimeout,
		},
		Login: LoginConfig{
			CallbackPort: DefaultCallbackPort,
		},
		Notifications: NotificationsConfig{
			Messages: DefaultMessages(),
		},
	}
}

// fillDefaults restores defaults for fields a config file left empty.
func fillDefaults(cfg *LoginflowConfig) {
	if cfg.Backend.Collection == "" {
		cfg.Backend.Collection = DefaultCollection
	}
	if cfg.Login.CallbackPort == 0 {
		cfg.Login.CallbackPort = DefaultCallbackPort
	}

	defaults := DefaultMessages()
	msgs := &cfg.Notifications.Messages
	for _, pair := range []struct {
		value    *string
		fallback string
	}{
		{&msgs.NoProviders, defaults.NoProviders},
		{&msgs.ProviderMissing, defaults.ProviderMissing},
		{&msgs.DiscoveryFailed, defaults.DiscoveryFailed},
		{&msgs.NetworkError, defaults.NetworkError},
		{&msgs.BackendError, defaults.BackendError},
		{&msgs.Canceled, defaults.Canceled},
	} {
		if *pair.value == "" {
			*pair.value = pair.fallback
		}
	}
}
