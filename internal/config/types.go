package config

import "time"

// LoginflowConfig is the top-level configuration structure.
type LoginflowConfig struct {
	Backend       BackendConfig       `yaml:"backend"`
	Login         LoginConfig         `yaml:"login"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Session       SessionConfig       `yaml:"session"`
}

// BackendConfig locates the auth service.
type BackendConfig struct {
	BaseURL        string        `yaml:"baseURL"`                  // Base URL of the auth service
	Collection     string        `yaml:"collection,omitempty"`     // Auth collection (default: users)
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"` // Per-request transport timeout for discovery
}

// LoginConfig tunes a login attempt.
type LoginConfig struct {
	// Provider restricts login to the named provider. Empty means the first
	// provider the backend lists.
	Provider string `yaml:"provider,omitempty"`

	// OpenBrowser enables the browser round trip that obtains an
	// authorization code before the exchange.
	OpenBrowser bool `yaml:"openBrowser,omitempty"`

	// CallbackPort is the loopback port for the OAuth redirect.
	CallbackPort int `yaml:"callbackPort,omitempty"`

	// AuthorizeTimeout bounds one exchange. Zero leaves it unbounded.
	AuthorizeTimeout time.Duration `yaml:"authorizeTimeout,omitempty"`
}

// NotificationsConfig controls user-facing messages.
type NotificationsConfig struct {
	AutoDismiss time.Duration `yaml:"autoDismiss,omitempty"`
	Messages    Messages      `yaml:"messages,omitempty"`
}

// Messages holds the notification templates. Each is a Go template with
// sprig functions; fields are .Provider, .Reason and .Detail.
type Messages struct {
	NoProviders     string `yaml:"noProviders,omitempty"`
	ProviderMissing string `yaml:"providerMissing,omitempty"`
	DiscoveryFailed string `yaml:"discoveryFailed,omitempty"`
	NetworkError    string `yaml:"networkError,omitempty"`
	BackendError    string `yaml:"backendError,omitempty"`
	Canceled        string `yaml:"canceled,omitempty"`
}

// SessionConfig configures where a successful login is persisted.
type SessionConfig struct {
	StorageDir string `yaml:"storageDir,omitempty"`
}
