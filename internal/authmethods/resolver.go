// Package authmethods discovers which authentication methods the auth
// service has configured.
package authmethods

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loginflow/internal/backend"
	"loginflow/pkg/logging"
)

// Provider is one configured OAuth2 provider, in the form the backend lists it.
type Provider struct {
	Name string

	// AuthorizationState correlates the redirect and exchange with this
	// discovery call. Opaque to the client.
	AuthorizationState string

	DisplayName         string
	AuthURL             string
	CodeVerifier        string
	CodeChallenge       string
	CodeChallengeMethod string
}

// Snapshot is the immutable result of one discovery call.
type Snapshot struct {
	providers            []Provider
	PasswordLoginEnabled bool
	EmailPasswordEnabled bool
	ResolvedAt           time.Time
}

// Providers returns a copy of the providers in backend order.
func (s *Snapshot) Providers() []Provider {
	out := make([]Provider, len(s.providers))
	copy(out, s.providers)
	return out
}

// HasProviders reports whether at least one OAuth2 provider is configured.
func (s *Snapshot) HasProviders() bool {
	return len(s.providers) > 0
}

// NewSnapshot builds a snapshot from already-parsed providers.
func NewSnapshot(providers []Provider, passwordLogin bool) *Snapshot {
	s := &Snapshot{
		providers:            make([]Provider, len(providers)),
		PasswordLoginEnabled: passwordLogin,
		ResolvedAt:           time.Now(),
	}
	copy(s.providers, providers)
	return s
}

// DiscoveryError means the discovery call could not be completed.
type DiscoveryError struct {
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("auth methods discovery failed: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// ErrMalformedResponse is wrapped by DiscoveryError when the body decoded but
// is not a usable auth-methods document.
var ErrMalformedResponse = errors.New("malformed auth-methods response")

type providerInfo struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	DisplayName         string `json:"displayName,omitempty"`
	AuthURL             string `json:"authUrl,omitempty"`
	CodeVerifier        string `json:"codeVerifier,omitempty"`
	CodeChallenge       string `json:"codeChallenge,omitempty"`
	CodeChallengeMethod string `json:"codeChallengeMethod,omitempty"`
}

type authMethodsResponse struct {
	AuthProviders    *[]providerInfo `json:"authProviders"`
	UsernamePassword bool            `json:"usernamePassword"`
	EmailPassword    bool            `json:"emailPassword"`
}

// Resolver fetches auth methods for one collection.
type Resolver struct {
	client     *backend.Client
	collection string
	timeout    time.Duration
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	Client     *backend.Client
	Collection string

	// Timeout bounds a single discovery call. Zero means no bound beyond
	// the caller's context.
	Timeout time.Duration
}

// NewResolver creates a resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		client:     cfg.Client,
		collection: cfg.Collection,
		timeout:    cfg.Timeout,
	}
}

// Resolve performs one discovery call. There are no retries; any failure is
// returned as a *DiscoveryError.
func (r *Resolver) Resolve(ctx context.Context) (*Snapshot, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var resp authMethodsResponse
	if err := r.client.Get(ctx, backend.CollectionPath(r.collection, "auth-methods"), &resp); err != nil {
		logging.Warn("AuthMethods", "Discovery against %s failed: %v", r.client.BaseURL(), err)
		return nil, &DiscoveryError{Err: err}
	}

	// A document without the providers list is not an auth-methods response.
	if resp.AuthProviders == nil {
		return nil, &DiscoveryError{Err: ErrMalformedResponse}
	}

	providers := make([]Provider, 0, len(*resp.AuthProviders))
	for i, p := range *resp.AuthProviders {
		if p.Name == "" {
			return nil, &DiscoveryError{Err: fmt.Errorf("%w: provider %d has no name", ErrMalformedResponse, i)}
		}
		providers = append(providers, Provider{
			Name:                p.Name,
			AuthorizationState:  p.State,
			DisplayName:         p.DisplayName,
			AuthURL:             p.AuthURL,
			CodeVerifier:        p.CodeVerifier,
			CodeChallenge:       p.CodeChallenge,
			CodeChallengeMethod: p.CodeChallengeMethod,
		})
	}

	snapshot := NewSnapshot(providers, resp.UsernamePassword)
	snapshot.EmailPasswordEnabled = resp.EmailPassword

	logging.Debug("AuthMethods", "Discovered %d OAuth2 provider(s), password login: %t",
		len(providers), resp.UsernamePassword)
	return snapshot, nil
}
