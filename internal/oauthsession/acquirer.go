package oauthsession

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"loginflow/internal/authmethods"
	"loginflow/pkg/logging"
)

// DefaultCallbackTimeout bounds the wait for the provider redirect.
const DefaultCallbackTimeout = 10 * time.Minute

var (
	// ErrNoAuthURL means the provider was listed without a consent URL.
	ErrNoAuthURL = errors.New("provider has no authorization URL")

	// ErrStateMismatch means the redirect did not belong to this attempt.
	ErrStateMismatch = errors.New("authorization state mismatch")
)

// Grant is an authorization code obtained from the provider.
type Grant struct {
	Code        string
	RedirectURL string
}

// CodeAcquirer obtains an authorization code for provider.
type CodeAcquirer interface {
	Acquire(ctx context.Context, provider authmethods.Provider) (*Grant, error)
}

// CallbackError is an error the provider reported on the redirect, such as
// access_denied.
type CallbackError struct {
	Code        string
	Description string
}

func (e *CallbackError) Error() string {
	return "provider returned error: " + e.Message()
}

// Message returns the most descriptive text available.
func (e *CallbackError) Message() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// BrowserCodeAcquirer sends the user to the provider's consent page and
// captures the redirect on a loopback server.
type BrowserCodeAcquirer struct {
	// CallbackPort is the loopback port. Zero picks a free port, which only
	// works with providers that accept any loopback port.
	CallbackPort int

	// OpenURL presents the consent URL. Defaults to OpenBrowser.
	OpenURL func(string) error

	// CallbackTimeout bounds the wait for the redirect. Defaults to
	// DefaultCallbackTimeout.
	CallbackTimeout time.Duration
}

// Acquire implements CodeAcquirer.
func (a *BrowserCodeAcquirer) Acquire(ctx context.Context, provider authmethods.Provider) (*Grant, error) {
	if provider.AuthURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAuthURL, provider.Name)
	}

	timeout := a.CallbackTimeout
	if timeout == 0 {
		timeout = DefaultCallbackTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	server := NewCallbackServer(a.CallbackPort)
	redirectURI, err := server.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer server.Stop()

	consentURL, err := withRedirect(provider.AuthURL, redirectURI)
	if err != nil {
		return nil, err
	}

	open := a.OpenURL
	if open == nil {
		open = OpenBrowser
	}
	if err := open(consentURL); err != nil {
		logging.Warn("OAuthSession", "Could not open a browser (%v); visit %s to continue", err, consentURL)
	}

	result, err := server.WaitForCallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s redirect: %w", provider.Name, err)
	}
	if result.IsError() {
		return nil, &CallbackError{Code: result.Error, Description: result.ErrorDescription}
	}
	if result.State != provider.AuthorizationState {
		return nil, ErrStateMismatch
	}
	if result.Code == "" {
		return nil, &CallbackError{Code: "missing_code", Description: "the provider did not return an authorization code"}
	}

	return &Grant{Code: result.Code, RedirectURL: redirectURI}, nil
}

// withRedirect adds redirectURI to the consent URL. PocketBase lists auth
// URLs ending in "redirect_uri=" for the client to complete.
func withRedirect(authURL, redirectURI string) (string, error) {
	if strings.HasSuffix(authURL, "redirect_uri=") {
		return authURL + url.QueryEscape(redirectURI), nil
	}
	u, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("invalid authorization URL: %w", err)
	}
	q := u.Query()
	q.Set("redirect_uri", redirectURI)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
