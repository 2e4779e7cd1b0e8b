package cli

import (
	"errors"
	"fmt"
	"net/http"

	"loginflow/internal/authmethods"
	"loginflow/internal/backend"
)

// LoginFailedError indicates the login flow finished without logging in.
type LoginFailedError struct {
	// Provider is the provider that was tried, if any.
	Provider string
	// Reason is the short failure kind, e.g. "backend_error".
	Reason string
	// Message is the notification shown to the user.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error returns the user-facing message.
func (e *LoginFailedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Provider != "" {
		return fmt.Sprintf("login with %s failed: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("login failed: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *LoginFailedError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is() to work with wrapped errors.
func (e *LoginFailedError) Is(target error) bool {
	_, ok := target.(*LoginFailedError)
	return ok
}

// Explain adds guidance to errors from talking to the auth service at baseURL.
// Other errors are returned unchanged.
func Explain(err error, baseURL string) error {
	if err == nil {
		return nil
	}

	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		switch transportErr.Kind {
		case backend.TransportDNS:
			return fmt.Errorf("cannot resolve the auth service host in %s\n\nCheck the --base-url flag or backend.baseURL in your config: %w", baseURL, err)
		case backend.TransportTLS:
			return fmt.Errorf("TLS certificate error talking to %s\n\nThe server's certificate is not trusted by this machine: %w", baseURL, err)
		case backend.TransportTimeout:
			return fmt.Errorf("timed out waiting for %s\n\nThe server may be overloaded, or backend.requestTimeout may be too low: %w", baseURL, err)
		case backend.TransportCanceled:
			return err
		default:
			return fmt.Errorf("cannot reach the auth service at %s\n\nIs it running? %w", baseURL, err)
		}
	}

	var responseErr *backend.ResponseError
	if errors.As(err, &responseErr) && responseErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s does not look like an auth service, or the auth collection does not exist: %w", baseURL, err)
	}

	var discoveryErr *authmethods.DiscoveryError
	if errors.As(err, &discoveryErr) && errors.Is(err, authmethods.ErrMalformedResponse) {
		return fmt.Errorf("%s returned an unexpected auth-methods document: %w", baseURL, err)
	}

	return err
}
