package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"loginflow/internal/authmethods"
	"loginflow/internal/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFailedError(t *testing.T) {
	t.Run("message is the notification", func(t *testing.T) {
		err := &LoginFailedError{Provider: "github", Reason: "backend_error", Message: "Login with Github failed"}
		assert.Equal(t, "Login with Github failed", err.Error())
	})

	t.Run("falls back to reason", func(t *testing.T) {
		assert.Equal(t, "login with github failed: network_error", (&LoginFailedError{Provider: "github", Reason: "network_error"}).Error())
		assert.Equal(t, "login failed: no_providers", (&LoginFailedError{Reason: "no_providers"}).Error())
	})

	t.Run("errors.Is and errors.As work when wrapped", func(t *testing.T) {
		cause := errors.New("boom")
		wrapped := fmt.Errorf("login: %w", &LoginFailedError{Reason: "backend_error", Err: cause})

		assert.True(t, errors.Is(wrapped, &LoginFailedError{}))
		assert.True(t, errors.Is(wrapped, cause))

		var lf *LoginFailedError
		require.True(t, errors.As(wrapped, &lf))
		assert.Equal(t, "backend_error", lf.Reason)
	})
}

func TestExplain(t *testing.T) {
	const baseURL = "http://127.0.0.1:8090"

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "dns",
			err:      &backend.TransportError{Method: "GET", URL: baseURL, Kind: backend.TransportDNS, Err: errors.New("no such host")},
			contains: "cannot resolve the auth service host",
		},
		{
			name:     "tls",
			err:      &backend.TransportError{Kind: backend.TransportTLS, Err: errors.New("x509: unknown authority")},
			contains: "TLS certificate error",
		},
		{
			name:     "timeout",
			err:      &backend.TransportError{Kind: backend.TransportTimeout, Err: context.DeadlineExceeded},
			contains: "timed out waiting for",
		},
		{
			name:     "refused",
			err:      &authmethods.DiscoveryError{Err: &backend.TransportError{Kind: backend.TransportNetwork, Err: errors.New("connection refused")}},
			contains: "cannot reach the auth service",
		},
		{
			name:     "not found",
			err:      &backend.ResponseError{Method: "GET", Path: "/api/collections/users/auth-methods", StatusCode: 404, Message: "Missing collection"},
			contains: "does not look like an auth service",
		},
		{
			name:     "malformed",
			err:      &authmethods.DiscoveryError{Err: authmethods.ErrMalformedResponse},
			contains: "unexpected auth-methods document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Explain(tt.err, baseURL)
			require.Error(t, got)
			assert.Contains(t, got.Error(), tt.contains)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Explain(nil, baseURL))
	})

	t.Run("canceled is unchanged", func(t *testing.T) {
		err := &backend.TransportError{Kind: backend.TransportCanceled, Err: context.Canceled}
		assert.Same(t, err, Explain(err, baseURL))
	})

	t.Run("other errors are unchanged", func(t *testing.T) {
		err := errors.New("something else")
		assert.Equal(t, err, Explain(err, baseURL))
	})
}

func TestParseOutputFormat(t *testing.T) {
	f, err := ParseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, OutputFormatTable, f)

	f, err = ParseOutputFormat("json")
	require.NoError(t, err)
	assert.Equal(t, OutputFormatJSON, f)

	_, err = ParseOutputFormat("yaml")
	assert.ErrorContains(t, err, "unsupported output format")
}
