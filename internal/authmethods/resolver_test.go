package authmethods

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"loginflow/internal/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) (*Resolver, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return NewResolver(ResolverConfig{
		Client:     backend.NewClient(backend.Config{BaseURL: server.URL}),
		Collection: "users",
	}), &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestResolver_NoProviders(t *testing.T) {
	resolver, _ := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/collections/users/auth-methods", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"authProviders":[],"usernamePassword":true}`)
	})

	snapshot, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.False(t, snapshot.HasProviders())
	assert.Empty(t, snapshot.Providers())
	assert.True(t, snapshot.PasswordLoginEnabled)
}

func TestResolver_ProvidersKeepBackendOrder(t *testing.T) {
	resolver, _ := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"usernamePassword": false,
			"emailPassword": true,
			"authProviders": [
				{"name":"github","state":"123","displayName":"GitHub","authUrl":"https://github.com/login/oauth/authorize?client_id=x","codeVerifier":"v","codeChallenge":"c","codeChallengeMethod":"S256"},
				{"name":"google","state":"456"}
			]
		}`)
	})

	snapshot, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	require.True(t, snapshot.HasProviders())

	providers := snapshot.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, Provider{
		Name:                "github",
		AuthorizationState:  "123",
		DisplayName:         "GitHub",
		AuthURL:             "https://github.com/login/oauth/authorize?client_id=x",
		CodeVerifier:        "v",
		CodeChallenge:       "c",
		CodeChallengeMethod: "S256",
	}, providers[0])
	assert.Equal(t, "google", providers[1].Name)
	assert.Equal(t, "456", providers[1].AuthorizationState)
	assert.False(t, snapshot.PasswordLoginEnabled)
	assert.True(t, snapshot.EmailPasswordEnabled)
}

func TestResolver_SnapshotIsImmutable(t *testing.T) {
	resolver, _ := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"authProviders":[{"name":"github","state":"1"}]}`)
	})

	snapshot, err := resolver.Resolve(context.Background())
	require.NoError(t, err)

	providers := snapshot.Providers()
	providers[0].Name = "mutated"
	assert.Equal(t, "github", snapshot.Providers()[0].Name)
}

func TestResolver_EachCallHitsBackend(t *testing.T) {
	resolver, calls := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"authProviders":[]}`)
	})

	for i := 0; i < 3; i++ {
		_, err := resolver.Resolve(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestResolver_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"code":500,"message":"boom"}`, nil},
		{"not found", http.StatusNotFound, `{"code":404,"message":"Missing collection context."}`, nil},
		{"invalid json", http.StatusOK, `{"authProviders":`, nil},
		{"missing providers", http.StatusOK, `{"usernamePassword":true}`, ErrMalformedResponse},
		{"unnamed provider", http.StatusOK, `{"authProviders":[{"state":"1"}]}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, calls := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			snapshot, err := resolver.Resolve(context.Background())
			assert.Nil(t, snapshot)

			var derr *DiscoveryError
			require.True(t, errors.As(err, &derr), "expected DiscoveryError, got %T", err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			// No retries inside the resolver.
			assert.Equal(t, int32(1), atomic.LoadInt32(calls))
		})
	}
}

func TestResolver_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	resolver := NewResolver(ResolverConfig{
		Client:     backend.NewClient(backend.Config{BaseURL: url}),
		Collection: "users",
	})

	_, err := resolver.Resolve(context.Background())

	var terr *backend.TransportError
	require.True(t, errors.As(err, &terr))
	var derr *DiscoveryError
	assert.True(t, errors.As(err, &derr))
}

func TestResolver_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	resolver := NewResolver(ResolverConfig{
		Client:     backend.NewClient(backend.Config{BaseURL: server.URL}),
		Collection: "users",
		Timeout:    50 * time.Millisecond,
	})

	_, err := resolver.Resolve(context.Background())
	var terr *backend.TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, backend.TransportTimeout, terr.Kind)
}
