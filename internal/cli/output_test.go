package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"loginflow/internal/authmethods"
	"loginflow/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMethods(t *testing.T) {
	snapshot := authmethods.NewSnapshot([]authmethods.Provider{
		{Name: "github", DisplayName: "GitHub", CodeChallengeMethod: "S256"},
		{Name: "gitlab"},
	}, true)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderMethods(&buf, snapshot, OutputFormatTable))

		out := buf.String()
		assert.Contains(t, out, "PROVIDER")
		assert.Contains(t, out, "github")
		assert.Contains(t, out, "GitHub")
		assert.Contains(t, out, "S256")
		assert.Contains(t, out, "gitlab")
		assert.Contains(t, out, "Password login:")
		assert.Contains(t, out, "enabled")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderMethods(&buf, snapshot, OutputFormatJSON))

		var got methodsView
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Providers, 2)
		assert.Equal(t, "github", got.Providers[0].Name)
		assert.Equal(t, "S256", got.Providers[0].PKCE)
		assert.True(t, got.UsernamePassword)
		assert.WithinDuration(t, snapshot.ResolvedAt, got.ResolvedAt, time.Second)
	})

	t.Run("no providers", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderMethods(&buf, authmethods.NewSnapshot(nil, false), OutputFormatTable))
		assert.Contains(t, buf.String(), "No OAuth2 providers configured")
		assert.Contains(t, buf.String(), "disabled")

		buf.Reset()
		require.NoError(t, RenderMethods(&buf, authmethods.NewSnapshot(nil, false), OutputFormatJSON))
		assert.Contains(t, buf.String(), `"providers": []`)
	})
}

func TestRenderSession(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &session.Session{
		AccessToken: "secret-token",
		Expiry:      now.Add(2 * time.Hour),
		BaseURL:     "http://127.0.0.1:8090",
		Collection:  "users",
		Provider:    "github",
		RecordID:    "123",
		DisplayName: "Test User",
		CreatedAt:   now.Add(-time.Hour),
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderSession(&buf, s, now, OutputFormatTable))

		out := buf.String()
		assert.Contains(t, out, "Test User")
		assert.Contains(t, out, "github")
		assert.Contains(t, out, "http://127.0.0.1:8090 (users)")
		assert.Contains(t, out, "in 2h0m0s")
		assert.NotContains(t, out, "secret-token")
	})

	t.Run("expired", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderSession(&buf, s, now.Add(3*time.Hour), OutputFormatTable))
		assert.Contains(t, buf.String(), "expired")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderSession(&buf, s, now, OutputFormatJSON))

		var got sessionView
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "Test User", got.User)
		assert.False(t, got.Expired)
		require.NotNil(t, got.Expires)
		assert.NotContains(t, buf.String(), "secret-token")
	})

	t.Run("unknown expiry", func(t *testing.T) {
		opaque := *s
		opaque.Expiry = time.Time{}

		var buf bytes.Buffer
		require.NoError(t, RenderSession(&buf, &opaque, now, OutputFormatTable))
		assert.Contains(t, buf.String(), "unknown")
	})
}
