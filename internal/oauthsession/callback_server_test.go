package oauthsession

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackServer_ReceivesOnce(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server := NewCallbackServer(0)
	redirect, err := server.Start(ctx)
	require.NoError(t, err)
	defer server.Stop()

	resp, err := http.Get(redirect + "?code=abc&state=xyz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Login complete")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	result, err := server.WaitForCallback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", result.Code)
	assert.Equal(t, "xyz", result.State)
	assert.False(t, result.IsError())

	resp, err = http.Get(redirect + "?code=again")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCallbackServer_ErrorPage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server := NewCallbackServer(0)
	redirect, err := server.Start(ctx)
	require.NoError(t, err)
	defer server.Stop()

	resp, err := http.Get(redirect + "?error=access_denied&error_description=nope")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "access_denied")
	assert.Contains(t, string(body), "nope")

	result, err := server.WaitForCallback(ctx)
	require.NoError(t, err)
	assert.True(t, result.IsError())
}

func TestCallbackServer_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := NewCallbackServer(0)
	_, err := server.Start(ctx)
	require.NoError(t, err)

	cancel()
	_, err = server.WaitForCallback(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	server.Stop()
}
