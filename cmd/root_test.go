package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"loginflow/internal/cli"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService serves the two endpoints the CLI talks to.
type fakeAuthService struct {
	methods       string
	exchange      string
	exchangeCode  int
	methodsCalls  atomic.Int32
	exchangeCalls atomic.Int32
}

func newFakeAuthService(t *testing.T, svc *fakeAuthService) string {
	t.Helper()
	if svc.exchangeCode == 0 {
		svc.exchangeCode = http.StatusOK
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/collections/users/auth-methods":
			svc.methodsCalls.Add(1)
			_, _ = w.Write([]byte(svc.methods))
		case "/api/collections/users/auth-with-oauth2":
			svc.exchangeCalls.Add(1)
			w.WriteHeader(svc.exchangeCode)
			_, _ = w.Write([]byte(svc.exchange))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server.URL
}

// runCLI executes a fresh command tree with a private config directory.
func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)
	assert.Equal(t, testVersion, GetVersion())
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "loginflow", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"login", "methods", "status", "logout", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"config", "base-url", "debug", "quiet"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "loginflow version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	require.NoError(t, testCmd.Execute())
	assert.Equal(t, "loginflow version 1.0.0\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	out, err := runCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "loginflow version 1.2.3\n", out)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"generic", errors.New("boom"), ExitCodeError},
		{"login failed", &cli.LoginFailedError{Reason: "backend_error"}, ExitCodeLoginFailed},
		{"wrapped login failed", fmt.Errorf("outer: %w", &cli.LoginFailedError{}), ExitCodeLoginFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestPrintError(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetErr(&buf)

	printError(cmd, &cli.LoginFailedError{Message: "already shown"})
	assert.Empty(t, buf.String())

	printError(cmd, errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend:\n  baseURL: not-a-url\n"), 0600))

	_, err := runCLI(t, dir, "methods")
	require.Error(t, err)
	assert.Equal(t, ExitCodeError, getExitCode(err))
}

func TestInvalidBaseURLFlag(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "--base-url", "ftp://example.com", "methods")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --base-url")
}

func TestRootCmdIsInitialized(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "loginflow", rootCmd.Use)

	SetVersion("4.5.6")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--config", t.TempDir(), "version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "loginflow version 4.5.6\n", buf.String())
}

func TestLogLevelFlags(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, err := runCLI(t, t.TempDir(), "--log-level", "verbose", "version")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --log-level")
		assert.Equal(t, ExitCodeError, getExitCode(err))
	})

	t.Run("debug writes subsystem logs", func(t *testing.T) {
		out, err := runCLI(t, t.TempDir(), "--debug", "--base-url", "http://127.0.0.1:1", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "subsystem=CLI")
	})

	t.Run("quiet silences logging", func(t *testing.T) {
		out, err := runCLI(t, t.TempDir(), "--quiet", "--debug", "--base-url", "http://127.0.0.1:1", "status")
		require.NoError(t, err)
		assert.NotContains(t, out, "subsystem=")
	})
}
