package login

import (
	"fmt"
	"strings"
	"text/template"

	"loginflow/internal/config"
	"loginflow/pkg/logging"

	"github.com/Masterminds/sprig/v3"
)

// MessageData is the data passed to notification templates.
type MessageData struct {
	// Provider is the provider's display name, or its name.
	Provider string
	// Reason is the failure kind, e.g. "network_error".
	Reason string
	// Detail is the backend's explanation, if any.
	Detail string
}

// Messages renders notification texts.
type Messages struct {
	noProviders     *template.Template
	providerMissing *template.Template
	discoveryFailed *template.Template
	networkError    *template.Template
	backendError    *template.Template
	canceled        *template.Template
}

// ParseMessages compiles the templates in cfg. Empty entries fall back to
// the defaults.
func ParseMessages(cfg config.Messages) (*Messages, error) {
	defaults := config.DefaultMessages()
	m := &Messages{}

	for _, entry := range []struct {
		name     string
		text     string
		fallback string
		dst      **template.Template
	}{
		{"noProviders", cfg.NoProviders, defaults.NoProviders, &m.noProviders},
		{"providerMissing", cfg.ProviderMissing, defaults.ProviderMissing, &m.providerMissing},
		{"discoveryFailed", cfg.DiscoveryFailed, defaults.DiscoveryFailed, &m.discoveryFailed},
		{"networkError", cfg.NetworkError, defaults.NetworkError, &m.networkError},
		{"backendError", cfg.BackendError, defaults.BackendError, &m.backendError},
		{"canceled", cfg.Canceled, defaults.Canceled, &m.canceled},
	} {
		text := entry.text
		if strings.TrimSpace(text) == "" {
			text = entry.fallback
		}
		tmpl, err := template.New(entry.name).Funcs(sprig.TxtFuncMap()).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("invalid %s message template: %w", entry.name, err)
		}
		*entry.dst = tmpl
	}
	return m, nil
}

// DefaultMessages returns the built-in messages.
func DefaultMessages() *Messages {
	m, err := ParseMessages(config.DefaultMessages())
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Messages) render(tmpl *template.Template, data MessageData) string {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		logging.Error("Login", err, "Failed to render %s message", tmpl.Name())
		return "Login failed"
	}
	return b.String()
}
