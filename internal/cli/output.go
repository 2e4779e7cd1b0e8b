package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"loginflow/internal/authmethods"
	"loginflow/internal/session"
	pkgstrings "loginflow/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const maxDisplayNameLen = 40

type methodsView struct {
	Providers        []providerView `json:"providers"`
	UsernamePassword bool           `json:"usernamePassword"`
	EmailPassword    bool           `json:"emailPassword"`
	ResolvedAt       time.Time      `json:"resolvedAt"`
}

type providerView struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	PKCE        string `json:"pkce,omitempty"`
	AuthURL     string `json:"authUrl,omitempty"`
}

// RenderMethods prints a discovery result.
func RenderMethods(w io.Writer, snapshot *authmethods.Snapshot, format OutputFormat) error {
	view := methodsView{
		Providers:        []providerView{},
		UsernamePassword: snapshot.PasswordLoginEnabled,
		EmailPassword:    snapshot.EmailPasswordEnabled,
		ResolvedAt:       snapshot.ResolvedAt,
	}
	for _, p := range snapshot.Providers() {
		view.Providers = append(view.Providers, providerView{
			Name:        p.Name,
			DisplayName: p.DisplayName,
			PKCE:        p.CodeChallengeMethod,
			AuthURL:     p.AuthURL,
		})
	}

	if format == OutputFormatJSON {
		return writeJSON(w, view)
	}

	if len(view.Providers) == 0 {
		fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("⚠"), text.FgYellow.Sprint("No OAuth2 providers configured"))
	} else {
		t := newTable(w)
		t.AppendHeader(table.Row{
			text.FgHiCyan.Sprint("PROVIDER"),
			text.FgHiCyan.Sprint("DISPLAY NAME"),
			text.FgHiCyan.Sprint("PKCE"),
		})
		for _, p := range view.Providers {
			t.AppendRow(table.Row{
				text.Bold.Sprint(p.Name),
				orDash(pkgstrings.Truncate(p.DisplayName, maxDisplayNameLen)),
				orDash(p.PKCE),
			})
		}
		t.Render()
	}

	fmt.Fprintf(w, "Password login: %s\n", enabled(view.UsernamePassword))
	return nil
}

type sessionView struct {
	User       string     `json:"user"`
	RecordID   string     `json:"recordId"`
	Provider   string     `json:"provider"`
	BaseURL    string     `json:"baseUrl"`
	Collection string     `json:"collection"`
	LoggedInAt time.Time  `json:"loggedInAt"`
	Expires    *time.Time `json:"expires,omitempty"`
	Expired    bool       `json:"expired"`
}

// RenderSession prints a stored session as seen at now.
func RenderSession(w io.Writer, s *session.Session, now time.Time, format OutputFormat) error {
	view := sessionView{
		User:       s.DisplayName,
		RecordID:   s.RecordID,
		Provider:   s.Provider,
		BaseURL:    s.BaseURL,
		Collection: s.Collection,
		LoggedInAt: s.CreatedAt,
		Expired:    s.ExpiredAt(now),
	}
	if !s.Expiry.IsZero() {
		exp := s.Expiry
		view.Expires = &exp
	}

	if format == OutputFormatJSON {
		return writeJSON(w, view)
	}

	t := newTable(w)
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("User"), text.Bold.Sprint(orDash(view.User))})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Record"), view.RecordID})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Provider"), view.Provider})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Server"), fmt.Sprintf("%s (%s)", view.BaseURL, view.Collection)})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Logged in"), view.LoggedInAt.Local().Format(time.RFC1123)})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Expires"), formatExpiry(view.Expires, view.Expired, now)})
	t.Render()
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatExpiry(exp *time.Time, expired bool, now time.Time) string {
	if exp == nil {
		return "unknown"
	}
	if expired {
		return text.FgRed.Sprint("expired")
	}
	return fmt.Sprintf("in %s", exp.Sub(now).Round(time.Minute))
}

func enabled(b bool) string {
	if b {
		return text.FgGreen.Sprint("enabled")
	}
	return "disabled"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
