package login

import (
	"context"

	"loginflow/internal/oauthsession"
)

// ResultKind says how a click was resolved.
type ResultKind int

const (
	// ResultNoProviders means discovery found no OAuth2 providers.
	ResultNoProviders ResultKind = iota + 1
	// ResultProviderMissing means the selector rejected every provider.
	ResultProviderMissing
	// ResultDiscoveryFailed means discovery itself failed.
	ResultDiscoveryFailed
	// ResultAuthorizationFailed means the exchange failed.
	ResultAuthorizationFailed
	// ResultAuthorized means the user is logged in.
	ResultAuthorized
)

// String returns the kind's name.
func (k ResultKind) String() string {
	switch k {
	case ResultNoProviders:
		return "no_providers"
	case ResultProviderMissing:
		return "provider_missing"
	case ResultDiscoveryFailed:
		return "discovery_failed"
	case ResultAuthorizationFailed:
		return "authorization_failed"
	case ResultAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Result is the resolution of one accepted click.
type Result struct {
	Kind ResultKind

	// Provider is the selected provider name, when one was selected.
	Provider string

	// Success is set for ResultAuthorized.
	Success *oauthsession.Success

	// Failure is set for ResultAuthorizationFailed.
	Failure *oauthsession.Failure

	// Err is the discovery error for ResultDiscoveryFailed, or the handoff
	// error for ResultAuthorized.
	Err error

	// Notification is the text shown to the user, if any.
	Notification string
}

// Attempt tracks one accepted click until it is resolved.
type Attempt struct {
	done   chan struct{}
	result Result
}

func newAttempt() *Attempt {
	return &Attempt{done: make(chan struct{})}
}

func (a *Attempt) finish(r Result) {
	a.result = r
	close(a.done)
}

// Done is closed when the click has been fully handled.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the click is resolved or ctx ends.
func (a *Attempt) Wait(ctx context.Context) (Result, error) {
	select {
	case <-a.done:
		return a.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Outcome returns the result if the attempt has finished.
func (a *Attempt) Outcome() (Result, bool) {
	select {
	case <-a.done:
		return a.result, true
	default:
		return Result{}, false
	}
}
