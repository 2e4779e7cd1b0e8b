package oauthsession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loginflow/internal/authmethods"
	"loginflow/internal/backend"
	"loginflow/pkg/logging"
)

// Config configures a Session.
type Config struct {
	Client     *backend.Client
	Collection string

	// Acquirer obtains an authorization code before the exchange. When nil
	// the exchange carries only the provider name and state.
	Acquirer CodeAcquirer

	// Timeout bounds the whole attempt. Zero means unbounded.
	Timeout time.Duration
}

// Session performs OAuth2 authorizations against one auth collection.
type Session struct {
	client     *backend.Client
	collection string
	acquirer   CodeAcquirer
	timeout    time.Duration
}

// New creates a Session.
func New(cfg Config) *Session {
	return &Session{
		client:     cfg.Client,
		collection: cfg.Collection,
		acquirer:   cfg.Acquirer,
		timeout:    cfg.Timeout,
	}
}

type exchangeRequest struct {
	Provider     string `json:"provider"`
	State        string `json:"state,omitempty"`
	Code         string `json:"code,omitempty"`
	CodeVerifier string `json:"codeVerifier,omitempty"`
	RedirectURL  string `json:"redirectUrl,omitempty"`
}

type exchangeResponse struct {
	Token  string         `json:"token"`
	Record map[string]any `json:"record"`
}

// Authorize runs one authorization round trip for provider.
func (s *Session) Authorize(ctx context.Context, provider authmethods.Provider) Outcome {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req := exchangeRequest{
		Provider: provider.Name,
		State:    provider.AuthorizationState,
	}

	if s.acquirer != nil {
		grant, err := s.acquirer.Acquire(ctx, provider)
		if err != nil {
			return s.fail(ctx, provider.Name, err)
		}
		req.Code = grant.Code
		req.CodeVerifier = provider.CodeVerifier
		req.RedirectURL = grant.RedirectURL
	}

	started := time.Now()
	logging.Debug("OAuthSession", "Exchanging authorization for provider %s", provider.Name)

	var resp exchangeResponse
	path := backend.CollectionPath(s.collection, "auth-with-oauth2")
	if err := s.client.Post(ctx, path, req, &resp); err != nil {
		return s.fail(ctx, provider.Name, err)
	}

	recordID, _ := resp.Record["id"].(string)
	if resp.Token == "" || recordID == "" {
		return s.fail(ctx, provider.Name, &backend.ResponseError{
			Method:    "POST",
			Path:      path,
			Message:   "response is missing token or record id",
			Malformed: true,
		})
	}

	logging.Info("OAuthSession", "Authorized record %s via %s in %s",
		recordID, provider.Name, time.Since(started).Round(time.Millisecond))

	return Outcome{Success: &Success{
		Provider:    provider.Name,
		Token:       resp.Token,
		RecordID:    recordID,
		DisplayName: displayName(resp.Record),
		Record:      resp.Record,
	}}
}

func (s *Session) fail(ctx context.Context, provider string, err error) Outcome {
	f := &Failure{
		Provider: provider,
		Reason:   classify(ctx, err),
		Err:      err,
	}

	var rerr *backend.ResponseError
	var cerr *CallbackError
	switch {
	case errors.As(err, &rerr) && !rerr.Malformed:
		f.Detail = rerr.Message
	case errors.As(err, &cerr):
		f.Detail = cerr.Message()
	}

	logging.Warn("OAuthSession", "Authorization with %s failed (%s): %v", provider, f.Reason, err)
	return Outcome{Failure: f}
}

func classify(ctx context.Context, err error) ErrorKind {
	// Only the caller's own cancellation counts as Canceled; an expired
	// Timeout is a network failure.
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return Canceled
	}

	var rerr *backend.ResponseError
	var cerr *CallbackError
	switch {
	case errors.As(err, &rerr):
		return BackendError
	case errors.As(err, &cerr), errors.Is(err, ErrStateMismatch), errors.Is(err, ErrNoAuthURL):
		return BackendError
	default:
		return NetworkError
	}
}

func displayName(record map[string]any) string {
	for _, key := range []string{"name", "username", "email"} {
		if v, ok := record[key].(string); ok && v != "" {
			return v
		}
	}
	id, _ := record["id"].(string)
	return fmt.Sprintf("user %s", id)
}
