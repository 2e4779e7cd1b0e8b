// Package oauthsession performs the OAuth2 authorization round trip for a
// single provider.
//
// A Session posts the chosen provider to the auth service's
// auth-with-oauth2 endpoint and resolves to an Outcome: either a Success
// carrying the issued token and user record, or a Failure with a Reason.
// Authorize never returns a Go error; every failure is folded into the
// Outcome so the caller has exactly one value to branch on.
//
// When the backend requires an authorization code, a CodeAcquirer runs
// first. BrowserCodeAcquirer opens the provider's consent page and waits on a
// loopback CallbackServer for the redirect:
//
//	acquirer := &oauthsession.BrowserCodeAcquirer{CallbackPort: 3000}
//	session := oauthsession.New(oauthsession.Config{
//	    Client:     client,
//	    Collection: "users",
//	    Acquirer:   acquirer,
//	})
//	outcome := session.Authorize(ctx, provider)
//
// There is no implicit timeout. Config.Timeout opts into one.
package oauthsession
