// Package cli provides the terminal presentation for loginflow commands.
//
// Presenter renders a login controller on a terminal: a spinner while the
// control reads "Authorizing...", and every notification as a colored line.
// RenderMethods and RenderSession print discovery results and stored
// sessions as tables or JSON.
//
// Errors returned by commands are typed so the command layer can map them to
// exit codes: a *LoginFailedError means the login itself did not succeed.
// Explain turns backend errors into messages with actionable guidance.
package cli
