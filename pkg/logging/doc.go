// Package logging provides subsystem-tagged structured logging for loginflow.
//
// It is a thin layer over log/slog. Every entry carries a subsystem
// attribute so output from the controller, the resolver and the OAuth
// session can be told apart:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Login", "Authorizing with provider %s", name)
//	logging.Error("AuthMethods", err, "Discovery failed")
//
// Until InitForCLI is called, entries at Warn and above go to stderr and the
// rest are dropped.
//
// Token values must never be passed to this package.
package logging
