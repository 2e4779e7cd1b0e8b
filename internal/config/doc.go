// Package config loads loginflow configuration.
//
// Configuration lives in a single directory, by default ~/.config/loginflow,
// which may contain a config.yaml:
//
//	backend:
//	  baseURL: https://auth.example.com
//	  collection: users
//	  requestTimeout: 30s
//	login:
//	  provider: github
//	  openBrowser: true
//	  callbackPort: 3000
//	  authorizeTimeout: 0s
//	notifications:
//	  autoDismiss: 0s
//	  messages:
//	    noProviders: No OAuth2 providers configured
//	session:
//	  storageDir: ~/.config/loginflow/session
//
// A missing config.yaml is not an error: defaults apply. Zero durations for
// authorizeTimeout and autoDismiss mean "never".
package config
