// Package session persists the result of a successful login.
//
// A session is stored per backend (base URL and auth collection) as a JSON
// file under the storage directory. Files are created with 0600 permissions
// inside a 0700 directory, and token values are never logged.
//
// The access token's expiry is read from its "exp" claim. The token is not
// verified: the backend that issued it is the only party that can do that.
package session
