// Package backend is the HTTP client for the auth service.
//
// It speaks the PocketBase-style JSON API used by the discovery and OAuth2
// exchange endpoints. Every call returns one of three outcomes:
//
//   - success: the body was decoded into the result value
//   - *TransportError: the request never produced a response (DNS, refused,
//     timeout, TLS, canceled)
//   - *ResponseError: the server answered with a non-2xx status, or a 2xx
//     body that could not be decoded
//
// Callers map these onto their own error kinds.
package backend
