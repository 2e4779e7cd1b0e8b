package backend

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	pkgstrings "loginflow/pkg/strings"
)

// TransportErrorKind categorizes a failed request that got no response.
type TransportErrorKind int

const (
	// TransportUnknown is an unclassified transport failure.
	TransportUnknown TransportErrorKind = iota
	// TransportNetwork covers refused, reset and unreachable connections.
	TransportNetwork
	// TransportDNS is a name resolution failure.
	TransportDNS
	// TransportTimeout is a deadline or dial timeout.
	TransportTimeout
	// TransportTLS is a certificate or handshake failure.
	TransportTLS
	// TransportCanceled means the caller's context was canceled.
	TransportCanceled
)

// String returns a human-readable name for the kind.
func (k TransportErrorKind) String() string {
	switch k {
	case TransportNetwork:
		return "network error"
	case TransportDNS:
		return "DNS resolution error"
	case TransportTimeout:
		return "timeout"
	case TransportTLS:
		return "TLS certificate error"
	case TransportCanceled:
		return "canceled"
	default:
		return "connection error"
	}
}

// TransportError is returned when a request produced no HTTP response.
type TransportError struct {
	Method string
	URL    string
	Kind   TransportErrorKind
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ClassifyTransportError wraps err in a TransportError with the matching kind.
func ClassifyTransportError(err error, method, rawURL string) *TransportError {
	return &TransportError{
		Method: method,
		URL:    rawURL,
		Kind:   classify(err),
		Err:    err,
	}
}

func classify(err error) TransportErrorKind {
	if errors.Is(err, context.Canceled) {
		return TransportCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TransportTimeout
	}

	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	if errors.As(err, &certErr) || errors.As(err, &hostErr) || errors.As(err, &unknownAuthErr) {
		return TransportTLS
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return TransportDNS
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return TransportTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportTimeout
	}

	errStr := err.Error()
	if strings.Contains(errStr, "x509:") || strings.Contains(errStr, "tls:") {
		return TransportTLS
	}
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"EOF",
	} {
		if strings.Contains(errStr, keyword) {
			return TransportNetwork
		}
	}
	return TransportUnknown
}

// ResponseError is returned for non-2xx responses and undecodable bodies.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int

	// Message is the backend's "message" field, or a short description.
	Message string

	// Data is the backend's "data" field (per-field validation errors).
	Data map[string]any

	// Malformed is set when a 2xx body could not be decoded.
	Malformed bool

	Err error
}

func (e *ResponseError) Error() string {
	if e.Malformed {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// apiError is the PocketBase error envelope.
type apiError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// maxBodyMessageLen bounds how much of a non-JSON error body is kept.
const maxBodyMessageLen = 203

func newResponseError(method, path string, status int, body []byte) *ResponseError {
	rerr := &ResponseError{
		Method:     method,
		Path:       path,
		StatusCode: status,
	}

	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		rerr.Message = envelope.Message
		rerr.Data = envelope.Data
		return rerr
	}

	msg := pkgstrings.Truncate(string(body), maxBodyMessageLen)
	if msg == "" {
		msg = http.StatusText(status)
	}
	rerr.Message = msg
	return rerr
}
