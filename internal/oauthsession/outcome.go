package oauthsession

import "fmt"

// ErrorKind classifies why an authorization attempt failed.
type ErrorKind int

const (
	// NetworkError is a transport failure: no usable response arrived.
	NetworkError ErrorKind = iota + 1
	// BackendError is a non-2xx or malformed response, or a provider refusal.
	BackendError
	// Canceled means the caller abandoned the attempt.
	Canceled
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case NetworkError:
		return "network_error"
	case BackendError:
		return "backend_error"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Success is a completed authorization.
type Success struct {
	Provider    string
	Token       string
	RecordID    string
	DisplayName string

	// Record is the full user record as returned by the backend.
	Record map[string]any
}

// Failure is a failed authorization.
type Failure struct {
	Provider string
	Reason   ErrorKind

	// Detail is a user-presentable explanation from the backend, if any.
	Detail string

	Err error
}

func (f *Failure) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("oauth2 %s with %s: %s", f.Reason, f.Provider, f.Detail)
	}
	return fmt.Sprintf("oauth2 %s with %s: %v", f.Reason, f.Provider, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Outcome is exactly one of Success or Failure.
type Outcome struct {
	Success *Success
	Failure *Failure
}

// OK reports whether the attempt succeeded.
func (o Outcome) OK() bool {
	return o.Success != nil
}
