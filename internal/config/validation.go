package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks a fully defaulted configuration.
func Validate(cfg LoginflowConfig) error {
	var errs ValidationErrors

	if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		errs.Add("backend.baseURL", "is required")
	} else if u, err := url.Parse(cfg.Backend.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs.Add("backend.baseURL", "must be an absolute http(s) URL", cfg.Backend.BaseURL)
	}

	if strings.ContainsAny(cfg.Backend.Collection, "/?# ") {
		errs.Add("backend.collection", "must be a bare collection name", cfg.Backend.Collection)
	}
	if cfg.Backend.RequestTimeout < 0 {
		errs.Add("backend.requestTimeout", "must not be negative", cfg.Backend.RequestTimeout)
	}
	if cfg.Login.CallbackPort < 0 || cfg.Login.CallbackPort > 65535 {
		errs.Add("login.callbackPort", "must be a valid TCP port", cfg.Login.CallbackPort)
	}
	if cfg.Login.AuthorizeTimeout < 0 {
		errs.Add("login.authorizeTimeout", "must not be negative", cfg.Login.AuthorizeTimeout)
	}
	if cfg.Notifications.AutoDismiss < 0 {
		errs.Add("notifications.autoDismiss", "must not be negative", cfg.Notifications.AutoDismiss)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
