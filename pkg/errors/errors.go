package errors

import (
	"errors"
	"fmt"
)

// Codes shared by the domain services and the HTTP layer.
const (
	CodeInvalidInput             = "invalid_input"
	CodeNotFound                 = "not_found"
	CodeUpstream                 = "upstream_error"
	CodeNetwork                  = "network_error"
	CodeInsufficientForecastData = "insufficient_forecast_data"
	CodeMissingCredential        = "missing_credential"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code returns the outermost AppError code, or "" when err carries none.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// UpstreamError records a non-success response from a third-party provider.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s responded with status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s responded with status %d: %s", e.Provider, e.Status, e.Body)
}

// Upstream wraps an UpstreamError in an upstream_error AppError.
func Upstream(provider string, status int, body string) error {
	return Wrap(CodeUpstream, provider+" request failed", &UpstreamError{Provider: provider, Status: status, Body: body})
}

// AsUpstream extracts the UpstreamError carried by err.
func AsUpstream(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}
