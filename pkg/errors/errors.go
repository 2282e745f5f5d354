// Package errors provides the error taxonomy shared by the search client.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode identifies the kind of failure.
type ErrorCode string

const (
	ErrCodeTransport     ErrorCode = "TRANSPORT_ERROR"
	ErrCodeAPI           ErrorCode = "API_ERROR"
	ErrCodeParse         ErrorCode = "PARSE_ERROR"
	ErrCodeInvalidAPIKey ErrorCode = "INVALID_API_KEY"
	ErrCodeConfig        ErrorCode = "CONFIG_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
)

// Sentinels for errors.Is. They match any *Error carrying the same code.
var (
	ErrTransport     = &Error{Code: ErrCodeTransport}
	ErrAPI           = &Error{Code: ErrCodeAPI}
	ErrParse         = &Error{Code: ErrCodeParse}
	ErrInvalidAPIKey = &Error{Code: ErrCodeInvalidAPIKey}
	ErrConfig        = &Error{Code: ErrCodeConfig}
	ErrValidation    = &Error{Code: ErrCodeValidation}
)

// Error is the single concrete error type returned by the client.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"statusCode,omitempty"`
	Retryable  bool      `json:"retryable"`
	Timestamp  time.Time `json:"timestamp"`

	Err error `json:"-"`
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeTransport:
		return fmt.Sprintf("HTTP request failed: %s", e.Message)
	case ErrCodeAPI:
		return fmt.Sprintf("API error: %s", e.Message)
	case ErrCodeParse:
		return fmt.Sprintf("JSON parsing failed: %s", e.Message)
	case ErrCodeInvalidAPIKey:
		return "Invalid API key"
	case ErrCodeConfig:
		return fmt.Sprintf("Configuration error: %s", e.Message)
	case ErrCodeValidation:
		return fmt.Sprintf("Validation error: %s", e.Message)
	default:
		return fmt.Sprintf("Error[%s]: %s", e.Code, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// Constructors
// ==========================

// NewTransportError wraps a failed HTTP round trip.
func NewTransportError(err error) *Error {
	return &Error{
		Code:      ErrCodeTransport,
		Message:   errString(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}

// NewAPIError builds the error for a non-2xx response. An empty reason
// becomes "Unknown error".
func NewAPIError(statusCode int, reason string) *Error {
	if reason == "" {
		reason = "Unknown error"
	}
	return &Error{
		Code:       ErrCodeAPI,
		Message:    fmt.Sprintf("HTTP %d - %s", statusCode, reason),
		StatusCode: statusCode,
		Retryable:  statusCode == 429 || statusCode >= 500,
		Timestamp:  time.Now().UTC(),
	}
}

func NewParseError(err error) *Error {
	return &Error{
		Code:      ErrCodeParse,
		Message:   errString(err),
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}

func NewInvalidAPIKeyError() *Error {
	return &Error{
		Code:      ErrCodeInvalidAPIKey,
		Message:   "Invalid API key",
		Timestamp: time.Now().UTC(),
	}
}

func NewConfigError(message string) *Error {
	return &Error{
		Code:      ErrCodeConfig,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewExecutionError reports a concurrent task that failed outside the
// request path. It is classified as a configuration error.
func NewExecutionError(details string) *Error {
	return &Error{
		Code:      ErrCodeConfig,
		Message:   fmt.Sprintf("Task execution failed: %s", details),
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationError(message string) *Error {
	return &Error{
		Code:      ErrCodeValidation,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Classification
// ==========================

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsTransportError(err error) bool  { return stderrors.Is(err, ErrTransport) }
func IsAPIError(err error) bool        { return stderrors.Is(err, ErrAPI) }
func IsParseError(err error) bool      { return stderrors.Is(err, ErrParse) }
func IsAuthError(err error) bool       { return stderrors.Is(err, ErrInvalidAPIKey) }
func IsConfigError(err error) bool     { return stderrors.Is(err, ErrConfig) }
func IsValidationError(err error) bool { return stderrors.Is(err, ErrValidation) }

// StatusCode returns the HTTP status carried by an API error, or 0.
func StatusCode(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// Category groups codes for logging and metrics labels.
func Category(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TRANSPORT"):
		return "NETWORK"
	case strings.Contains(codeStr, "API_KEY"):
		return "AUTH"
	case strings.Contains(codeStr, "API"):
		return "API"
	case strings.Contains(codeStr, "PARSE"):
		return "PARSE"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
