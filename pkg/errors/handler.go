package errors

import (
	stderrors "errors"
	"time"
)

// Logger is the subset of the logging interface the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler normalizes and logs errors returned by search operations.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err with its classification and returns it unchanged.
func (h *ErrorHandler) Handle(operation string, err error, fields map[string]interface{}) error {
	if err == nil {
		return nil
	}
	stdErr := Normalize(err)

	logFields := map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"errorCategory": Category(stdErr.Code),
		"message":       stdErr.Message,
		"retryable":     stdErr.Retryable,
	}
	if stdErr.StatusCode != 0 {
		logFields["statusCode"] = stdErr.StatusCode
	}
	if stdErr.Details != "" {
		logFields["details"] = stdErr.Details
	}
	for k, v := range fields {
		logFields[k] = v
	}

	h.logger.Error("search operation failed", logFields)
	return err
}

// Normalize returns the *Error in err's chain, or wraps a foreign error as
// an execution failure.
func Normalize(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return &Error{
		Code:      ErrCodeConfig,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Err:       err,
	}
}
