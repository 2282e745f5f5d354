package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"invalid api key", NewInvalidAPIKeyError(), "Invalid API key"},
		{"api", NewAPIError(500, "Internal Server Error"), "API error: HTTP 500 - Internal Server Error"},
		{"api unknown reason", NewAPIError(599, ""), "API error: HTTP 599 - Unknown error"},
		{"config", NewConfigError("Invalid timeout"), "Configuration error: Invalid timeout"},
		{"validation", NewValidationError("Empty query string"), "Validation error: Empty query string"},
		{"parse", NewParseError(fmt.Errorf("unexpected end of JSON input")), "JSON parsing failed: unexpected end of JSON input"},
		{"transport", NewTransportError(fmt.Errorf("connection refused")), "HTTP request failed: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("search failed: %w", NewAPIError(403, "Forbidden"))

	assert.True(t, IsAPIError(err))
	assert.False(t, IsParseError(err))
	assert.False(t, IsTransportError(err))
	assert.Equal(t, ErrCodeAPI, CodeOf(err))
	assert.Equal(t, 403, StatusCode(err))
	assert.True(t, stderrors.Is(err, ErrAPI))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewTransportError(cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, IsTransportError(err))
	assert.True(t, err.Retryable)
}

func TestError_Retryable(t *testing.T) {
	assert.True(t, NewAPIError(429, "Too Many Requests").Retryable)
	assert.True(t, NewAPIError(503, "Service Unavailable").Retryable)
	assert.False(t, NewAPIError(401, "Unauthorized").Retryable)
	assert.False(t, NewValidationError("bad").Retryable)
}

func TestExecutionError_IsConfigKind(t *testing.T) {
	err := NewExecutionError("panic: boom")

	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "NETWORK", Category(ErrCodeTransport))
	assert.Equal(t, "API", Category(ErrCodeAPI))
	assert.Equal(t, "AUTH", Category(ErrCodeInvalidAPIKey))
	assert.Equal(t, "PARSE", Category(ErrCodeParse))
	assert.Equal(t, "CONFIG", Category(ErrCodeConfig))
	assert.Equal(t, "VALIDATION", Category(ErrCodeValidation))
	assert.Equal(t, "OTHER", Category("SOMETHING"))
}

type recordingLogger struct {
	msgs   []string
	fields []map[string]interface{}
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.msgs = append(l.msgs, msg)
	l.fields = append(l.fields, fields)
}

func TestErrorHandler_Handle(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	err := h.Handle("search", NewAPIError(500, "Internal Server Error"), map[string]interface{}{"query": "golang"})

	require.Error(t, err)
	require.Len(t, log.fields, 1)
	assert.Equal(t, "API_ERROR", log.fields[0]["errorCode"])
	assert.Equal(t, 500, log.fields[0]["statusCode"])
	assert.Equal(t, "golang", log.fields[0]["query"])

	assert.NoError(t, h.Handle("search", nil, nil))
	assert.Len(t, log.msgs, 1)
}

func TestNormalize_ForeignError(t *testing.T) {
	foreign := fmt.Errorf("boom")
	n := Normalize(foreign)

	assert.Equal(t, ErrCodeConfig, n.Code)
	assert.Equal(t, "boom", n.Details)
	assert.True(t, stderrors.Is(n, foreign))
}
