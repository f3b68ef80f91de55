package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Type:       ErrorTypeEndpoint,
		Message:    "server error",
		StatusCode: 503,
		Model:      "gpt-4o-mini",
		Endpoint:   "https://api.openai.com/v1",
		Cause:      errors.New("boom"),
	}

	msg := err.Error()
	assert.Contains(t, msg, "HTTP 503")
	assert.Contains(t, msg, "model=gpt-4o-mini")
	assert.Contains(t, msg, "endpoint=api.openai.com")
	assert.NotContains(t, msg, "/v1", "endpoint is reduced to its host")
	assert.Contains(t, msg, "boom")
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
		status    int
	}{
		{"unauthorized", errors.New("error, status code: 401, message: invalid api key"), ErrorTypeAuth, false, 401},
		{"anthropic auth", errors.New("anthropic api error type: authentication_error"), ErrorTypeAuth, false, 0},
		{"model missing", errors.New("The model `gpt-9` does not exist"), ErrorTypeModel, false, 0},
		{"not found", errors.New("status code: 404"), ErrorTypeEndpoint, false, 404},
		{"refused", errors.New("dial tcp 127.0.0.1:1: connection refused"), ErrorTypeEndpoint, true, 0},
		{"timeout", errors.New("context deadline exceeded"), ErrorTypeEndpoint, true, 0},
		{"rate limited", errors.New("status code: 429"), ErrorTypeRateLimit, true, 429},
		{"overloaded", errors.New("anthropic api error type: overloaded_error"), ErrorTypeEndpoint, true, 0},
		{"server error", errors.New("status code: 502, bad gateway"), ErrorTypeEndpoint, true, 502},
		{"unknown", errors.New("something odd"), ErrorTypeUnknown, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.retryable, got.IsRetryable())
			assert.Equal(t, tt.status, got.StatusCode)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyError_PassesThroughStructured(t *testing.T) {
	original := NewError(ErrorTypeAuth, "bad key", false, nil)
	wrapped := fmt.Errorf("hints: %w", original)

	assert.Same(t, original, ClassifyError(wrapped))
	assert.Nil(t, ClassifyError(nil))
	assert.Equal(t, ErrorTypeAuth, GetErrorType(wrapped))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(errors.New("plain")))
}
