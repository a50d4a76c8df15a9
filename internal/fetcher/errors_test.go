package fetcher

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status    int
		wantType  ErrorType
		retryable bool
	}{
		{429, ErrorTypeRateLimit, true},
		{500, ErrorTypeServer, true},
		{503, ErrorTypeServer, true},
		{404, ErrorTypeClient, false},
		{408, ErrorTypeClient, true},
		{302, ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := ClassifyHTTPError(tt.status)
			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.retryable, err.Retryable)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.True(t, IsNetworkError(err), "non-2xx statuses are network-class")
			assert.False(t, IsParseError(err))
		})
	}
}

func TestFetchError_Message(t *testing.T) {
	err := NewParseError("missing expected columns", errors.New("only 1 column"))
	assert.Equal(t, "parse error: missing expected columns: only 1 column", err.Error())

	err = ClassifyHTTPError(502)
	assert.Equal(t, "server error (status 502): source is failing", err.Error())
}

func TestClassification_ThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("source https://example.org: %w", NewNetworkError(cause))

	assert.True(t, IsNetworkError(wrapped))
	assert.True(t, IsRetryable(wrapped))
	assert.False(t, IsParseError(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	parse := fmt.Errorf("decode: %w", NewParseError("malformed csv", nil))
	assert.True(t, IsParseError(parse))
	assert.False(t, IsNetworkError(parse))
	assert.False(t, IsRetryable(parse))

	plain := errors.New("boom")
	assert.False(t, IsParseError(plain))
	assert.False(t, IsNetworkError(plain))
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"parse", NewParseError("no rows", nil), ClassParse},
		{"wrapped parse", fmt.Errorf("source x: %w", NewParseError("bad csv", nil)), ClassParse},
		{"timeout", NewTimeoutError(errors.New("deadline")), ClassNetwork},
		{"status", ClassifyHTTPError(404), ClassNetwork},
		{"plain error", errors.New("boom"), ClassNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassOf(tt.err))
		})
	}
}
