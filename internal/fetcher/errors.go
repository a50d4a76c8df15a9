package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType says what went wrong while pulling a table from a source.
type ErrorType string

const (
	// ErrorTypeNetwork covers refused connections, DNS failures and resets.
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout means the source did not answer within the request timeout.
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeRateLimit means the data portal answered 429.
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer means the data portal answered 5xx.
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient means the data portal answered 4xx, usually a moved file.
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeUnknown is any other non-2xx answer, such as an unfollowed redirect.
	ErrorTypeUnknown ErrorType = "unknown"
	// ErrorTypeParse means a body arrived but holds no usable sea-level table.
	ErrorTypeParse ErrorType = "parse"
)

// Class groups error types the way the resolver reports them: either the
// source could not be reached or what it sent could not be used.
type Class string

const (
	ClassNetwork Class = "network_error"
	ClassParse   Class = "parse_error"
)

// Class returns the class of t.
func (t ErrorType) Class() Class {
	if t == ErrorTypeParse {
		return ClassParse
	}
	return ClassNetwork
}

// FetchError is a failed attempt at one candidate source.
type FetchError struct {
	Type       ErrorType
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError wraps a transport failure. It is worth retrying.
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Type:      ErrorTypeNetwork,
		Retryable: true,
		Message:   "source unreachable",
		Cause:     cause,
	}
}

// NewTimeoutError wraps a request that ran past its deadline.
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{
		Type:      ErrorTypeTimeout,
		Retryable: true,
		Message:   "source did not answer in time",
		Cause:     cause,
	}
}

// NewParseError reports a body that is not a usable table: malformed CSV or
// JSON, a failing API envelope, missing columns or no rows after normalizing.
// Retrying would fetch the same body, so it never is.
func NewParseError(message string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeParse,
		Message: message,
		Cause:   cause,
	}
}

func NewRateLimitError(statusCode int) *FetchError {
	return newStatusError(statusCode, ErrorTypeRateLimit, true, "source is throttling requests")
}

func NewServerError(statusCode int) *FetchError {
	return newStatusError(statusCode, ErrorTypeServer, true, "source is failing")
}

// NewClientError reports a 4xx answer. Only 408 is retried.
func NewClientError(statusCode int, message string) *FetchError {
	return newStatusError(statusCode, ErrorTypeClient, statusCode == http.StatusRequestTimeout, message)
}

func newStatusError(statusCode int, t ErrorType, retryable bool, message string) *FetchError {
	return &FetchError{
		Type:       t,
		Retryable:  retryable,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ClassifyHTTPError turns a non-2xx status from a source into a FetchError.
func ClassifyHTTPError(statusCode int) *FetchError {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(statusCode)
	case statusCode >= 500:
		return NewServerError(statusCode)
	case statusCode >= 400:
		return NewClientError(statusCode, fmt.Sprintf("source rejected request: HTTP %d", statusCode))
	default:
		return newStatusError(statusCode, ErrorTypeUnknown, false, fmt.Sprintf("unexpected status from source: %d", statusCode))
	}
}

// ClassOf returns the class of the FetchError in err's chain.
// Errors without one count as network failures.
func ClassOf(err error) Class {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Type.Class()
	}
	return ClassNetwork
}

// IsParseError reports whether err carries a parse-class FetchError.
func IsParseError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Type.Class() == ClassParse
}

// IsNetworkError reports whether err carries a network-class FetchError.
func IsNetworkError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Type.Class() == ClassNetwork
}

// IsRetryable reports whether err is a FetchError marked retryable.
func IsRetryable(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Retryable
}
