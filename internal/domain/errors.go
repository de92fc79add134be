package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order pipeline. The set is closed: every failure
// the pipeline can produce maps to exactly one of these kinds (or to one of
// the typed errors below), so callers can react per cause. Errors are always
// returned as values and never retried internally.
var (
	// ErrNoTickStep is returned when the configured tick table has no entry
	// for the requested symbol. Raised before any network call.
	ErrNoTickStep = errors.New("no tick step available for symbol")

	// ErrInvalidParameter is returned for locally rejected inputs, such as a
	// zero quantity. Raised before any network call.
	ErrInvalidParameter = errors.New("incorrect parameter value")

	// ErrParseURL is returned when the ticker endpoint URL does not parse.
	ErrParseURL = errors.New("parsing raw url")

	// ErrBuildRequest is returned when an HTTP request cannot be constructed,
	// including a malformed order endpoint URL.
	ErrBuildRequest = errors.New("creating http request")

	// ErrEncodeRequest is returned when the outgoing order body cannot be
	// serialized.
	ErrEncodeRequest = errors.New("encoding request body")

	// ErrDecodeResponse is returned when the exchange's reply cannot be
	// decoded. Distinct from APIError: "we could not understand the reply"
	// versus "the exchange rejected the request".
	ErrDecodeResponse = errors.New("decoding api response")

	// ErrParseNumeric is returned when a numeric field in an otherwise valid
	// response does not parse, e.g. a non-numeric last_price.
	ErrParseNumeric = errors.New("parsing numeric field")

	// ErrEmptyResult is returned when the exchange reports success but the
	// result list is empty, e.g. a ticker query for an unlisted symbol.
	ErrEmptyResult = errors.New("api returned an empty result")

	// ErrMalformedResponse is returned when a response field does not match
	// its documented format, e.g. the server-time time_now string.
	ErrMalformedResponse = errors.New("malformed api response format")

	// ErrInternal covers unanticipated conditions.
	ErrInternal = errors.New("internal error")
)

// APIError reports a non-zero return code from the exchange, carrying the
// exchange's own diagnostics.
type APIError struct {
	RetCode int
	RetMsg  string
	ExtCode string
	ExtInfo string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: ret_code=%d ret_msg=%q ext_code=%q", e.RetCode, e.RetMsg, e.ExtCode)
}

// NetworkError represents a transport-level failure: the request never
// produced a decodable exchange reply.
type NetworkError struct {
	Op  string // operation that failed, e.g. "get tickers"
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport failure for the given operation.
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// ConfigError represents a configuration problem, reported as a value so the
// core stays testable without real environment variables.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
