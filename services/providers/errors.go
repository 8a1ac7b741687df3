package providers

import "errors"

// Error codes for provider failures. The dispatcher never branches on these;
// they exist so the surfaced failure can name what the last provider hit.
const (
	// CodeTransportFailure covers network/transport errors and non-2xx
	// responses from the remote directions service.
	CodeTransportFailure = "TRANSPORT_FAILURE"

	// CodeNoRoute means the provider could not produce any viable route
	// (empty result set, or no graph edge near an endpoint).
	CodeNoRoute = "NO_ROUTE"

	// CodeMalformedResponse means the provider got a payload it could not
	// parse.
	CodeMalformedResponse = "MALFORMED_RESPONSE"

	// CodeUnspecified is the catch-all for everything else.
	CodeUnspecified = "UNSPECIFIED"
)

// ProviderError is the normalized failure a route provider reports through
// Callback.OnFailure.
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is one of the Code* constants
	Code string

	// Message is a human-readable description
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, cause error) *ProviderError {
	if code == "" {
		code = CodeUnspecified
	}
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// ErrorCode extracts the provider error code from err, or CodeUnspecified
// when err is not a ProviderError.
func ErrorCode(err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return CodeUnspecified
}
