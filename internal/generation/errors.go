package generation

import "errors"

// Common errors returned by gateway implementations. The three failure
// classes are distinct because callers branch differently on each: transport
// failures are safe to retry, upstream rejections are not, and empty
// responses are degraded rather than fatal.
var (
	// ErrNetwork is returned when the transport to the model endpoint
	// failed. Safe to retry.
	ErrNetwork = errors.New("transport failure calling language model")

	// ErrUpstream is returned when the model was reachable but rejected the
	// request or produced output that failed schema validation. Not safe to
	// blindly retry; may indicate malformed input.
	ErrUpstream = errors.New("language model rejected the request")

	// ErrEmptyResponse is returned when the model produced an empty or
	// unparsable text payload. Degraded, not fatal: free-text callers fall
	// back to a sentinel string.
	ErrEmptyResponse = errors.New("language model returned an empty response")

	// ErrInvalidConfig is returned when the gateway configuration is invalid.
	ErrInvalidConfig = errors.New("invalid gateway configuration")
)
