package generation

import "context"

// Invoker defines the single entry point to the generative AI endpoint.
// This interface serves as a boundary between the application core and the
// external model service, following the hexagonal architecture pattern:
// orchestration services depend on it, and tests substitute a deterministic
// stub.
type Invoker interface {
	// Invoke sends one request to the generative endpoint and returns the
	// raw result.
	//
	// When the request carries a Shape, the implementation must attach it
	// as a hard output constraint and validate the response against it
	// before returning; a validation failure is reported as ErrUpstream
	// with the violation detail attached, never silently coerced.
	//
	// Invoke performs no internal retries; retrying transport failures is
	// a caller policy choice. Failures are classified into ErrNetwork,
	// ErrUpstream and ErrEmptyResponse (see errors.go) so callers can
	// branch on each.
	Invoke(ctx context.Context, req Request) (*RawResult, error)
}
