package domain

import "errors"

// Cross-entity domain errors. Entity-specific validation errors live next to
// the entity they belong to.
var (
	// ErrValidation is the base error for all domain validation failures.
	// Entity-specific validation errors wrap this to support errors.Is checks.
	ErrValidation = errors.New("validation error")

	// ErrMalformedDomainObject is returned when structurally valid model
	// output still lacks identifiers the domain requires (for example a
	// question without an id, which would break answer correlation).
	ErrMalformedDomainObject = errors.New("malformed domain object")
)
