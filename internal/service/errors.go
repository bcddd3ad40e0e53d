package service

import (
	"errors"
	"fmt"
)

// Common error types for the orchestration services.
var (
	// ErrCardNotOwned indicates that the user does not own the flashcard.
	ErrCardNotOwned = errors.New("unauthorized access: flashcard not owned by user")

	// ErrEssayEmpty indicates that an empty essay was submitted for grading.
	ErrEssayEmpty = errors.New("essay cannot be empty")

	// ErrDocumentEmpty indicates that an empty document was submitted for
	// extraction.
	ErrDocumentEmpty = errors.New("document cannot be empty")

	// ErrScoreMismatch indicates that the cross-check score policy rejected
	// a grading report whose overall band deviates too far from its
	// sub-scores.
	ErrScoreMismatch = errors.New("overall score inconsistent with sub-scores")
)

// ServiceError wraps errors from the orchestration services with additional
// context. Consumers differentiate failure classes with errors.Is on the
// wrapped error rather than string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "grade_essay").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
