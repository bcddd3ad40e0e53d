package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific not-found errors wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrFlashcardNotFound indicates that the requested flashcard does not
	// exist in the store.
	ErrFlashcardNotFound = fmt.Errorf("%w: flashcard", ErrNotFound)

	// ErrExamNotFound indicates that the requested exam does not exist in
	// the store.
	ErrExamNotFound = fmt.Errorf("%w: exam", ErrNotFound)

	// ErrTopicNotFound indicates that the requested writing topic does not
	// exist in the store.
	ErrTopicNotFound = fmt.Errorf("%w: writing topic", ErrNotFound)
)

// IsNotFound reports whether err is any of the store's not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
