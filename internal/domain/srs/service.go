package srs

import (
	"errors"
	"sort"
	"time"

	"github.com/preplab/ielts-api/internal/domain"
)

// Common errors
var (
	ErrNilCard        = errors.New("flashcard cannot be nil")
	ErrInvalidOutcome = errors.New("invalid review outcome")
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// ApplyReview computes a card's new mastery level and next-review time
	// from a review outcome. The input card is not modified; the returned
	// copy must be persisted by the caller, which is also responsible for
	// serializing concurrent reviews of the same card.
	ApplyReview(
		card *domain.Flashcard,
		outcome domain.ReviewOutcome,
		now time.Time,
	) (*domain.Flashcard, error)

	// DueCards filters the given cards to those due at now, ordered
	// oldest-due first. Ties on the next-review time fall back to creation
	// order so the result is deterministic.
	DueCards(now time.Time, cards []*domain.Flashcard) []*domain.Flashcard
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// ApplyReview implements the Service interface.
func (s *defaultService) ApplyReview(
	card *domain.Flashcard,
	outcome domain.ReviewOutcome,
	now time.Time,
) (*domain.Flashcard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if !isValidOutcome(outcome) {
		return nil, ErrInvalidOutcome
	}

	return applyReview(card, outcome, now, s.params), nil
}

// DueCards implements the Service interface.
func (s *defaultService) DueCards(now time.Time, cards []*domain.Flashcard) []*domain.Flashcard {
	due := make([]*domain.Flashcard, 0, len(cards))
	for _, card := range cards {
		if card != nil && card.IsDue(now) {
			due = append(due, card)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		if !due[i].CreatedAt.Equal(due[j].CreatedAt) {
			return due[i].CreatedAt.Before(due[j].CreatedAt)
		}
		return due[i].ID.String() < due[j].ID.String()
	})

	return due
}

// isValidOutcome checks if the given outcome is valid.
func isValidOutcome(outcome domain.ReviewOutcome) bool {
	switch outcome {
	case domain.ReviewOutcomeCorrect,
		domain.ReviewOutcomeIncorrect,
		domain.ReviewOutcomeSkipped:
		return true
	default:
		return false
	}
}
