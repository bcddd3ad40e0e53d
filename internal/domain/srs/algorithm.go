package srs

import (
	"math"
	"time"

	"github.com/preplab/ielts-api/internal/domain"
)

// nextMasteryLevel determines the card's new mastery level after a review.
//
// A correct recall promotes the card one level, capped at
// params.MaxMasteryLevel. An incorrect or skipped review demotes the card by
// params.LapseDecrement levels, floored at 0.
func nextMasteryLevel(current int, outcome domain.ReviewOutcome, params *Params) int {
	if outcome == domain.ReviewOutcomeCorrect {
		if current >= params.MaxMasteryLevel {
			return params.MaxMasteryLevel
		}
		return current + 1
	}

	demoted := current - params.LapseDecrement
	if demoted < 0 {
		return 0
	}
	return demoted
}

// reviewInterval returns the spacing for a card at the given mastery level:
// BaseInterval * GrowthFactor^(level-1) for levels >= 1, zero for level 0.
//
// Because GrowthFactor is clamped to at least 1 (see NewParams), the
// interval is non-decreasing in mastery level by construction.
func reviewInterval(level int, params *Params) time.Duration {
	if level <= 0 {
		return 0
	}

	factor := math.Pow(params.GrowthFactor, float64(level-1))
	return time.Duration(float64(params.BaseInterval) * factor)
}

// nextReviewAt determines when the card should next be reviewed.
//
// Lapsed cards (incorrect or skipped) become due immediately; correctly
// recalled cards are pushed out by the interval for their new mastery level.
func nextReviewAt(level int, outcome domain.ReviewOutcome, now time.Time, params *Params) time.Time {
	if outcome != domain.ReviewOutcomeCorrect {
		return now
	}

	return now.Add(reviewInterval(level, params))
}

// applyReview creates a new Flashcard with updated mastery level and
// next-review time based on the review outcome.
//
// The original card is never modified; callers persist the returned copy.
// Only the scheduler-owned fields change: word, sentence and definition are
// carried over untouched.
func applyReview(card *domain.Flashcard, outcome domain.ReviewOutcome, now time.Time, params *Params) *domain.Flashcard {
	next := &domain.Flashcard{
		ID:           card.ID,
		UserUID:      card.UserUID,
		Word:         card.Word,
		Sentence:     card.Sentence,
		Definition:   card.Definition,
		MasteryLevel: card.MasteryLevel,
		NextReviewAt: card.NextReviewAt,
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    now,
	}

	next.MasteryLevel = nextMasteryLevel(card.MasteryLevel, outcome, params)
	next.NextReviewAt = nextReviewAt(next.MasteryLevel, outcome, now, params)

	return next
}
