package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preplab/ielts-api/internal/domain"
)

func newTestCard(uid string, level int, nextReview, created time.Time) *domain.Flashcard {
	return &domain.Flashcard{
		ID:           uuid.New(),
		UserUID:      uid,
		Word:         "test",
		Sentence:     "A test sentence.",
		Definition:   "A definition.",
		MasteryLevel: level,
		NextReviewAt: nextReview,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestApplyReviewValidation(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()

	t.Run("nil card", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ApplyReview(nil, domain.ReviewOutcomeCorrect, now)
		assert.ErrorIs(t, err, ErrNilCard)
	})

	t.Run("invalid outcome", func(t *testing.T) {
		t.Parallel()
		card := newTestCard("user-1", 1, now, now)
		_, err := svc.ApplyReview(card, domain.ReviewOutcome("guessed"), now)
		assert.ErrorIs(t, err, ErrInvalidOutcome)
	})

	t.Run("valid review", func(t *testing.T) {
		t.Parallel()
		card := newTestCard("user-1", 1, now, now)
		next, err := svc.ApplyReview(card, domain.ReviewOutcomeCorrect, now)
		require.NoError(t, err)
		assert.Equal(t, 2, next.MasteryLevel)
		assert.Equal(t, now.Add(48*time.Hour), next.NextReviewAt)
	})
}

func TestDueCardsFiltering(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()

	overdue := newTestCard("user-1", 1, now.Add(-time.Hour), now.Add(-72*time.Hour))
	dueNow := newTestCard("user-1", 0, now, now.Add(-48*time.Hour))
	notYet := newTestCard("user-1", 3, now.Add(time.Hour), now.Add(-24*time.Hour))

	due := svc.DueCards(now, []*domain.Flashcard{notYet, dueNow, overdue, nil})

	require.Len(t, due, 2)
	assert.Equal(t, overdue.ID, due[0].ID, "oldest-due card should come first")
	assert.Equal(t, dueNow.ID, due[1].ID)
}

func TestDueCardsTieBreaking(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()
	reviewAt := now.Add(-time.Hour)

	// Same next-review time, different creation times.
	older := newTestCard("user-1", 0, reviewAt, now.Add(-96*time.Hour))
	newer := newTestCard("user-1", 0, reviewAt, now.Add(-24*time.Hour))

	due := svc.DueCards(now, []*domain.Flashcard{newer, older})

	require.Len(t, due, 2)
	assert.Equal(t, older.ID, due[0].ID, "creation time breaks next-review ties")

	// Same next-review and creation time: the ID decides, so repeated calls
	// agree on the order.
	createdAt := now.Add(-24 * time.Hour)
	a := newTestCard("user-1", 0, reviewAt, createdAt)
	b := newTestCard("user-1", 0, reviewAt, createdAt)

	first := svc.DueCards(now, []*domain.Flashcard{a, b})
	second := svc.DueCards(now, []*domain.Flashcard{b, a})

	require.Len(t, first, 2)
	assert.Equal(t, first[0].ID, second[0].ID, "ordering must not depend on input order")
}

func TestDueCardsEmpty(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	due := svc.DueCards(time.Now().UTC(), nil)
	assert.Empty(t, due)
}
