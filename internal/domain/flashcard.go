package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxFlashcardSpanWords is the longest word span a learner may turn into a
// flashcard. Longer selections are rejected at creation.
const MaxFlashcardSpanWords = 3

// Flashcard-specific validation errors
var (
	// ErrFlashcardIDEmpty is returned when a flashcard ID is empty or nil.
	ErrFlashcardIDEmpty = errors.New("flashcard ID cannot be empty")

	// ErrFlashcardUserEmpty is returned when a flashcard's owner UID is empty.
	ErrFlashcardUserEmpty = errors.New("flashcard user UID cannot be empty")

	// ErrSpanEmpty is returned when the selected word span is empty.
	ErrSpanEmpty = errors.New("word span cannot be empty")

	// ErrSpanTooLong is returned when the selected span exceeds
	// MaxFlashcardSpanWords words.
	ErrSpanTooLong = errors.New("word span is too long for a flashcard")

	// ErrMasteryOutOfRange is returned when a mastery level is outside [0, 5].
	ErrMasteryOutOfRange = errors.New("mastery level must be between 0 and 5")
)

// ReviewOutcome is the learner's self-reported result of reviewing a card.
type ReviewOutcome string

const (
	// ReviewOutcomeCorrect means the learner recalled the definition.
	ReviewOutcomeCorrect ReviewOutcome = "correct"

	// ReviewOutcomeIncorrect means the learner failed to recall the definition.
	ReviewOutcomeIncorrect ReviewOutcome = "incorrect"

	// ReviewOutcomeSkipped means the learner skipped the card. Treated as a
	// lapse for scheduling purposes.
	ReviewOutcomeSkipped ReviewOutcome = "skipped"
)

// Flashcard is a vocabulary card created from a word span the learner
// selected inside a reading passage. The definition is set once at creation
// by the AI pipeline; mastery level and next-review time are mutated only by
// the review scheduler. Each card belongs to exactly one learner.
type Flashcard struct {
	ID           uuid.UUID `json:"id"`
	UserUID      string    `json:"user_uid"`
	Word         string    `json:"word"`
	Sentence     string    `json:"sentence"`
	Definition   string    `json:"definition"`
	MasteryLevel int       `json:"mastery_level"`
	NextReviewAt time.Time `json:"next_review_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewFlashcard creates a flashcard for the given owner, word span and
// originating sentence. New cards start at mastery level 0 and are
// immediately due: NextReviewAt equals the creation time.
func NewFlashcard(userUID, word, sentence, definition string, now time.Time) (*Flashcard, error) {
	card := &Flashcard{
		ID:           uuid.New(),
		UserUID:      userUID,
		Word:         strings.TrimSpace(word),
		Sentence:     strings.TrimSpace(sentence),
		Definition:   definition,
		MasteryLevel: 0,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}

	if f.UserUID == "" {
		return ErrFlashcardUserEmpty
	}

	if err := ValidateSpan(f.Word); err != nil {
		return err
	}

	if f.MasteryLevel < 0 || f.MasteryLevel > 5 {
		return ErrMasteryOutOfRange
	}

	return nil
}

// ValidateSpan checks that a selected word span qualifies for a flashcard:
// non-empty and at most MaxFlashcardSpanWords words.
func ValidateSpan(span string) error {
	trimmed := strings.TrimSpace(span)
	if trimmed == "" {
		return ErrSpanEmpty
	}

	if len(strings.Fields(trimmed)) > MaxFlashcardSpanWords {
		return ErrSpanTooLong
	}

	return nil
}

// IsDue reports whether the card is due for review at the given time.
func (f *Flashcard) IsDue(now time.Time) bool {
	return !f.NextReviewAt.After(now)
}
