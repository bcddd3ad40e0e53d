package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/config"
	"github.com/preplab/ielts-api/internal/domain"
	"github.com/preplab/ielts-api/internal/domain/srs"
	"github.com/preplab/ielts-api/internal/generation"
	"github.com/preplab/ielts-api/internal/prompt"
	"github.com/preplab/ielts-api/internal/segment"
	"github.com/preplab/ielts-api/internal/store"
	"github.com/preplab/ielts-api/internal/transform"
)

// FlashcardService owns the flashcard lifecycle: creation from a selected
// word span (with an AI-generated definition) and review progression through
// the spaced-repetition scheduler.
type FlashcardService interface {
	// CreateCard creates a flashcard for a word span the user selected
	// inside a passage. The originating sentence is captured from the
	// passage, the definition comes from the definition workflow, and the
	// new card is immediately due at mastery level 0.
	//
	// Spans longer than three words are rejected with
	// domain.ErrSpanTooLong. An empty model response degrades to the fixed
	// definition fallback rather than failing the creation.
	CreateCard(ctx context.Context, userUID, span, passage string) (*domain.Flashcard, error)

	// DueCards returns the user's cards that are due at now, oldest-due
	// first.
	DueCards(ctx context.Context, userUID string, now time.Time) ([]*domain.Flashcard, error)

	// SubmitReview applies a review outcome to a card and persists the
	// updated schedule. The card must exist and belong to the user. The
	// update runs in a transaction so concurrent reviews of the same card
	// are serialized by the store.
	SubmitReview(ctx context.Context, userUID string, cardID uuid.UUID, outcome domain.ReviewOutcome) (*domain.Flashcard, error)
}

type flashcardService struct {
	invoker   generation.Invoker
	scheduler srs.Service
	splitter  segment.SentenceSplitter
	cards     store.FlashcardStore
	db        *sql.DB
	logger    *slog.Logger
	retry     retryPolicy
	now       func() time.Time
}

// NewFlashcardService creates a FlashcardService.
func NewFlashcardService(
	invoker generation.Invoker,
	scheduler srs.Service,
	splitter segment.SentenceSplitter,
	cards store.FlashcardStore,
	db *sql.DB,
	logger *slog.Logger,
	llmCfg config.LLMConfig,
) FlashcardService {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardService")
	}

	return &flashcardService{
		invoker:   invoker,
		scheduler: scheduler,
		splitter:  splitter,
		cards:     cards,
		db:        db,
		logger:    logger.With(slog.String("component", "flashcard_service")),
		retry: retryPolicy{
			maxRetries: llmCfg.MaxRetries,
			baseDelay:  time.Duration(llmCfg.RetryDelaySeconds) * time.Second,
		},
		now: time.Now,
	}
}

// CreateCard implements FlashcardService.
func (s *flashcardService) CreateCard(ctx context.Context, userUID, span, passage string) (*domain.Flashcard, error) {
	if err := domain.ValidateSpan(span); err != nil {
		return nil, err
	}

	sentence := segment.SentenceContaining(s.splitter, passage, span)

	req := prompt.BuildDefinitionRequest(span, sentence)

	var definition string
	result, err := invokeWithRetry(ctx, s.logger, s.invoker, req, s.retry)
	switch {
	case errors.Is(err, generation.ErrEmptyResponse):
		// Degraded but usable: the card still works without a definition.
		definition = transform.ToDefinition("")
	case err != nil:
		return nil, &ServiceError{Operation: "create_card", Message: "definition workflow failed", Err: err}
	default:
		definition = transform.ToDefinition(result.Text)
	}

	card, err := domain.NewFlashcard(userUID, span, sentence, definition, s.now().UTC())
	if err != nil {
		return nil, &ServiceError{Operation: "create_card", Message: "invalid flashcard", Err: err}
	}

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, &ServiceError{Operation: "create_card", Message: "failed to persist flashcard", Err: err}
	}

	s.logger.InfoContext(ctx, "flashcard created",
		slog.String("card_id", card.ID.String()),
		slog.String("word", card.Word))

	return card, nil
}

// DueCards implements FlashcardService.
func (s *flashcardService) DueCards(ctx context.Context, userUID string, now time.Time) ([]*domain.Flashcard, error) {
	cards, err := s.cards.ListByUser(ctx, userUID)
	if err != nil {
		return nil, &ServiceError{Operation: "due_cards", Message: "failed to list flashcards", Err: err}
	}

	return s.scheduler.DueCards(now, cards), nil
}

// SubmitReview implements FlashcardService.
func (s *flashcardService) SubmitReview(ctx context.Context, userUID string, cardID uuid.UUID, outcome domain.ReviewOutcome) (*domain.Flashcard, error) {
	var updated *domain.Flashcard

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)

		card, err := txCards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		if card.UserUID != userUID {
			return ErrCardNotOwned
		}

		next, err := s.scheduler.ApplyReview(card, outcome, s.now().UTC())
		if err != nil {
			return err
		}

		if err := txCards.Update(ctx, next); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, &ServiceError{Operation: "submit_review", Message: "failed to apply review", Err: err}
	}

	s.logger.DebugContext(ctx, "review applied",
		slog.String("card_id", cardID.String()),
		slog.String("outcome", string(outcome)),
		slog.Int("mastery_level", updated.MasteryLevel))

	return updated, nil
}
