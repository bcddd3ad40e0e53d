package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	// Create saves a new flashcard.
	// Returns validation errors wrapped in ErrInvalidEntity if the card is
	// invalid.
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrFlashcardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// ListByUser retrieves all flashcards owned by the given user, in
	// creation order. Due filtering and review ordering are the scheduler's
	// concern, not the store's.
	ListByUser(ctx context.Context, userUID string) ([]*domain.Flashcard, error)

	// Update persists scheduler-owned fields (mastery level, next review,
	// updated-at) of an existing card.
	// Returns ErrFlashcardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Flashcard) error

	// WithTx returns a FlashcardStore bound to the given transaction, so
	// multiple operations can share one transaction. Review updates MUST go
	// through a transaction: it is the per-card serialization point for
	// concurrent review submissions.
	WithTx(tx *sql.Tx) FlashcardStore
}

// PostgresFlashcardStore implements FlashcardStore using PostgreSQL.
type PostgresFlashcardStore struct {
	db DBTX
}

// NewPostgresFlashcardStore creates a new PostgresFlashcardStore.
func NewPostgresFlashcardStore(db DBTX) *PostgresFlashcardStore {
	return &PostgresFlashcardStore{db: db}
}

// WithTx implements FlashcardStore.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) FlashcardStore {
	return &PostgresFlashcardStore{db: tx}
}

// Create implements FlashcardStore.
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flashcards
		   (id, user_uid, word, sentence, definition, mastery_level, next_review_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		card.ID, card.UserUID, card.Word, card.Sentence, card.Definition,
		card.MasteryLevel, card.NextReviewAt, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert flashcard: %w", err)
	}

	return nil
}

// GetByID implements FlashcardStore.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_uid, word, sentence, definition, mastery_level, next_review_at, created_at, updated_at
		   FROM flashcards
		  WHERE id = $1`, id)

	card, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlashcardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcard: %w", err)
	}

	return card, nil
}

// ListByUser implements FlashcardStore.
func (s *PostgresFlashcardStore) ListByUser(ctx context.Context, userUID string) ([]*domain.Flashcard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_uid, word, sentence, definition, mastery_level, next_review_at, created_at, updated_at
		   FROM flashcards
		  WHERE user_uid = $1
		  ORDER BY created_at, id`, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flashcard: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flashcards: %w", err)
	}

	return cards, nil
}

// Update implements FlashcardStore.
func (s *PostgresFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE flashcards
		    SET mastery_level = $2, next_review_at = $3, updated_at = $4
		  WHERE id = $1`,
		card.ID, card.MasteryLevel, card.NextReviewAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update flashcard: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrFlashcardNotFound
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	err := row.Scan(
		&card.ID, &card.UserUID, &card.Word, &card.Sentence, &card.Definition,
		&card.MasteryLevel, &card.NextReviewAt, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
