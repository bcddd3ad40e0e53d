package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/domain"
)

// WritingStore defines the interface for writing-topic and submission
// persistence. The grading report is stored as a JSONB document on the
// submission row; reports are immutable after creation, so they are never
// updated in place.
type WritingStore interface {
	// CreateTopic saves a new essay topic.
	CreateTopic(ctx context.Context, topic *domain.WritingTopic) error

	// GetTopic retrieves an essay topic by its unique ID.
	// Returns ErrTopicNotFound if the topic does not exist.
	GetTopic(ctx context.Context, id uuid.UUID) (*domain.WritingTopic, error)

	// ListTopics retrieves all essay topics, newest first.
	ListTopics(ctx context.Context) ([]*domain.WritingTopic, error)

	// CreateSubmission saves a graded essay submission.
	CreateSubmission(ctx context.Context, submission *domain.WritingSubmission) error

	// ListSubmissionsByUser retrieves a user's submissions, newest first.
	ListSubmissionsByUser(ctx context.Context, userUID string) ([]*domain.WritingSubmission, error)

	// WithTx returns a WritingStore bound to the given transaction.
	WithTx(tx *sql.Tx) WritingStore
}

// PostgresWritingStore implements WritingStore using PostgreSQL.
type PostgresWritingStore struct {
	db DBTX
}

// NewPostgresWritingStore creates a new PostgresWritingStore.
func NewPostgresWritingStore(db DBTX) *PostgresWritingStore {
	return &PostgresWritingStore{db: db}
}

// WithTx implements WritingStore.
func (s *PostgresWritingStore) WithTx(tx *sql.Tx) WritingStore {
	return &PostgresWritingStore{db: tx}
}

// CreateTopic implements WritingStore.
func (s *PostgresWritingStore) CreateTopic(ctx context.Context, topic *domain.WritingTopic) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO writing_topics (id, category, question_text, created_at)
		 VALUES ($1, $2, $3, $4)`,
		topic.ID, topic.Category, topic.QuestionText, topic.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert writing topic: %w", err)
	}
	return nil
}

// GetTopic implements WritingStore.
func (s *PostgresWritingStore) GetTopic(ctx context.Context, id uuid.UUID) (*domain.WritingTopic, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, question_text, created_at FROM writing_topics WHERE id = $1`, id)

	var topic domain.WritingTopic
	err := row.Scan(&topic.ID, &topic.Category, &topic.QuestionText, &topic.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTopicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query writing topic: %w", err)
	}

	return &topic, nil
}

// ListTopics implements WritingStore.
func (s *PostgresWritingStore) ListTopics(ctx context.Context) ([]*domain.WritingTopic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, question_text, created_at
		   FROM writing_topics
		  ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query writing topics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var topics []*domain.WritingTopic
	for rows.Next() {
		var topic domain.WritingTopic
		if err := rows.Scan(&topic.ID, &topic.Category, &topic.QuestionText, &topic.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan writing topic: %w", err)
		}
		topics = append(topics, &topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate writing topics: %w", err)
	}

	return topics, nil
}

// CreateSubmission implements WritingStore.
func (s *PostgresWritingStore) CreateSubmission(ctx context.Context, submission *domain.WritingSubmission) error {
	if err := submission.Report.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	report, err := json.Marshal(submission.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal grading report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO writing_submissions (id, user_uid, topic_id, essay, report, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		submission.ID, submission.UserUID, submission.TopicID,
		submission.Essay, report, submission.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert writing submission: %w", err)
	}

	return nil
}

// ListSubmissionsByUser implements WritingStore.
func (s *PostgresWritingStore) ListSubmissionsByUser(ctx context.Context, userUID string) ([]*domain.WritingSubmission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_uid, topic_id, essay, report, submitted_at
		   FROM writing_submissions
		  WHERE user_uid = $1
		  ORDER BY submitted_at DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query writing submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var submissions []*domain.WritingSubmission
	for rows.Next() {
		var submission domain.WritingSubmission
		var report []byte
		if err := rows.Scan(&submission.ID, &submission.UserUID, &submission.TopicID,
			&submission.Essay, &report, &submission.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan writing submission: %w", err)
		}
		if err := json.Unmarshal(report, &submission.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal grading report: %w", err)
		}
		submissions = append(submissions, &submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate writing submissions: %w", err)
	}

	return submissions, nil
}
