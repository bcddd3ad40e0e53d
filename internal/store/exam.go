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

// ExamStore defines the interface for exam and reading-result persistence.
// Sections and questions are stored as a JSONB document on the exam row:
// they are always read and written as one aggregate.
type ExamStore interface {
	// Create saves a new extracted exam.
	Create(ctx context.Context, exam *domain.Exam) error

	// GetByID retrieves an exam by its unique ID.
	// Returns ErrExamNotFound if the exam does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exam, error)

	// List retrieves all exams, newest first.
	List(ctx context.Context) ([]*domain.Exam, error)

	// SaveResult records a scored reading attempt.
	SaveResult(ctx context.Context, result *domain.ReadingResult) error

	// ListResultsByUser retrieves a user's reading results, newest first.
	ListResultsByUser(ctx context.Context, userUID string) ([]*domain.ReadingResult, error)

	// WithTx returns an ExamStore bound to the given transaction.
	WithTx(tx *sql.Tx) ExamStore
}

// PostgresExamStore implements ExamStore using PostgreSQL.
type PostgresExamStore struct {
	db DBTX
}

// NewPostgresExamStore creates a new PostgresExamStore.
func NewPostgresExamStore(db DBTX) *PostgresExamStore {
	return &PostgresExamStore{db: db}
}

// WithTx implements ExamStore.
func (s *PostgresExamStore) WithTx(tx *sql.Tx) ExamStore {
	return &PostgresExamStore{db: tx}
}

// Create implements ExamStore.
func (s *PostgresExamStore) Create(ctx context.Context, exam *domain.Exam) error {
	if err := exam.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	sections, err := json.Marshal(exam.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal exam sections: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exams (id, title, sections, created_at)
		 VALUES ($1, $2, $3, $4)`,
		exam.ID, exam.Title, sections, exam.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert exam: %w", err)
	}

	return nil
}

// GetByID implements ExamStore.
func (s *PostgresExamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, sections, created_at FROM exams WHERE id = $1`, id)

	exam, err := scanExam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query exam: %w", err)
	}

	return exam, nil
}

// List implements ExamStore.
func (s *PostgresExamStore) List(ctx context.Context) ([]*domain.Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, sections, created_at FROM exams ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var exams []*domain.Exam
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam: %w", err)
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exams: %w", err)
	}

	return exams, nil
}

// SaveResult implements ExamStore.
func (s *PostgresExamStore) SaveResult(ctx context.Context, result *domain.ReadingResult) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reading_results (id, user_uid, exam_id, score, total_questions, answers, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.ID, result.UserUID, result.ExamID, result.Score,
		result.TotalQuestions, answers, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reading result: %w", err)
	}

	return nil
}

// ListResultsByUser implements ExamStore.
func (s *PostgresExamStore) ListResultsByUser(ctx context.Context, userUID string) ([]*domain.ReadingResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_uid, exam_id, score, total_questions, answers, created_at
		   FROM reading_results
		  WHERE user_uid = $1
		  ORDER BY created_at DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reading results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*domain.ReadingResult
	for rows.Next() {
		var result domain.ReadingResult
		var answers []byte
		if err := rows.Scan(&result.ID, &result.UserUID, &result.ExamID, &result.Score,
			&result.TotalQuestions, &answers, &result.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reading result: %w", err)
		}
		if err := json.Unmarshal(answers, &result.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reading results: %w", err)
	}

	return results, nil
}

func scanExam(row rowScanner) (*domain.Exam, error) {
	var exam domain.Exam
	var sections []byte
	if err := row.Scan(&exam.ID, &exam.Title, &sections, &exam.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &exam.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exam sections: %w", err)
	}
	return &exam, nil
}
