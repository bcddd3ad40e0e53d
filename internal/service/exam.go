package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/config"
	"github.com/preplab/ielts-api/internal/domain"
	"github.com/preplab/ielts-api/internal/generation"
	"github.com/preplab/ielts-api/internal/prompt"
	"github.com/preplab/ielts-api/internal/store"
	"github.com/preplab/ielts-api/internal/transform"
)

// ExplanationFallback is returned in place of an empty explanation.
const ExplanationFallback = "Explanation unavailable."

// ExamService extracts reading exams from PDFs, scores attempts against
// them and explains wrong answers.
type ExamService interface {
	// ExtractExam runs the extraction workflow over a PDF document and
	// persists the resulting exam. Nothing is written when extraction
	// fails.
	ExtractExam(ctx context.Context, documentBytes []byte) (*domain.Exam, error)

	// GetExam retrieves an exam by ID.
	GetExam(ctx context.Context, id uuid.UUID) (*domain.Exam, error)

	// ListExams returns all exams, newest first.
	ListExams(ctx context.Context) ([]*domain.Exam, error)

	// ScoreAttempt scores the user's answers against the exam's correct
	// answers and persists the result. Matching is an exact comparison
	// after trimming and case folding.
	ScoreAttempt(ctx context.Context, userUID string, examID uuid.UUID, answers map[string]string) (*domain.ReadingResult, error)

	// ListResults returns the user's scored reading attempts, newest first.
	ListResults(ctx context.Context, userUID string) ([]*domain.ReadingResult, error)

	// ExplainAnswer runs the free-text explanation workflow for one wrong
	// answer. An empty model response maps to ExplanationFallback.
	ExplainAnswer(ctx context.Context, questionText, userAnswer, correctAnswer, passageExcerpt string) (string, error)
}

type examService struct {
	invoker generation.Invoker
	exams   store.ExamStore
	logger  *slog.Logger
	retry   retryPolicy
	now     func() time.Time
}

// NewExamService creates an ExamService.
func NewExamService(
	invoker generation.Invoker,
	exams store.ExamStore,
	logger *slog.Logger,
	llmCfg config.LLMConfig,
) ExamService {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for ExamService")
	}

	return &examService{
		invoker: invoker,
		exams:   exams,
		logger:  logger.With(slog.String("component", "exam_service")),
		retry: retryPolicy{
			maxRetries: llmCfg.MaxRetries,
			baseDelay:  time.Duration(llmCfg.RetryDelaySeconds) * time.Second,
		},
		now: time.Now,
	}
}

// ExtractExam implements ExamService.
func (s *examService) ExtractExam(ctx context.Context, documentBytes []byte) (*domain.Exam, error) {
	if len(documentBytes) == 0 {
		return nil, ErrDocumentEmpty
	}

	req := prompt.BuildExtractionRequest(documentBytes)

	result, err := invokeWithRetry(ctx, s.logger, s.invoker, req, s.retry)
	if err != nil {
		return nil, &ServiceError{Operation: "extract_exam", Message: "model invocation failed", Err: err}
	}

	exam, err := transform.ToExam([]byte(result.Text), s.now().UTC())
	if err != nil {
		return nil, &ServiceError{Operation: "extract_exam", Message: "failed to build exam", Err: err}
	}

	if len(exam.Sections) < domain.ExpectedSectionCount {
		// Tolerated, but worth noticing: the prompt asks for exactly three.
		s.logger.WarnContext(ctx, "extraction yielded fewer sections than expected",
			slog.String("exam_id", exam.ID.String()),
			slog.Int("sections", len(exam.Sections)))
	}

	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, &ServiceError{Operation: "extract_exam", Message: "failed to persist exam", Err: err}
	}

	s.logger.InfoContext(ctx, "exam extracted",
		slog.String("exam_id", exam.ID.String()),
		slog.Int("sections", len(exam.Sections)),
		slog.Int("questions", exam.QuestionCount()))

	return exam, nil
}

// GetExam implements ExamService.
func (s *examService) GetExam(ctx context.Context, id uuid.UUID) (*domain.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Operation: "get_exam", Message: "failed to load exam", Err: err}
	}
	return exam, nil
}

// ListExams implements ExamService.
func (s *examService) ListExams(ctx context.Context) ([]*domain.Exam, error) {
	exams, err := s.exams.List(ctx)
	if err != nil {
		return nil, &ServiceError{Operation: "list_exams", Message: "failed to list exams", Err: err}
	}
	return exams, nil
}

// ScoreAttempt implements ExamService.
func (s *examService) ScoreAttempt(ctx context.Context, userUID string, examID uuid.UUID, answers map[string]string) (*domain.ReadingResult, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, &ServiceError{Operation: "score_attempt", Message: "failed to load exam", Err: err}
	}

	result := ScoreAnswers(exam, answers)
	result.UserUID = userUID
	result.CreatedAt = s.now().UTC()

	if err := s.exams.SaveResult(ctx, result); err != nil {
		return nil, &ServiceError{Operation: "score_attempt", Message: "failed to persist result", Err: err}
	}

	return result, nil
}

// ListResults implements ExamService.
func (s *examService) ListResults(ctx context.Context, userUID string) ([]*domain.ReadingResult, error) {
	results, err := s.exams.ListResultsByUser(ctx, userUID)
	if err != nil {
		return nil, &ServiceError{Operation: "list_results", Message: "failed to list results", Err: err}
	}
	return results, nil
}

// ExplainAnswer implements ExamService.
func (s *examService) ExplainAnswer(ctx context.Context, questionText, userAnswer, correctAnswer, passageExcerpt string) (string, error) {
	req := prompt.BuildExplanationRequest(questionText, userAnswer, correctAnswer, passageExcerpt)

	result, err := invokeWithRetry(ctx, s.logger, s.invoker, req, s.retry)
	if errors.Is(err, generation.ErrEmptyResponse) {
		return ExplanationFallback, nil
	}
	if err != nil {
		return "", &ServiceError{Operation: "explain_answer", Message: "model invocation failed", Err: err}
	}

	return strings.TrimSpace(result.Text), nil
}

// ScoreAnswers compares the given answers against the exam's correct
// answers, question by question. Comparison trims whitespace and ignores
// case; unanswered questions count as wrong.
func ScoreAnswers(exam *domain.Exam, answers map[string]string) *domain.ReadingResult {
	score := 0
	for i := range exam.Sections {
		for j := range exam.Sections[i].Questions {
			q := &exam.Sections[i].Questions[j]
			given, ok := answers[q.ID]
			if !ok {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(q.CorrectAnswer)) {
				score++
			}
		}
	}

	return &domain.ReadingResult{
		ID:             uuid.New(),
		ExamID:         exam.ID,
		Score:          score,
		TotalQuestions: exam.QuestionCount(),
		Answers:        answers,
	}
}
