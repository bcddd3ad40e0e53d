package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
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

// ScorePolicy controls how the overall band score on a grading report is
// treated relative to its four sub-scores.
type ScorePolicy int

const (
	// ScoreTrustModel accepts the model-reported overall score as-given.
	// This matches the original behavior and is the default.
	ScoreTrustModel ScorePolicy = iota

	// ScoreCrossCheck rejects reports whose overall score deviates from the
	// sub-score mean by more than one band.
	ScoreCrossCheck
)

// scoreTolerance is the maximum deviation, in bands, the cross-check policy
// accepts between the overall score and the sub-score mean.
const scoreTolerance = 1.0

// GradingService grades essays and manages writing topics and submissions.
type GradingService interface {
	// GradeEssay runs the grading workflow for one essay and question
	// prompt, returning the typed report without persisting anything.
	GradeEssay(ctx context.Context, essay, questionPrompt string) (*domain.GradingReport, error)

	// SubmitEssay grades the essay against the given topic and persists
	// the resulting submission. Nothing is written when grading fails.
	SubmitEssay(ctx context.Context, userUID string, topicID uuid.UUID, essay string) (*domain.WritingSubmission, error)

	// CreateTopic adds a new essay topic learners can submit against.
	CreateTopic(ctx context.Context, category, questionText string) (*domain.WritingTopic, error)

	// ListTopics returns all writing topics, newest first.
	ListTopics(ctx context.Context) ([]*domain.WritingTopic, error)

	// ListSubmissions returns the user's submissions, newest first.
	ListSubmissions(ctx context.Context, userUID string) ([]*domain.WritingSubmission, error)
}

type gradingService struct {
	invoker generation.Invoker
	writing store.WritingStore
	logger  *slog.Logger
	policy  ScorePolicy
	retry   retryPolicy
	now     func() time.Time
}

// NewGradingService creates a GradingService.
func NewGradingService(
	invoker generation.Invoker,
	writing store.WritingStore,
	logger *slog.Logger,
	policy ScorePolicy,
	llmCfg config.LLMConfig,
) GradingService {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for GradingService")
	}

	return &gradingService{
		invoker: invoker,
		writing: writing,
		logger:  logger.With(slog.String("component", "grading_service")),
		policy:  policy,
		retry: retryPolicy{
			maxRetries: llmCfg.MaxRetries,
			baseDelay:  time.Duration(llmCfg.RetryDelaySeconds) * time.Second,
		},
		now: time.Now,
	}
}

// GradeEssay implements GradingService.
func (s *gradingService) GradeEssay(ctx context.Context, essay, questionPrompt string) (*domain.GradingReport, error) {
	if strings.TrimSpace(essay) == "" {
		return nil, ErrEssayEmpty
	}

	req := prompt.BuildGradingRequest(essay, questionPrompt)

	result, err := invokeWithRetry(ctx, s.logger, s.invoker, req, s.retry)
	if err != nil {
		return nil, &ServiceError{Operation: "grade_essay", Message: "model invocation failed", Err: err}
	}

	report, err := transform.ToGradingReport([]byte(result.Text), s.now().UTC())
	if err != nil {
		return nil, &ServiceError{Operation: "grade_essay", Message: "failed to build grading report", Err: err}
	}

	if s.policy == ScoreCrossCheck {
		if deviation := math.Abs(report.OverallScore - report.SubScoreMean()); deviation > scoreTolerance {
			return nil, &ServiceError{
				Operation: "grade_essay",
				Message:   fmt.Sprintf("overall %.1f deviates %.1f bands from sub-score mean", report.OverallScore, deviation),
				Err:       ErrScoreMismatch,
			}
		}
	}

	s.logger.InfoContext(ctx, "essay graded",
		slog.String("report_id", report.ID.String()),
		slog.Float64("overall_score", report.OverallScore),
		slog.Int("critique_points", len(report.CritiquePoints)))

	return report, nil
}

// SubmitEssay implements GradingService.
func (s *gradingService) SubmitEssay(ctx context.Context, userUID string, topicID uuid.UUID, essay string) (*domain.WritingSubmission, error) {
	topic, err := s.writing.GetTopic(ctx, topicID)
	if err != nil {
		return nil, &ServiceError{Operation: "submit_essay", Message: "failed to load topic", Err: err}
	}

	report, err := s.GradeEssay(ctx, essay, topic.QuestionText)
	if err != nil {
		return nil, err
	}

	submission := &domain.WritingSubmission{
		ID:          uuid.New(),
		UserUID:     userUID,
		TopicID:     topicID,
		Essay:       essay,
		Report:      *report,
		SubmittedAt: s.now().UTC(),
	}

	if err := s.writing.CreateSubmission(ctx, submission); err != nil {
		return nil, &ServiceError{Operation: "submit_essay", Message: "failed to persist submission", Err: err}
	}

	return submission, nil
}

// CreateTopic implements GradingService.
func (s *gradingService) CreateTopic(ctx context.Context, category, questionText string) (*domain.WritingTopic, error) {
	topic, err := domain.NewWritingTopic(category, questionText, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.writing.CreateTopic(ctx, topic); err != nil {
		return nil, &ServiceError{Operation: "create_topic", Message: "failed to persist topic", Err: err}
	}

	s.logger.InfoContext(ctx, "writing topic created",
		slog.String("topic_id", topic.ID.String()),
		slog.String("category", topic.Category))

	return topic, nil
}

// ListTopics implements GradingService.
func (s *gradingService) ListTopics(ctx context.Context) ([]*domain.WritingTopic, error) {
	topics, err := s.writing.ListTopics(ctx)
	if err != nil {
		return nil, &ServiceError{Operation: "list_topics", Message: "failed to list topics", Err: err}
	}
	return topics, nil
}

// ListSubmissions implements GradingService.
func (s *gradingService) ListSubmissions(ctx context.Context, userUID string) ([]*domain.WritingSubmission, error) {
	submissions, err := s.writing.ListSubmissionsByUser(ctx, userUID)
	if err != nil {
		return nil, &ServiceError{Operation: "list_submissions", Message: "failed to list submissions", Err: err}
	}
	return submissions, nil
}
