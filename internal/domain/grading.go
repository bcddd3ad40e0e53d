package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Grading-specific validation errors
var (
	// ErrReportIDEmpty is returned when a grading report ID is empty or nil.
	ErrReportIDEmpty = errors.New("grading report ID cannot be empty")

	// ErrReportNoCritique is returned when a grading report has no critique
	// points.
	ErrReportNoCritique = errors.New("grading report must have critique points")

	// ErrReportNoRewrite is returned when a grading report has no rewritten
	// essay.
	ErrReportNoRewrite = errors.New("grading report must include a rewritten essay")

	// ErrTopicQuestionEmpty is returned when a writing topic has no question
	// text.
	ErrTopicQuestionEmpty = errors.New("writing topic question cannot be empty")
)

// GradingReport holds the examiner feedback for one essay submission: four
// band sub-scores, an overall band score, critique points and a full rewrite.
// Band scores follow the IELTS 0-9 scale in 0.5 increments by convention;
// the range is not enforced here because the source of the scores is the
// model, which is trusted as-given (see service.ScorePolicy for the
// optional cross-check). Reports are immutable after creation.
type GradingReport struct {
	ID             uuid.UUID `json:"id"`
	TaskResponse   float64   `json:"task_response"`
	Coherence      float64   `json:"coherence"`
	Lexical        float64   `json:"lexical"`
	Grammar        float64   `json:"grammar"`
	OverallScore   float64   `json:"overall_score"`
	CritiquePoints []string  `json:"critique_points"`
	RewrittenEssay string    `json:"rewritten_essay"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks if the GradingReport has valid data.
func (r *GradingReport) Validate() error {
	if r.ID == uuid.Nil {
		return ErrReportIDEmpty
	}

	if len(r.CritiquePoints) == 0 {
		return ErrReportNoCritique
	}

	if r.RewrittenEssay == "" {
		return ErrReportNoRewrite
	}

	return nil
}

// SubScoreMean returns the arithmetic mean of the four band sub-scores.
// Used by the cross-check score policy; never applied implicitly.
func (r *GradingReport) SubScoreMean() float64 {
	return (r.TaskResponse + r.Coherence + r.Lexical + r.Grammar) / 4
}

// WritingTopic is an essay prompt a learner can respond to.
type WritingTopic struct {
	ID           uuid.UUID `json:"id"`
	Category     string    `json:"category"`
	QuestionText string    `json:"question_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewWritingTopic creates a WritingTopic with a fresh identifier. The
// question text is required; the category is free-form and may be empty.
func NewWritingTopic(category, questionText string, now time.Time) (*WritingTopic, error) {
	questionText = strings.TrimSpace(questionText)
	if questionText == "" {
		return nil, ErrTopicQuestionEmpty
	}

	return &WritingTopic{
		ID:           uuid.New(),
		Category:     strings.TrimSpace(category),
		QuestionText: questionText,
		CreatedAt:    now,
	}, nil
}

// WritingSubmission ties a learner's essay to the report it earned.
type WritingSubmission struct {
	ID          uuid.UUID     `json:"id"`
	UserUID     string        `json:"user_uid"`
	TopicID     uuid.UUID     `json:"topic_id"`
	Essay       string        `json:"essay"`
	Report      GradingReport `json:"report"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// ReadingResult records a scored reading attempt: how many answers matched
// the exam's correct answers, plus the answers as given.
type ReadingResult struct {
	ID             uuid.UUID         `json:"id"`
	UserUID        string            `json:"user_uid"`
	ExamID         uuid.UUID         `json:"exam_id"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	Answers        map[string]string `json:"answers"`
	CreatedAt      time.Time         `json:"created_at"`
}
