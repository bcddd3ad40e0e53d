package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preplab/ielts-api/internal/config"
	"github.com/preplab/ielts-api/internal/domain"
	"github.com/preplab/ielts-api/internal/generation"
	"github.com/preplab/ielts-api/internal/store"
)

const validExamJSON = `{
	"title": "Academic Reading Test 1",
	"sections": [
		{
			"sectionId": "s1",
			"title": "Passage 1",
			"passageText": "Birds migrate south in winter. They return in spring.",
			"questions": [
				{"id": "q1", "text": "Birds stay put in winter.", "type": "TFNG", "correctAnswer": "FALSE"},
				{"id": "q2", "text": "Where do they go?", "type": "MCQ", "options": ["north", "south"], "correctAnswer": "south"}
			]
		},
		{
			"sectionId": "s2",
			"title": "Passage 2",
			"passageText": "Coral reefs are in decline.",
			"questions": [
				{"id": "q3", "text": "Reefs are ____.", "type": "FIB", "correctAnswer": "in decline"}
			]
		},
		{
			"sectionId": "s3",
			"title": "Passage 3",
			"passageText": "Cities are growing.",
			"questions": [
				{"id": "q4", "text": "Cities are shrinking.", "type": "TFNG", "correctAnswer": "FALSE"}
			]
		}
	]
}`

func newExamServiceForTest(invoker generation.Invoker, exams store.ExamStore) *examService {
	svc := NewExamService(invoker, exams, testLogger(), config.LLMConfig{
		MaxRetries:        2,
		RetryDelaySeconds: 0,
	}).(*examService)
	svc.now = fixedTime
	return svc
}

func TestExtractExam(t *testing.T) {
	t.Parallel()

	exams := newMockExamStore()
	invoker := &mockInvoker{responses: []invokeResponse{textResult(validExamJSON)}}
	svc := newExamServiceForTest(invoker, exams)

	exam, err := svc.ExtractExam(context.Background(), []byte("%PDF-1.4 content"))
	require.NoError(t, err)

	assert.Equal(t, "Academic Reading Test 1", exam.Title)
	require.Len(t, exam.Sections, 3)
	assert.Equal(t, 4, exam.QuestionCount())

	// The PDF travels as an attachment on the extraction request.
	require.Equal(t, 1, invoker.callCount())
	require.NotNil(t, invoker.calls[0].Attachment)
	assert.Equal(t, "application/pdf", invoker.calls[0].Attachment.MIMEType)

	stored, err := exams.GetByID(context.Background(), exam.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.Title, stored.Title)
}

func TestExtractExamEmptyDocument(t *testing.T) {
	t.Parallel()

	invoker := &mockInvoker{responses: []invokeResponse{textResult(validExamJSON)}}
	svc := newExamServiceForTest(invoker, newMockExamStore())

	_, err := svc.ExtractExam(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDocumentEmpty)
	assert.Equal(t, 0, invoker.callCount())
}

func TestExtractExamNothingPersistedOnFailure(t *testing.T) {
	t.Parallel()

	exams := newMockExamStore()
	invoker := &mockInvoker{responses: []invokeResponse{errResult(generation.ErrUpstream)}}
	svc := newExamServiceForTest(invoker, exams)

	_, err := svc.ExtractExam(context.Background(), []byte("doc"))
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrUpstream)

	list, err := exams.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestScoreAnswers(t *testing.T) {
	t.Parallel()

	exam := &domain.Exam{
		ID:    uuid.New(),
		Title: "t",
		Sections: []domain.Section{
			{
				ID: "s1",
				Questions: []domain.Question{
					{ID: "q1", Type: domain.QuestionTypeTrueFalseNotGiven, CorrectAnswer: "FALSE"},
					{ID: "q2", Type: domain.QuestionTypeFillInBlank, CorrectAnswer: "in decline"},
					{ID: "q3", Type: domain.QuestionTypeFillInBlank, CorrectAnswer: "south"},
				},
			},
		},
	}

	testCases := []struct {
		name     string
		answers  map[string]string
		expected int
	}{
		{
			name:     "all correct",
			answers:  map[string]string{"q1": "FALSE", "q2": "in decline", "q3": "south"},
			expected: 3,
		},
		{
			name:     "matching ignores case and surrounding whitespace",
			answers:  map[string]string{"q1": " false ", "q2": "In Decline", "q3": "SOUTH"},
			expected: 3,
		},
		{
			name:     "wrong answers score zero",
			answers:  map[string]string{"q1": "TRUE", "q2": "thriving", "q3": "north"},
			expected: 0,
		},
		{
			name:     "unanswered questions count as wrong",
			answers:  map[string]string{"q1": "FALSE"},
			expected: 1,
		},
		{
			name:     "answers for unknown questions are ignored",
			answers:  map[string]string{"q1": "FALSE", "q99": "whatever"},
			expected: 1,
		},
		{
			name:     "no answers at all",
			answers:  map[string]string{},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := ScoreAnswers(exam, tc.answers)
			assert.Equal(t, tc.expected, result.Score)
			assert.Equal(t, 3, result.TotalQuestions)
			assert.Equal(t, exam.ID, result.ExamID)
		})
	}
}

func TestScoreAttempt(t *testing.T) {
	t.Parallel()

	exams := newMockExamStore()
	invoker := &mockInvoker{responses: []invokeResponse{textResult(validExamJSON)}}
	svc := newExamServiceForTest(invoker, exams)

	exam, err := svc.ExtractExam(context.Background(), []byte("doc"))
	require.NoError(t, err)

	answers := map[string]string{"q1": "FALSE", "q2": "north", "q3": "in decline", "q4": "FALSE"}
	result, err := svc.ScoreAttempt(context.Background(), "user-1", exam.ID, answers)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, "user-1", result.UserUID)
	assert.Equal(t, fixedTime(), result.CreatedAt)

	stored, err := exams.ListResultsByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, result.ID, stored[0].ID)
}

func TestScoreAttemptUnknownExam(t *testing.T) {
	t.Parallel()

	svc := newExamServiceForTest(&mockInvoker{responses: []invokeResponse{textResult("")}}, newMockExamStore())

	_, err := svc.ScoreAttempt(context.Background(), "user-1", uuid.New(), nil)
	assert.ErrorIs(t, err, store.ErrExamNotFound)
}

func TestListResults(t *testing.T) {
	t.Parallel()

	exams := newMockExamStore()
	examID := uuid.New()
	require.NoError(t, exams.SaveResult(context.Background(), &domain.ReadingResult{
		ID: uuid.New(), UserUID: "user-1", ExamID: examID, Score: 3, TotalQuestions: 4,
	}))
	require.NoError(t, exams.SaveResult(context.Background(), &domain.ReadingResult{
		ID: uuid.New(), UserUID: "user-2", ExamID: examID, Score: 1, TotalQuestions: 4,
	}))

	svc := newExamServiceForTest(&mockInvoker{responses: []invokeResponse{textResult("")}}, exams)

	results, err := svc.ListResults(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, results, 1, "only the caller's own results are returned")
	assert.Equal(t, 3, results[0].Score)
}

func TestExplainAnswer(t *testing.T) {
	t.Parallel()

	t.Run("returns trimmed explanation", func(t *testing.T) {
		t.Parallel()
		invoker := &mockInvoker{responses: []invokeResponse{
			textResult("  You chose TRUE, but the passage states the opposite.\n"),
		}}
		svc := newExamServiceForTest(invoker, newMockExamStore())

		explanation, err := svc.ExplainAnswer(context.Background(), "q", "TRUE", "FALSE", "excerpt")
		require.NoError(t, err)
		assert.Equal(t, "You chose TRUE, but the passage states the opposite.", explanation)
	})

	t.Run("empty response degrades to the fallback", func(t *testing.T) {
		t.Parallel()
		invoker := &mockInvoker{responses: []invokeResponse{errResult(generation.ErrEmptyResponse)}}
		svc := newExamServiceForTest(invoker, newMockExamStore())

		explanation, err := svc.ExplainAnswer(context.Background(), "q", "TRUE", "FALSE", "excerpt")
		require.NoError(t, err)
		assert.Equal(t, ExplanationFallback, explanation)
	})

	t.Run("upstream failure surfaces", func(t *testing.T) {
		t.Parallel()
		invoker := &mockInvoker{responses: []invokeResponse{errResult(generation.ErrUpstream)}}
		svc := newExamServiceForTest(invoker, newMockExamStore())

		_, err := svc.ExplainAnswer(context.Background(), "q", "TRUE", "FALSE", "excerpt")
		assert.ErrorIs(t, err, generation.ErrUpstream)
	})
}
