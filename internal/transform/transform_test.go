package transform_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preplab/ielts-api/internal/domain"
	"github.com/preplab/ielts-api/internal/transform"
)

func TestToExam(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	raw := []byte(`{
		"title": "Academic Reading Test 1",
		"sections": [
			{
				"sectionId": "s1",
				"title": "Passage 1",
				"passageText": "Birds migrate south in winter.",
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
			}
		]
	}`)

	exam, err := transform.ToExam(raw, now)
	require.NoError(t, err)

	assert.NotEmpty(t, exam.ID)
	assert.Equal(t, "Academic Reading Test 1", exam.Title)
	assert.Equal(t, now, exam.CreatedAt)

	require.Len(t, exam.Sections, 2)
	assert.Equal(t, "s1", exam.Sections[0].ID, "section ids are carried over verbatim")
	assert.Equal(t, "s2", exam.Sections[1].ID)
	assert.Equal(t, "Passage 1", exam.Sections[0].Title)
	assert.Equal(t, "Birds migrate south in winter.", exam.Sections[0].PassageText)

	require.Len(t, exam.Sections[0].Questions, 2)
	q := exam.Sections[0].Questions[1]
	assert.Equal(t, "q2", q.ID)
	assert.Equal(t, domain.QuestionTypeMultipleChoice, q.Type)
	assert.Equal(t, []string{"north", "south"}, q.Options)
	assert.Equal(t, "south", q.CorrectAnswer)

	assert.Equal(t, 3, exam.QuestionCount())
}

func TestToExamGeneratesFreshID(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	raw := []byte(`{
		"title": "t",
		"sections": [{"sectionId": "s1", "title": "p", "passageText": "x.", "questions": []}]
	}`)

	first, err := transform.ToExam(raw, now)
	require.NoError(t, err)
	second, err := transform.ToExam(raw, now)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestToExamMissingIDs(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	t.Run("missing section id", func(t *testing.T) {
		t.Parallel()
		raw := []byte(`{"title": "t", "sections": [
			{"sectionId": "", "title": "p", "passageText": "x.", "questions": []}
		]}`)

		_, err := transform.ToExam(raw, now)
		assert.ErrorIs(t, err, domain.ErrMalformedDomainObject)
	})

	t.Run("missing question id", func(t *testing.T) {
		t.Parallel()
		raw := []byte(`{"title": "t", "sections": [
			{"sectionId": "s1", "title": "p", "passageText": "x.", "questions": [
				{"id": "", "text": "q", "type": "TFNG", "correctAnswer": "TRUE"}
			]}
		]}`)

		_, err := transform.ToExam(raw, now)
		assert.ErrorIs(t, err, domain.ErrMalformedDomainObject)
	})
}

func TestToExamRejectsInvalidDomainObject(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	t.Run("too many sections", func(t *testing.T) {
		t.Parallel()
		// Parses fine, but four sections break the exam constraint.
		raw := []byte(`{"title": "t", "sections": [
			{"sectionId": "s1", "title": "p", "passageText": "x.", "questions": []},
			{"sectionId": "s2", "title": "p", "passageText": "x.", "questions": []},
			{"sectionId": "s3", "title": "p", "passageText": "x.", "questions": []},
			{"sectionId": "s4", "title": "p", "passageText": "x.", "questions": []}
		]}`)

		_, err := transform.ToExam(raw, now)
		assert.ErrorIs(t, err, domain.ErrExamTooManySections)
		assert.ErrorIs(t, err, domain.ErrMalformedDomainObject,
			"a validation failure of model output is a model-output defect")
	})

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		raw := []byte(`{"title": "", "sections": [
			{"sectionId": "s1", "title": "p", "passageText": "x.", "questions": []}
		]}`)

		_, err := transform.ToExam(raw, now)
		assert.ErrorIs(t, err, domain.ErrExamTitleEmpty)
		assert.ErrorIs(t, err, domain.ErrMalformedDomainObject)
	})

	t.Run("answer outside options", func(t *testing.T) {
		t.Parallel()
		raw := []byte(`{"title": "t", "sections": [
			{"sectionId": "s1", "title": "p", "passageText": "x.", "questions": [
				{"id": "q1", "text": "q", "type": "MCQ", "options": ["a", "b"], "correctAnswer": "c"}
			]}
		]}`)

		_, err := transform.ToExam(raw, now)
		assert.ErrorIs(t, err, domain.ErrAnswerNotInOptions)
		assert.ErrorIs(t, err, domain.ErrMalformedDomainObject)
	})
}

func TestToExamUnparsable(t *testing.T) {
	t.Parallel()

	_, err := transform.ToExam([]byte(`{broken`), time.Now().UTC())
	assert.Error(t, err)
}

func TestToGradingReport(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	raw := []byte(`{
		"taskResponse": 7.0,
		"coherence": 6.5,
		"lexical": 7.5,
		"grammar": 7.0,
		"overallScore": 7.0,
		"critiquePoints": ["Weak thesis statement.", "Repetitive vocabulary."],
		"rewrittenEssay": "In contemporary society..."
	}`)

	report, err := transform.ToGradingReport(raw, now)
	require.NoError(t, err)

	assert.Equal(t, 7.0, report.TaskResponse)
	assert.Equal(t, 6.5, report.Coherence)
	assert.Equal(t, 7.5, report.Lexical)
	assert.Equal(t, 7.0, report.Grammar)
	assert.Equal(t, 7.0, report.OverallScore, "overall score is taken as-given, not recomputed")
	assert.Equal(t, []string{"Weak thesis statement.", "Repetitive vocabulary."}, report.CritiquePoints)
	assert.Equal(t, "In contemporary society...", report.RewrittenEssay)
	assert.Equal(t, now, report.CreatedAt)
}

func TestToGradingReportRejectsEmptyCritique(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"taskResponse": 7, "coherence": 7, "lexical": 7, "grammar": 7,
		"overallScore": 7, "critiquePoints": [], "rewrittenEssay": "x"
	}`)

	_, err := transform.ToGradingReport(raw, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrReportNoCritique)
	assert.ErrorIs(t, err, domain.ErrMalformedDomainObject)
}

func TestToDefinition(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "plain definition", raw: "Present everywhere.", expected: "Present everywhere."},
		{name: "surrounding whitespace trimmed", raw: "  Present everywhere.\n", expected: "Present everywhere."},
		{name: "empty maps to fallback", raw: "", expected: transform.DefinitionFallback},
		{name: "whitespace only maps to fallback", raw: " \n\t ", expected: transform.DefinitionFallback},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, transform.ToDefinition(tc.raw))
		})
	}
}
