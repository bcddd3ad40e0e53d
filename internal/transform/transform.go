// Package transform converts validated model output into typed domain
// entities. Transformers never swallow errors: anything the domain cannot
// represent is surfaced to the orchestration layer. The one sanctioned local
// recovery is the definition fallback, because a missing definition is a
// degraded-but-usable state rather than a pipeline failure.
package transform

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/domain"
)

// DefinitionFallback is returned in place of an empty definition.
const DefinitionFallback = "Definition unavailable."

// examPayload mirrors the extraction output contract (prompt.ExamShape).
type examPayload struct {
	Title    string           `json:"title"`
	Sections []sectionPayload `json:"sections"`
}

type sectionPayload struct {
	SectionID   string            `json:"sectionId"`
	Title       string            `json:"title"`
	PassageText string            `json:"passageText"`
	Questions   []questionPayload `json:"questions"`
}

type questionPayload struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// reportPayload mirrors the grading output contract (prompt.GradingShape).
type reportPayload struct {
	TaskResponse   float64  `json:"taskResponse"`
	Coherence      float64  `json:"coherence"`
	Lexical        float64  `json:"lexical"`
	Grammar        float64  `json:"grammar"`
	OverallScore   float64  `json:"overallScore"`
	CritiquePoints []string `json:"critiquePoints"`
	RewrittenEssay string   `json:"rewrittenEssay"`
}

// ToExam converts validated extraction JSON into a domain Exam.
//
// The exam itself gets a newly generated identifier, but section and
// question ids are carried over verbatim: they are referenced by submitted
// answers, so fabricating replacements would silently break answer
// correlation. A missing id is therefore ErrMalformedDomainObject, not
// something to paper over.
func ToExam(raw []byte, now time.Time) (*domain.Exam, error) {
	var payload examPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode exam payload: %w", err)
	}

	exam := &domain.Exam{
		ID:        uuid.New(),
		Title:     payload.Title,
		Sections:  make([]domain.Section, 0, len(payload.Sections)),
		CreatedAt: now,
	}

	for i, sec := range payload.Sections {
		if sec.SectionID == "" {
			return nil, fmt.Errorf("%w: section %d missing id", domain.ErrMalformedDomainObject, i)
		}

		section := domain.Section{
			ID:          sec.SectionID,
			Title:       sec.Title,
			PassageText: sec.PassageText,
			Questions:   make([]domain.Question, 0, len(sec.Questions)),
		}

		for j, q := range sec.Questions {
			if q.ID == "" {
				return nil, fmt.Errorf("%w: section %d question %d missing id",
					domain.ErrMalformedDomainObject, i, j)
			}

			section.Questions = append(section.Questions, domain.Question{
				ID:            q.ID,
				Text:          q.Text,
				Type:          domain.QuestionType(q.Type),
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
			})
		}

		exam.Sections = append(exam.Sections, section)
	}

	// A validation failure here means the model produced an exam the domain
	// cannot represent, so it is a model-output defect, not a caller mistake.
	if err := exam.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDomainObject, err)
	}

	return exam, nil
}

// ToGradingReport converts validated grading JSON into a domain
// GradingReport. Fields map directly; in particular the overall score is
// taken from the payload rather than recomputed from the sub-scores.
func ToGradingReport(raw []byte, now time.Time) (*domain.GradingReport, error) {
	var payload reportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode grading payload: %w", err)
	}

	report := &domain.GradingReport{
		ID:             uuid.New(),
		TaskResponse:   payload.TaskResponse,
		Coherence:      payload.Coherence,
		Lexical:        payload.Lexical,
		Grammar:        payload.Grammar,
		OverallScore:   payload.OverallScore,
		CritiquePoints: payload.CritiquePoints,
		RewrittenEssay: payload.RewrittenEssay,
		CreatedAt:      now,
	}

	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDomainObject, err)
	}

	return report, nil
}

// ToDefinition normalizes a free-text definition payload. Whitespace is
// trimmed; an empty result maps to DefinitionFallback instead of an error.
func ToDefinition(rawText string) string {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return DefinitionFallback
	}
	return trimmed
}
