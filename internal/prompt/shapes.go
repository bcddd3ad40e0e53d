package prompt

import "github.com/preplab/ielts-api/internal/schema"

// GradingShape is the output contract for essay grading: four named band
// sub-scores, an overall score, critique points and a full rewrite. The same
// value is attached to the request and used to validate the response.
var GradingShape = schema.Object(
	map[string]*schema.Shape{
		"taskResponse":   schema.Number(),
		"coherence":      schema.Number(),
		"lexical":        schema.Number(),
		"grammar":        schema.Number(),
		"overallScore":   schema.Number(),
		"critiquePoints": schema.Array(schema.String()),
		"rewrittenEssay": schema.String(),
	},
	"taskResponse", "coherence", "lexical", "grammar",
	"overallScore", "critiquePoints", "rewrittenEssay",
)

// ExamShape is the output contract for PDF exam extraction. It mirrors the
// Exam/Section/Question domain model: a titled exam with sections, each
// carrying a passage and its question set. Question ids are required because
// answer matching depends on them.
var ExamShape = schema.Object(
	map[string]*schema.Shape{
		"title": schema.String(),
		"sections": schema.Array(schema.Object(
			map[string]*schema.Shape{
				"sectionId":   schema.String(),
				"title":       schema.String(),
				"passageText": schema.String(),
				"questions": schema.Array(schema.Object(
					map[string]*schema.Shape{
						"id":            schema.String(),
						"text":          schema.String(),
						"type":          schema.StringEnum("MCQ", "TFNG", "FIB"),
						"options":       schema.Array(schema.String()),
						"correctAnswer": schema.String(),
					},
					"id", "text", "type", "correctAnswer",
				)),
			},
			"sectionId", "title", "passageText", "questions",
		)),
	},
	"title", "sections",
)
