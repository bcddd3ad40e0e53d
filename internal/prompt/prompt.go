// Package prompt builds the requests sent to the generative endpoint: one
// pure constructor per workflow. Constructors embed their inputs verbatim
// into a fixed template and never consult clocks or randomness, so identical
// inputs always yield identical requests. That determinism is what makes
// golden-output tests possible without a live model.
package prompt

import (
	"bytes"
	"text/template"

	"github.com/preplab/ielts-api/internal/generation"
)

// maxExcerptLen bounds the passage excerpt embedded in explanation prompts,
// in bytes. Without a bound a long passage would grow the prompt without
// adding evidence near the answer.
const maxExcerptLen = 600

var (
	gradingTemplate = template.Must(template.New("grading").Parse(
		`Act as a strict IELTS examiner. Grade the following Task 2 essay based on the question: "{{.Question}}".

Provide:
1. Band scores (0-9) for: Task Response, Coherence & Cohesion, Lexical Resource, Grammatical Range & Accuracy.
2. An overall Band Score.
3. 3-5 specific bullet points on errors or improvements.
4. A complete rewrite of the essay that would score a Band 8.5+, improving vocabulary and flow while keeping the original argument.

Student Essay:
"{{.Essay}}"
`))

	extractionTemplate = template.Must(template.New("extraction").Parse(
		`Analyze the attached PDF which contains an IELTS Reading Exam.
Extract 3 distinct reading passages and their associated questions.
Output a valid JSON object matching the requested schema.
`))

	explanationTemplate = template.Must(template.New("explanation").Parse(
		`Context: IELTS Reading Test.
Passage Snippet: "...{{.Excerpt}}..."
Question: "{{.Question}}"
User Answer: "{{.UserAnswer}}" (Incorrect)
Correct Answer: "{{.CorrectAnswer}}"

Explain clearly in 2-3 sentences why the user's answer is wrong and why the correct answer is right based on the text evidence. Address the user directly ("You chose...").
`))

	definitionTemplate = template.Must(template.New("definition").Parse(
		`Define the word "{{.Word}}" as it is used in this sentence: "{{.Sentence}}".
Keep the definition concise (under 20 words).
`))
)

type gradingData struct {
	Essay    string
	Question string
}

type explanationData struct {
	Excerpt       string
	Question      string
	UserAnswer    string
	CorrectAnswer string
}

type definitionData struct {
	Word     string
	Sentence string
}

// BuildGradingRequest builds the structured grading request for an essay and
// the question it answers. Both are embedded verbatim.
func BuildGradingRequest(essay, question string) generation.Request {
	return generation.Request{
		Instruction: render(gradingTemplate, gradingData{Essay: essay, Question: question}),
		Shape:       GradingShape,
	}
}

// BuildExtractionRequest builds the structured extraction request for a
// reading exam PDF. The document travels as a binary attachment; the output
// contract is ExamShape.
func BuildExtractionRequest(documentBytes []byte) generation.Request {
	return generation.Request{
		Instruction: render(extractionTemplate, nil),
		Attachment: &generation.Attachment{
			MIMEType: "application/pdf",
			Data:     documentBytes,
		},
		Shape: ExamShape,
	}
}

// BuildExplanationRequest builds the free-text request explaining why a
// reading answer was wrong. The passage excerpt is truncated to
// maxExcerptLen bytes; no output shape is attached.
func BuildExplanationRequest(questionText, userAnswer, correctAnswer, passageExcerpt string) generation.Request {
	return generation.Request{
		Instruction: render(explanationTemplate, explanationData{
			Excerpt:       truncate(passageExcerpt, maxExcerptLen),
			Question:      questionText,
			UserAnswer:    userAnswer,
			CorrectAnswer: correctAnswer,
		}),
	}
}

// BuildDefinitionRequest builds the free-text request defining a word as
// used in its originating sentence. The word-count ceiling is stated in the
// instruction, not enforced structurally.
func BuildDefinitionRequest(word, sentence string) generation.Request {
	return generation.Request{
		Instruction: render(definitionTemplate, definitionData{Word: word, Sentence: sentence}),
	}
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Templates are fixed at compile time and the data structs contain
		// only strings, so execution cannot fail at runtime.
		// ALLOW-PANIC: programming error in a static template
		panic(err)
	}
	return buf.String()
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
