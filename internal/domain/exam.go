package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExpectedSectionCount is the number of reading passages an IELTS exam is
// expected to contain. Extraction may yield fewer; it must never yield more.
const ExpectedSectionCount = 3

// Exam-specific validation errors
var (
	// ErrExamIDEmpty is returned when an exam ID is empty or nil.
	ErrExamIDEmpty = errors.New("exam ID cannot be empty")

	// ErrExamTitleEmpty is returned when an exam title is empty.
	ErrExamTitleEmpty = errors.New("exam title cannot be empty")

	// ErrExamNoSections is returned when an exam has no sections.
	ErrExamNoSections = errors.New("exam must have at least one section")

	// ErrExamTooManySections is returned when an exam has more than the
	// expected number of sections.
	ErrExamTooManySections = errors.New("exam has more sections than expected")

	// ErrSectionIDEmpty is returned when a section identifier is empty.
	ErrSectionIDEmpty = errors.New("section ID cannot be empty")

	// ErrQuestionIDEmpty is returned when a question identifier is empty.
	ErrQuestionIDEmpty = errors.New("question ID cannot be empty")

	// ErrQuestionTypeInvalid is returned when a question type is not one of
	// the supported kinds.
	ErrQuestionTypeInvalid = errors.New("invalid question type")

	// ErrQuestionNoOptions is returned when a multiple-choice question has
	// no answer options.
	ErrQuestionNoOptions = errors.New("multiple-choice question must have options")

	// ErrAnswerNotInOptions is returned when a multiple-choice question's
	// correct answer is not one of its listed options.
	ErrAnswerNotInOptions = errors.New("correct answer must be one of the options")
)

// QuestionType identifies the kind of a reading question.
type QuestionType string

const (
	// QuestionTypeMultipleChoice is a question answered by picking one of
	// the listed options.
	QuestionTypeMultipleChoice QuestionType = "MCQ"

	// QuestionTypeTrueFalseNotGiven is answered with TRUE, FALSE or NOT GIVEN.
	QuestionTypeTrueFalseNotGiven QuestionType = "TFNG"

	// QuestionTypeFillInBlank is answered by typing the missing words.
	QuestionTypeFillInBlank QuestionType = "FIB"
)

// IsValid reports whether the question type is one of the supported kinds.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalseNotGiven, QuestionTypeFillInBlank:
		return true
	default:
		return false
	}
}

// Question is a single reading question. The ID is taken verbatim from the
// extraction output and must be unique within its section; answers are
// matched against it after submission.
type Question struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
}

// Validate checks if the Question has valid data.
func (q *Question) Validate() error {
	if q.ID == "" {
		return ErrQuestionIDEmpty
	}

	if !q.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrQuestionTypeInvalid, q.Type)
	}

	if q.Type == QuestionTypeMultipleChoice {
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %s", ErrQuestionNoOptions, q.ID)
		}

		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: question %s", ErrAnswerNotInOptions, q.ID)
		}
	}

	return nil
}

// Section is one reading passage with its question set. The passage text is
// immutable once created.
type Section struct {
	ID          string     `json:"section_id"`
	Title       string     `json:"title"`
	PassageText string     `json:"passage_text"`
	Questions   []Question `json:"questions"`
}

// Validate checks if the Section has valid data.
func (s *Section) Validate() error {
	if s.ID == "" {
		return ErrSectionIDEmpty
	}

	for i := range s.Questions {
		if err := s.Questions[i].Validate(); err != nil {
			return fmt.Errorf("section %s: %w", s.ID, err)
		}
	}

	return nil
}

// Exam is an extracted reading test: an ordered list of sections, each with
// its own passage and questions. The exam ID is generated locally at
// extraction time; section and question IDs come from the model output
// unmodified.
type Exam struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the Exam has valid data.
// Extraction aims for exactly ExpectedSectionCount sections; fewer are
// tolerated, more are rejected rather than silently merged.
func (e *Exam) Validate() error {
	if e.ID == uuid.Nil {
		return ErrExamIDEmpty
	}

	if e.Title == "" {
		return ErrExamTitleEmpty
	}

	if len(e.Sections) == 0 {
		return ErrExamNoSections
	}

	if len(e.Sections) > ExpectedSectionCount {
		return fmt.Errorf("%w: got %d", ErrExamTooManySections, len(e.Sections))
	}

	for i := range e.Sections {
		if err := e.Sections[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// QuestionCount returns the total number of questions across all sections.
func (e *Exam) QuestionCount() int {
	n := 0
	for i := range e.Sections {
		n += len(e.Sections[i].Questions)
	}
	return n
}
