package api

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/api/shared"
	"github.com/preplab/ielts-api/internal/service"
)

// CreateExamRequest is the request body for exam extraction. The PDF is
// carried base64-encoded.
type CreateExamRequest struct {
	Document string `json:"document" validate:"required"`
}

// SubmitAttemptRequest is the request body for scoring a reading attempt.
// Answers maps question IDs to the learner's answers.
type SubmitAttemptRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

// ExplainAnswerRequest is the request body for the wrong-answer explanation
// endpoint.
type ExplainAnswerRequest struct {
	QuestionText   string `json:"question_text" validate:"required"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer" validate:"required"`
	PassageExcerpt string `json:"passage_excerpt"`
}

// ExplainAnswerResponse carries the generated explanation.
type ExplainAnswerResponse struct {
	Explanation string `json:"explanation"`
}

// ExamHandler handles reading exam extraction, scoring and explanation
// endpoints.
type ExamHandler struct {
	exams  service.ExamService
	logger *slog.Logger
}

// NewExamHandler creates an ExamHandler.
func NewExamHandler(exams service.ExamService, logger *slog.Logger) *ExamHandler {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for ExamHandler")
	}

	return &ExamHandler{
		exams:  exams,
		logger: logger.With(slog.String("component", "exam_handler")),
	}
}

// CreateExam handles POST /exams. It extracts a structured reading exam from
// the uploaded PDF document.
func (h *ExamHandler) CreateExam(w http.ResponseWriter, r *http.Request) {
	var req CreateExamRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	document, err := base64.StdEncoding.DecodeString(req.Document)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Document must be base64-encoded")
		return
	}

	exam, err := h.exams.ExtractExam(r.Context(), document)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, exam)
}

// GetExam handles GET /exams/{id}.
func (h *ExamHandler) GetExam(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid exam ID format")
		return
	}

	exam, err := h.exams.GetExam(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, exam)
}

// ListExams handles GET /exams.
func (h *ExamHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.exams.ListExams(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, exams)
}

// ListResults handles GET /exams/results for the authenticated user.
func (h *ExamHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.UserUID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	results, err := h.exams.ListResults(r.Context(), uid)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, results)
}

// SubmitAttempt handles POST /exams/{id}/attempts. It scores the learner's
// answers against the exam and persists the result.
func (h *ExamHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.UserUID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	examID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid exam ID format")
		return
	}

	var req SubmitAttemptRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.exams.ScoreAttempt(r.Context(), uid, examID, req.Answers)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// ExplainAnswer handles POST /explanations. It generates a short explanation
// of why the correct answer is right.
func (h *ExamHandler) ExplainAnswer(w http.ResponseWriter, r *http.Request) {
	var req ExplainAnswerRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	explanation, err := h.exams.ExplainAnswer(r.Context(), req.QuestionText, req.UserAnswer, req.CorrectAnswer, req.PassageExcerpt)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ExplainAnswerResponse{Explanation: explanation})
}
