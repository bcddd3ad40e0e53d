package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/api/shared"
	"github.com/preplab/ielts-api/internal/service"
)

// CreateTopicRequest is the request body for adding a writing topic.
type CreateTopicRequest struct {
	Category     string `json:"category"`
	QuestionText string `json:"question_text" validate:"required"`
}

// SubmitEssayRequest is the request body for essay submission.
type SubmitEssayRequest struct {
	TopicID string `json:"topic_id" validate:"required,uuid"`
	Essay   string `json:"essay" validate:"required"`
}

// WritingHandler handles essay grading and writing topic endpoints.
type WritingHandler struct {
	grading service.GradingService
	logger  *slog.Logger
}

// NewWritingHandler creates a WritingHandler.
func NewWritingHandler(grading service.GradingService, logger *slog.Logger) *WritingHandler {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for WritingHandler")
	}

	return &WritingHandler{
		grading: grading,
		logger:  logger.With(slog.String("component", "writing_handler")),
	}
}

// SubmitEssay handles POST /writing/submissions. It grades the essay against
// the chosen topic and returns the stored submission with its report.
func (h *WritingHandler) SubmitEssay(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.UserUID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SubmitEssayRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	topicID, err := uuid.Parse(req.TopicID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid topic ID format")
		return
	}

	submission, err := h.grading.SubmitEssay(r.Context(), uid, topicID, req.Essay)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, submission)
}

// CreateTopic handles POST /writing/topics. Without at least one topic no
// essay can be submitted, so fresh deployments seed their topic list through
// this endpoint.
func (h *WritingHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req CreateTopicRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	topic, err := h.grading.CreateTopic(r.Context(), req.Category, req.QuestionText)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, topic)
}

// ListTopics handles GET /writing/topics.
func (h *WritingHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.grading.ListTopics(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, topics)
}

// ListSubmissions handles GET /writing/submissions for the authenticated
// user.
func (h *WritingHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.UserUID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	submissions, err := h.grading.ListSubmissions(r.Context(), uid)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, submissions)
}
