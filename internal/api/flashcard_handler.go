package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/api/shared"
	"github.com/preplab/ielts-api/internal/domain"
	"github.com/preplab/ielts-api/internal/service"
)

// CreateFlashcardRequest is the request body for flashcard creation. Span is
// the word selection, Passage the text it was selected from.
type CreateFlashcardRequest struct {
	Span    string `json:"span" validate:"required"`
	Passage string `json:"passage" validate:"required"`
}

// SubmitReviewRequest is the request body for a flashcard review.
type SubmitReviewRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=correct incorrect skipped"`
}

// FlashcardHandler handles flashcard creation and review endpoints.
type FlashcardHandler struct {
	cards  service.FlashcardService
	logger *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(cards service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardHandler")
	}

	return &FlashcardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateCard handles POST /flashcards. It creates a card from a selected
// word span, generating its definition.
func (h *FlashcardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.UserUID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateFlashcardRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	card, err := h.cards.CreateCard(r.Context(), uid, req.Span, req.Passage)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// ListDue handles GET /flashcards/due. Cards are returned oldest-due first.
func (h *FlashcardHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.UserUID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	due, err := h.cards.DueCards(r.Context(), uid, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, due)
}

// SubmitReview handles POST /flashcards/{id}/review. It applies the review
// outcome to the card's schedule and returns the updated card.
func (h *FlashcardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.UserUID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID format")
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	card, err := h.cards.SubmitReview(r.Context(), uid, cardID, domain.ReviewOutcome(req.Outcome))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}
