package api

import (
	"errors"
	"net/http"

	"github.com/preplab/ielts-api/internal/domain"
	"github.com/preplab/ielts-api/internal/generation"
	"github.com/preplab/ielts-api/internal/schema"
	"github.com/preplab/ielts-api/internal/service"
	"github.com/preplab/ielts-api/internal/store"
)

// MapErrorToStatusCode maps service and pipeline errors to HTTP status
// codes. The mapping mirrors the error taxonomy: client mistakes are 4xx,
// model-side failures are gateway errors, everything else is 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCardNotOwned):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrSpanEmpty),
		errors.Is(err, domain.ErrSpanTooLong),
		errors.Is(err, domain.ErrTopicQuestionEmpty),
		errors.Is(err, service.ErrEssayEmpty),
		errors.Is(err, service.ErrDocumentEmpty):
		return http.StatusBadRequest
	case errors.Is(err, generation.ErrNetwork):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrUpstream),
		errors.Is(err, generation.ErrEmptyResponse),
		errors.Is(err, schema.ErrSchemaViolation),
		errors.Is(err, domain.ErrMalformedDomainObject),
		errors.Is(err, service.ErrScoreMismatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-presentable message for the error
// without leaking internal detail.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, service.ErrCardNotOwned):
		return "You do not own this flashcard"
	case errors.Is(err, domain.ErrSpanEmpty):
		return "Select a word to create a flashcard"
	case errors.Is(err, domain.ErrSpanTooLong):
		return "Flashcard selections are limited to three words"
	case errors.Is(err, domain.ErrTopicQuestionEmpty):
		return "Topic question cannot be empty"
	case errors.Is(err, service.ErrEssayEmpty):
		return "Essay cannot be empty"
	case errors.Is(err, service.ErrDocumentEmpty):
		return "Document cannot be empty"
	case errors.Is(err, generation.ErrNetwork):
		return "The AI service is temporarily unreachable, please retry"
	case errors.Is(err, generation.ErrUpstream),
		errors.Is(err, schema.ErrSchemaViolation),
		errors.Is(err, domain.ErrMalformedDomainObject),
		errors.Is(err, service.ErrScoreMismatch):
		return "The AI service returned an unusable response"
	case errors.Is(err, generation.ErrEmptyResponse):
		return "The AI service returned an empty response"
	default:
		return "An unexpected error occurred"
	}
}
