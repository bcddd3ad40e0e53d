package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/preplab/ielts-api/internal/domain"
	"github.com/preplab/ielts-api/internal/generation"
	"github.com/preplab/ielts-api/internal/schema"
	"github.com/preplab/ielts-api/internal/service"
	"github.com/preplab/ielts-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "flashcard not found",
			err:      store.ErrFlashcardNotFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "exam not found wrapped in service error",
			err:      &service.ServiceError{Operation: "get_exam", Message: "failed", Err: store.ErrExamNotFound},
			expected: http.StatusNotFound,
		},
		{
			name:     "card not owned",
			err:      service.ErrCardNotOwned,
			expected: http.StatusForbidden,
		},
		{
			name:     "span too long",
			err:      domain.ErrSpanTooLong,
			expected: http.StatusBadRequest,
		},
		{
			name:     "empty essay",
			err:      service.ErrEssayEmpty,
			expected: http.StatusBadRequest,
		},
		{
			name:     "transport failure",
			err:      fmt.Errorf("exceeded maximum retry attempts (3): %w", generation.ErrNetwork),
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "upstream rejection",
			err:      generation.ErrUpstream,
			expected: http.StatusBadGateway,
		},
		{
			name:     "schema violation",
			err:      fmt.Errorf("%w: %v", generation.ErrUpstream, &schema.Violation{Path: "overallScore", Reason: "missing"}),
			expected: http.StatusBadGateway,
		},
		{
			name:     "malformed domain object",
			err:      domain.ErrMalformedDomainObject,
			expected: http.StatusBadGateway,
		},
		{
			name: "extracted exam failing domain validation",
			err: &service.ServiceError{
				Operation: "extract_exam",
				Message:   "failed to build exam",
				Err:       fmt.Errorf("%w: %w", domain.ErrMalformedDomainObject, domain.ErrAnswerNotInOptions),
			},
			expected: http.StatusBadGateway,
		},
		{
			name:     "empty topic question",
			err:      domain.ErrTopicQuestionEmpty,
			expected: http.StatusBadRequest,
		},
		{
			name:     "empty model response",
			err:      generation.ErrEmptyResponse,
			expected: http.StatusBadGateway,
		},
		{
			name:     "score mismatch",
			err:      service.ErrScoreMismatch,
			expected: http.StatusBadGateway,
		},
		{
			name:     "unknown error",
			err:      errors.New("something odd"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	// Messages must never leak wrapped internals.
	wrapped := &service.ServiceError{
		Operation: "grade_essay",
		Message:   "model invocation failed at https://internal.endpoint",
		Err:       generation.ErrNetwork,
	}

	msg := GetSafeErrorMessage(wrapped)
	assert.NotContains(t, msg, "internal.endpoint")
	assert.Contains(t, msg, "temporarily unreachable")

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("boom")))
}
