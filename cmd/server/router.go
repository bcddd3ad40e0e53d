package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/preplab/ielts-api/internal/api"
	apiMiddleware "github.com/preplab/ielts-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceID())

	verifier := apiMiddleware.NewJWTVerifier(app.config.Auth.JWTSecret)

	writingHandler := api.NewWritingHandler(app.gradingService, app.logger)
	examHandler := api.NewExamHandler(app.examService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.Auth(verifier, app.logger))

			// Writing endpoints
			r.Get("/writing/topics", writingHandler.ListTopics)
			r.Post("/writing/topics", writingHandler.CreateTopic)
			r.Get("/writing/submissions", writingHandler.ListSubmissions)
			r.Post("/writing/submissions", writingHandler.SubmitEssay)

			// Reading exam endpoints
			r.Post("/exams", examHandler.CreateExam)
			r.Get("/exams", examHandler.ListExams)
			r.Get("/exams/results", examHandler.ListResults)
			r.Get("/exams/{id}", examHandler.GetExam)
			r.Post("/exams/{id}/attempts", examHandler.SubmitAttempt)
			r.Post("/explanations", examHandler.ExplainAnswer)

			// Flashcard endpoints
			r.Post("/flashcards", flashcardHandler.CreateCard)
			r.Get("/flashcards/due", flashcardHandler.ListDue)
			r.Post("/flashcards/{id}/review", flashcardHandler.SubmitReview)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
