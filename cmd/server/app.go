package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/preplab/ielts-api/internal/config"
	"github.com/preplab/ielts-api/internal/domain/srs"
	"github.com/preplab/ielts-api/internal/generation"
	"github.com/preplab/ielts-api/internal/platform/gemini"
	"github.com/preplab/ielts-api/internal/segment"
	"github.com/preplab/ielts-api/internal/service"
	"github.com/preplab/ielts-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	flashcardStore store.FlashcardStore
	examStore      store.ExamStore
	writingStore   store.WritingStore

	// Generative pipeline
	invoker generation.Invoker

	// Services
	srsService       srs.Service
	gradingService   service.GradingService
	examService      service.ExamService
	flashcardService service.FlashcardService
}

// newApplication creates an application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established before wiring.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.flashcardStore = store.NewPostgresFlashcardStore(db)
	app.examStore = store.NewPostgresExamStore(db)
	app.writingStore = store.NewPostgresWritingStore(db)

	gateway, err := gemini.NewGateway(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model gateway: %w", err)
	}
	app.invoker = gateway
	logger.Info("model gateway initialized", slog.String("model", cfg.LLM.ModelName))

	app.srsService = srs.NewDefaultService()

	app.gradingService = service.NewGradingService(
		app.invoker,
		app.writingStore,
		logger,
		service.ScoreTrustModel,
		cfg.LLM,
	)

	app.examService = service.NewExamService(
		app.invoker,
		app.examStore,
		logger,
		cfg.LLM,
	)

	app.flashcardService = service.NewFlashcardService(
		app.invoker,
		app.srsService,
		segment.NewRegexSplitter(),
		app.flashcardStore,
		db,
		logger,
		cfg.LLM,
	)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
