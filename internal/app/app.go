package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/database"
	"github.com/thenoetrevino/syllabus/internal/events"
	"github.com/thenoetrevino/syllabus/internal/models"
	courseservice "github.com/thenoetrevino/syllabus/internal/services/course"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	db            *sql.DB
	logger        *slog.Logger
	collection    string
	watchInterval time.Duration

	// Event system for change notifications
	publisher events.EventPublisher

	// Service layer (business logic)
	CourseService courseservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(db *sql.DB, opts ...Option) *App {
	cfg := &appConfig{collection: models.DefaultCollection}
	for _, opt := range opts {
		opt(cfg)
	}

	chainOpts := cfg.chainOptions
	if cfg.logger != nil {
		chainOpts = append([]chain.Option{chain.WithLogger(cfg.logger)}, chainOpts...)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	repo := database.NewRepository(db, cfg.collection)
	return &App{
		db:            db,
		logger:        logger,
		collection:    repo.Collection(),
		watchInterval: cfg.watchInterval,
		publisher:     cfg.publisher,
		CourseService: courseservice.NewService(repo, cfg.publisher, cfg.collection, chainOpts...),
	}
}

// ErrNoPublisher is returned by Watch when the App has no event publisher
var ErrNoPublisher = errors.New("no event publisher configured")

// Watch returns a channel of change events for the App's collection until ctx
// is done. Changes made through this App arrive from the course service;
// commits by other processes are detected by polling the database and arrive
// as EventCoursesChanged without a course ID.
func (a *App) Watch(ctx context.Context) (<-chan events.Event, error) {
	if a.publisher == nil {
		return nil, ErrNoPublisher
	}

	ch, err := a.publisher.Subscribe(ctx, a.collection)
	if err != nil {
		return nil, err
	}

	go func() {
		err := database.WatchDataVersion(ctx, a.db, a.watchInterval, func() {
			if err := a.publisher.SendEvent(events.Event{
				Type:       events.EventCoursesChanged,
				Collection: a.collection,
			}); err != nil {
				a.logger.Debug("external change not delivered", "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("stopped watching database for changes", "error", err)
		}
	}()
	return ch, nil
}

// Close closes the event publisher and the database
func (a *App) Close() error {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}
	return a.db.Close()
}
