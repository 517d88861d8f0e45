package app

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	publisher     events.EventPublisher
	logger        *slog.Logger
	collection    string
	watchInterval time.Duration
	chainOptions  []chain.Option
}

// WithEventPublisher sets the event publisher for the application
func WithEventPublisher(ep events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.publisher = ep
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithCollection selects which course ordering the application works on
func WithCollection(collection string) Option {
	return func(cfg *appConfig) {
		cfg.collection = collection
	}
}

// WithWatchInterval sets how often Watch polls the database for commits made
// by other processes
func WithWatchInterval(interval time.Duration) Option {
	return func(cfg *appConfig) {
		cfg.watchInterval = interval
	}
}

// WithChainOptions passes options through to the ordering engine
func WithChainOptions(opts ...chain.Option) Option {
	return func(cfg *appConfig) {
		cfg.chainOptions = append(cfg.chainOptions, opts...)
	}
}
