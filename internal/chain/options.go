package chain

import "log/slog"

// DefaultTraversalSlack bounds how far a traversal may run past the record count
const DefaultTraversalSlack = 5

// Option is a functional option for configuring an Engine
type Option func(*Engine)

// WithLogger sets the logger used for corruption and mutation logs
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTraversalSlack sets the secondary runaway-traversal bound
func WithTraversalSlack(slack int) Option {
	return func(e *Engine) {
		if slack >= 0 {
			e.slack = slack
		}
	}
}

// WithLegacySync makes every successful mutation rewrite the legacy index
// from the resulting chain order.
func WithLegacySync(enabled bool) Option {
	return func(e *Engine) {
		e.syncLegacy = enabled
	}
}

// WithMetrics shares a metrics instance across engines
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}
