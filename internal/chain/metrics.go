package chain

import (
	"sync/atomic"
	"time"
)

// Metrics tracks engine statistics using atomic operations for thread-safety
type Metrics struct {
	Traversals          atomic.Int64
	LegacyFallbacks     atomic.Int64
	CorruptionsDetected atomic.Int64
	Mutations           atomic.Int64
	PartialWrites       atomic.Int64
	CompensatingDeletes atomic.Int64
	HeadConflicts       atomic.Int64
	StartTime           time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Traversals          int64     `json:"traversals"`
	LegacyFallbacks     int64     `json:"legacy_fallbacks"`
	CorruptionsDetected int64     `json:"corruptions_detected"`
	Mutations           int64     `json:"mutations"`
	PartialWrites       int64     `json:"partial_writes"`
	CompensatingDeletes int64     `json:"compensating_deletes"`
	HeadConflicts       int64     `json:"head_conflicts"`
	StartTime           time.Time `json:"start_time"`
	Uptime              string    `json:"uptime"`
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Traversals:          m.Traversals.Load(),
		LegacyFallbacks:     m.LegacyFallbacks.Load(),
		CorruptionsDetected: m.CorruptionsDetected.Load(),
		Mutations:           m.Mutations.Load(),
		PartialWrites:       m.PartialWrites.Load(),
		CompensatingDeletes: m.CompensatingDeletes.Load(),
		HeadConflicts:       m.HeadConflicts.Load(),
		StartTime:           m.StartTime,
		Uptime:              time.Since(m.StartTime).String(),
	}
}
