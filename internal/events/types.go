package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	// EventCoursesChanged is sent after an insert, move, update or delete
	EventCoursesChanged EventType = "courses_changed"
	// EventChainRebuilt is sent after the whole chain was relinked
	EventChainRebuilt EventType = "chain_rebuilt"
)

// Event represents a course ordering change notification
type Event struct {
	Type       EventType `json:"type"`
	Collection string    `json:"collection"`          // For filtering - which ordering was modified
	CourseID   string    `json:"course_id,omitempty"` // Empty for whole-chain events
	Timestamp  time.Time `json:"timestamp"`
	SequenceID int64     `json:"sequence_id"` // Monotonically increasing sequence number for ordering
}
