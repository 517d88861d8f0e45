package models

import "time"

// Course is a single orderable row in the course table.
// Display order is not stored: it is derived from the NextID chain on every read.
type Course struct {
	ID           string
	Title        string
	Instructor   string
	OrderIndex   *int    // Legacy numeric ordering, only used to bootstrap or repair the chain
	NextID       *string // ID of the course displayed right after this one (nil for the tail)
	DisplayOrder int     // 1-based position assigned by traversal, 0 when not traversed
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetID returns the course identity
func (c *Course) GetID() string {
	return c.ID
}

// IsTail reports whether the course has no successor
func (c *Course) IsTail() bool {
	return c.NextID == nil
}

// CourseInput is the payload used to create a course.
// An empty ID asks the store to generate one.
type CourseInput struct {
	ID         string
	Title      string
	Instructor string
	OrderIndex *int
}

// CourseUpdate is a partial payload update. Nil fields are left untouched.
// It never carries the chain pointer, which is owned by the ordering engine.
type CourseUpdate struct {
	Title      *string
	Instructor *string
	OrderIndex *int
}

// IsEmpty reports whether the update would change nothing
func (u CourseUpdate) IsEmpty() bool {
	return u.Title == nil && u.Instructor == nil && u.OrderIndex == nil
}
