// Package chain maintains a user-visible total order over course rows using
// per-row next pointers persisted in the store, rooted at a head pointer kept
// in a per-collection metadata row.
//
// The package keeps no authoritative in-memory copy of the chain: every
// operation re-derives its view from the stores, and every write is a
// single-row write. A multi-step mutation interrupted half way leaves a
// structure that Traverse detects and Repair rebuilds.
package chain

import (
	"context"

	"github.com/thenoetrevino/syllabus/internal/models"
)

// RecordStore is the course table as seen by the ordering engine.
type RecordStore interface {
	// FetchAll returns every course, unordered.
	FetchAll(ctx context.Context) ([]*models.Course, error)

	// FetchByID returns models.ErrCourseNotFound when the course does not exist.
	FetchByID(ctx context.Context, id string) (*models.Course, error)

	// Insert creates a course whose next pointer is already set to next.
	Insert(ctx context.Context, in models.CourseInput, next *string) (*models.Course, error)

	// SetNext rewrites a single next pointer.
	SetNext(ctx context.Context, id string, next *string) error

	// SetOrderIndex rewrites the legacy numeric ordering field.
	SetOrderIndex(ctx context.Context, id string, index int) error

	// DeleteByID removes a course. Deleting a missing course is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// MetadataStore holds the head pointer of one collection.
type MetadataStore interface {
	// GetHead returns exists=false when no metadata has been written yet.
	GetHead(ctx context.Context) (head *string, exists bool, err error)

	// SetHead unconditionally writes the head pointer, creating the row if needed.
	SetHead(ctx context.Context, head *string) error
}

// HeadSwapper is implemented by metadata stores that can update the head
// conditionally. When available the engine uses it for every head change so a
// concurrent writer fails with ErrHeadConflict instead of being overwritten.
type HeadSwapper interface {
	SwapHead(ctx context.Context, expected, head *string) error
}

// PredecessorFinder is implemented by record stores that can look up the
// course pointing at id without loading the whole table. It returns nil when
// no course points at id.
type PredecessorFinder interface {
	FindPredecessor(ctx context.Context, id string) (*models.Course, error)
}

// LegacyOrderFetcher is implemented by record stores that can return every
// course already sorted the way SortByLegacyIndex sorts them.
type LegacyOrderFetcher interface {
	FetchAllByLegacyIndex(ctx context.Context) ([]*models.Course, error)
}
