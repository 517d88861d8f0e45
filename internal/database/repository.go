package database

import (
	"database/sql"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/models"
)

// Compile-time verification that Repository serves the engine, including its
// optional fast paths
var (
	_ chain.RecordStore        = (*Repository)(nil)
	_ chain.MetadataStore      = (*Repository)(nil)
	_ chain.HeadSwapper        = (*Repository)(nil)
	_ chain.PredecessorFinder  = (*Repository)(nil)
	_ chain.LegacyOrderFetcher = (*Repository)(nil)
)

// Repository provides a unified interface to all data operations.
// It composes the course and metadata repositories using struct embedding, so
// it satisfies both stores the chain engine needs.
type Repository struct {
	*CourseRepo
	*MetadataRepo
}

// NewRepository creates a Repository scoped to the given collection: courses
// and the chain head of other collections are invisible to it.
// An empty collection selects models.DefaultCollection.
func NewRepository(db *sql.DB, collection string) *Repository {
	if collection == "" {
		collection = models.DefaultCollection
	}
	return &Repository{
		CourseRepo:   &CourseRepo{db: db, collection: collection},
		MetadataRepo: &MetadataRepo{db: db, collection: collection},
	}
}

// Collection returns the collection this repository is scoped to
func (r *Repository) Collection() string {
	return r.CourseRepo.collection
}
