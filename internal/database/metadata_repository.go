package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/models"
)

// MetadataRepo stores the chain head of one collection.
type MetadataRepo struct {
	db         *sql.DB
	collection string
}

// Get returns the metadata row of the collection
func (r *MetadataRepo) Get(ctx context.Context) (*models.OrderMetadata, error) {
	meta := &models.OrderMetadata{}
	var head sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_course_id, updated_at FROM course_order_metadata WHERE id = ?`,
		r.collection).Scan(&meta.CollectionID, &head, &meta.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrMetadataNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order metadata for %s: %w", r.collection, err)
	}
	meta.HeadID = nullStringToPtr(head)
	return meta, nil
}

// GetHead returns the head pointer. exists is false until a head is first written.
func (r *MetadataRepo) GetHead(ctx context.Context) (*string, bool, error) {
	meta, err := r.Get(ctx)
	if errors.Is(err, models.ErrMetadataNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return meta.HeadID, true, nil
}

// SetHead writes the head pointer, creating the metadata row if needed
func (r *MetadataRepo) SetHead(ctx context.Context, head *string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO course_order_metadata (id, first_course_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET first_course_id = excluded.first_course_id, updated_at = excluded.updated_at`,
		r.collection, stringPtrToNull(head), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set head for %s: %w", r.collection, err)
	}
	return nil
}

// SwapHead writes head only if the stored head still equals expected.
// A missing row matches a nil expected head.
func (r *MetadataRepo) SwapHead(ctx context.Context, expected, head *string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			`UPDATE course_order_metadata SET first_course_id = ?, updated_at = ?
			WHERE id = ? AND first_course_id IS ?`,
			stringPtrToNull(head), now, r.collection, stringPtrToNull(expected))
		if err != nil {
			return fmt.Errorf("failed to swap head for %s: %w", r.collection, err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return err
		} else if n == 1 {
			return nil
		}

		var exists int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM course_order_metadata WHERE id = ?`, r.collection).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to read head for %s: %w", r.collection, err)
		}
		if exists > 0 || expected != nil {
			return chain.ErrHeadConflict
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO course_order_metadata (id, first_course_id, updated_at) VALUES (?, ?, ?)`,
			r.collection, stringPtrToNull(head), now)
		if err != nil {
			return fmt.Errorf("failed to create order metadata for %s: %w", r.collection, err)
		}
		return nil
	})
}
