package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/syllabus/internal/models"
)

const courseColumns = `id, title, instructor, order_index, next_course_id, created_at, updated_at`

// CourseRepo handles all course-related database operations for one
// collection. Every write touches a single row; ordering across rows is owned
// by the chain engine.
type CourseRepo struct {
	db         *sql.DB
	collection string
}

func scanCourse(row rowScanner) (*models.Course, error) {
	c := &models.Course{}
	var orderIndex sql.NullInt64
	var nextID sql.NullString
	if err := row.Scan(&c.ID, &c.Title, &c.Instructor, &orderIndex, &nextID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.OrderIndex = nullInt64ToPtr(orderIndex)
	c.NextID = nullStringToPtr(nextID)
	return c, nil
}

func (r *CourseRepo) query(ctx context.Context, query string, args ...any) ([]*models.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course rows: %w", err)
	}
	return courses, nil
}

// FetchAll retrieves every course in insertion order. Callers must not rely
// on this order for display.
func (r *CourseRepo) FetchAll(ctx context.Context) ([]*models.Course, error) {
	return r.query(ctx, `SELECT `+courseColumns+` FROM courses
		WHERE collection_id = ?
		ORDER BY created_at, id`, r.collection)
}

// FetchAllByLegacyIndex retrieves every course sorted by order_index with
// unindexed courses last, ties broken by creation time then ID.
func (r *CourseRepo) FetchAllByLegacyIndex(ctx context.Context) ([]*models.Course, error) {
	return r.query(ctx, `SELECT `+courseColumns+` FROM courses
		WHERE collection_id = ?
		ORDER BY order_index IS NULL, order_index, created_at, id`, r.collection)
}

// FetchByID retrieves a single course
func (r *CourseRepo) FetchByID(ctx context.Context, id string) (*models.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ? AND collection_id = ?`, id, r.collection)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", id, err)
	}
	return c, nil
}

// Insert creates a course whose next pointer is already set. A new UUID is
// assigned when the input carries no ID.
func (r *CourseRepo) Insert(ctx context.Context, in models.CourseInput, next *string) (*models.Course, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, collection_id, title, instructor, order_index, next_course_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.collection, in.Title, in.Instructor, intPtrToNull(in.OrderIndex), stringPtrToNull(next), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert course %s: %w", id, err)
	}

	return &models.Course{
		ID:         id,
		Title:      in.Title,
		Instructor: in.Instructor,
		OrderIndex: in.OrderIndex,
		NextID:     next,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// UpdateFields applies a partial payload update and returns the updated course.
// The next pointer is never touched.
func (r *CourseRepo) UpdateFields(ctx context.Context, id string, update models.CourseUpdate) (*models.Course, error) {
	var updated *models.Course
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE courses SET
				title = COALESCE(?, title),
				instructor = COALESCE(?, instructor),
				order_index = COALESCE(?, order_index),
				updated_at = ?
			WHERE id = ? AND collection_id = ?`,
			stringPtrToNull(update.Title), stringPtrToNull(update.Instructor), intPtrToNull(update.OrderIndex),
			time.Now().UTC(), id, r.collection,
		)
		if err != nil {
			return fmt.Errorf("failed to update course %s: %w", id, err)
		}
		if err := requireAffected(result); err != nil {
			return err
		}

		updated, err = scanCourse(tx.QueryRowContext(ctx,
			`SELECT `+courseColumns+` FROM courses WHERE id = ? AND collection_id = ?`, id, r.collection))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetNext rewrites a single next pointer
func (r *CourseRepo) SetNext(ctx context.Context, id string, next *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courses SET next_course_id = ?, updated_at = ? WHERE id = ? AND collection_id = ?`,
		stringPtrToNull(next), time.Now().UTC(), id, r.collection)
	if err != nil {
		return fmt.Errorf("failed to set next pointer of course %s: %w", id, err)
	}
	return requireAffected(result)
}

// SetOrderIndex rewrites the legacy order_index of a single course
func (r *CourseRepo) SetOrderIndex(ctx context.Context, id string, index int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courses SET order_index = ?, updated_at = ? WHERE id = ? AND collection_id = ?`,
		index, time.Now().UTC(), id, r.collection)
	if err != nil {
		return fmt.Errorf("failed to set order index of course %s: %w", id, err)
	}
	return requireAffected(result)
}

// DeleteByID removes a course. Deleting a missing course is not an error.
func (r *CourseRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ? AND collection_id = ?`, id, r.collection)
	if err != nil {
		return fmt.Errorf("failed to delete course %s: %w", id, err)
	}
	return nil
}

// FindPredecessor returns the course whose next pointer targets id, or nil.
// If several do, the one with the lowest ID is returned.
func (r *CourseRepo) FindPredecessor(ctx context.Context, id string) (*models.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses
		WHERE collection_id = ? AND next_course_id = ? AND id != ?
		ORDER BY id LIMIT 1`, r.collection, id, id)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find predecessor of %s: %w", id, err)
	}
	return c, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrCourseNotFound
	}
	return nil
}
