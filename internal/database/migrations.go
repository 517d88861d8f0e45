package database

import (
	"context"
	"database/sql"
	"fmt"
)

// runMigrations creates the database schema if needed.
// next_course_id has no foreign key: dangling pointers are reported by
// traversal and fixed by repair.
func runMigrations(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		// Create courses table
		_, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS courses (
				id TEXT PRIMARY KEY,
				collection_id TEXT NOT NULL DEFAULT 'main',
				title TEXT NOT NULL,
				instructor TEXT NOT NULL DEFAULT '',
				order_index INTEGER,
				next_course_id TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}

		// Databases created before collections existed hold only the main collection
		if err := ensureColumn(ctx, tx, "courses", "collection_id", `TEXT NOT NULL DEFAULT 'main'`); err != nil {
			return err
		}

		// Predecessor lookups scan by next pointer within a collection
		_, err = tx.ExecContext(ctx, `DROP INDEX IF EXISTS idx_courses_next`)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS idx_courses_collection_next
			ON courses(collection_id, next_course_id)
		`)
		if err != nil {
			return err
		}

		// Create order metadata table, one row per collection
		_, err = tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS course_order_metadata (
				id TEXT PRIMARY KEY,
				first_course_id TEXT,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		return err
	})
}

// ensureColumn adds column to table unless it already exists
func ensureColumn(ctx context.Context, tx *sql.Tx, table, column, definition string) error {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition))
	if err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}
	return nil
}
