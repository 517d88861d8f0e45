package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDataVersion_ReportsOtherConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "courses.db")
	watched, err := InitDB(ctx, path)
	require.NoError(t, err)
	defer closeDB(watched)
	writer, err := InitDB(ctx, path)
	require.NoError(t, err)
	defer closeDB(writer)

	changes := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- WatchDataVersion(ctx, watched, 10*time.Millisecond, func() {
			changes <- struct{}{}
		})
	}()

	// Give the watcher time to take its baseline
	time.Sleep(50 * time.Millisecond)
	_, err = NewRepository(writer, "").Insert(ctx, testInput("a"), nil)
	require.NoError(t, err)

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchDataVersion_ClosedDatabase(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Close())

	err := WatchDataVersion(context.Background(), db, time.Millisecond, func() {})
	assert.Error(t, err)
}
