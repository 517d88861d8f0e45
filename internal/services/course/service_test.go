package course

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/database"
	"github.com/thenoetrevino/syllabus/internal/events"
	"github.com/thenoetrevino/syllabus/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func setupService(t *testing.T) (Service, *database.Repository, <-chan events.Event) {
	t.Helper()
	ctx := context.Background()

	db, err := database.InitDB(ctx, database.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	broker := events.NewBroker(100)
	t.Cleanup(func() { _ = broker.Close() })
	ch, err := broker.Subscribe(ctx, "")
	require.NoError(t, err)

	repo := database.NewRepository(db, "")
	return NewService(repo, broker, ""), repo, ch
}

func nextEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("expected an event")
		return events.Event{}
	}
}

func requireNoEvent(t *testing.T, ch <-chan events.Event) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func orderedIDs(t *testing.T, svc Service) []string {
	t.Helper()
	res, err := svc.GetOrderedCourses(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(res.Courses))
	for _, c := range res.Courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// ============================================================================
// TESTS
// ============================================================================

func TestInsertCourse(t *testing.T) {
	ctx := context.Background()
	svc, _, ch := setupService(t)

	a, err := svc.InsertCourse(ctx, InsertCourseRequest{ID: "a", Title: "  Algebra  ", Instructor: "Noether"})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", a.Title, "title is trimmed")

	ev := nextEvent(t, ch)
	assert.Equal(t, events.EventCoursesChanged, ev.Type)
	assert.Equal(t, models.DefaultCollection, ev.Collection)
	assert.Equal(t, "a", ev.CourseID)

	_, err = svc.InsertCourse(ctx, InsertCourseRequest{ID: "c", Title: "Calculus", AfterID: "a"})
	require.NoError(t, err)
	_, err = svc.InsertCourse(ctx, InsertCourseRequest{ID: "b", Title: "Biology", AfterID: "a"})
	require.NoError(t, err)
	_, err = svc.InsertCourse(ctx, InsertCourseRequest{ID: "z", Title: "Zoology"})
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "b", "c"}, orderedIDs(t, svc))
}

func TestInsertCourse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     InsertCourseRequest
		wantErr error
	}{
		{"empty title", InsertCourseRequest{Title: "   "}, ErrEmptyTitle},
		{"title too long", InsertCourseRequest{Title: strings.Repeat("x", models.MaxTitleLength+1)}, ErrTitleTooLong},
		{"instructor too long", InsertCourseRequest{Title: "ok", Instructor: strings.Repeat("x", models.MaxInstructorLength+1)}, ErrInstructorTooLong},
		{"negative order index", InsertCourseRequest{Title: "ok", OrderIndex: intPtr(-1)}, ErrInvalidOrderIndex},
		{"blank anchor", InsertCourseRequest{Title: "ok", AfterID: "  "}, ErrInvalidCourseID},
		{"missing anchor", InsertCourseRequest{Title: "ok", AfterID: "ghost"}, ErrCourseNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, ch := setupService(t)

			_, err := svc.InsertCourse(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			requireNoEvent(t, ch)
		})
	}
}

func TestInsertCourse_UninitializedChain(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupService(t)
	_, err := repo.Insert(ctx, models.CourseInput{ID: "legacy", Title: "Legacy", OrderIndex: intPtr(1)}, nil)
	require.NoError(t, err)

	_, err = svc.InsertCourse(ctx, InsertCourseRequest{Title: "New"})
	assert.ErrorIs(t, err, chain.ErrNotInitialized)

	require.NoError(t, svc.RebuildFromLegacyIndex(ctx))
	_, err = svc.InsertCourse(ctx, InsertCourseRequest{ID: "new", Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "legacy"}, orderedIDs(t, svc))
}

func TestMoveCourse(t *testing.T) {
	ctx := context.Background()
	svc, _, ch := setupService(t)
	for _, id := range []string{"c", "b", "a"} {
		_, err := svc.InsertCourse(ctx, InsertCourseRequest{ID: id, Title: "Course " + id})
		require.NoError(t, err)
		nextEvent(t, ch)
	}
	require.Equal(t, []string{"a", "b", "c"}, orderedIDs(t, svc))

	require.NoError(t, svc.MoveCourse(ctx, "a", "c"))
	assert.Equal(t, []string{"b", "c", "a"}, orderedIDs(t, svc))
	assert.Equal(t, "a", nextEvent(t, ch).CourseID)

	require.NoError(t, svc.MoveToFirst(ctx, "c"))
	assert.Equal(t, []string{"c", "b", "a"}, orderedIDs(t, svc))
	assert.Equal(t, "c", nextEvent(t, ch).CourseID)

	assert.ErrorIs(t, svc.MoveCourse(ctx, "a", ""), ErrInvalidCourseID)
	assert.ErrorIs(t, svc.MoveCourse(ctx, "", "a"), ErrInvalidCourseID)
	assert.ErrorIs(t, svc.MoveCourse(ctx, "ghost", "a"), ErrCourseNotFound)
	assert.ErrorIs(t, svc.MoveToFirst(ctx, "ghost"), ErrCourseNotFound)
}

func TestUpdateCourse(t *testing.T) {
	ctx := context.Background()
	svc, _, ch := setupService(t)
	_, err := svc.InsertCourse(ctx, InsertCourseRequest{ID: "a", Title: "Algebra", Instructor: "Noether"})
	require.NoError(t, err)
	nextEvent(t, ch)

	updated, err := svc.UpdateCourse(ctx, "a", models.CourseUpdate{Instructor: strPtr(" Hilbert ")})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", updated.Title)
	assert.Equal(t, "Hilbert", updated.Instructor)
	assert.Equal(t, "a", nextEvent(t, ch).CourseID)

	_, err = svc.UpdateCourse(ctx, "a", models.CourseUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
	_, err = svc.UpdateCourse(ctx, "a", models.CourseUpdate{Title: strPtr("")})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = svc.UpdateCourse(ctx, "ghost", models.CourseUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrCourseNotFound)
	requireNoEvent(t, ch)
}

func TestGetCourse(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)
	_, err := svc.InsertCourse(ctx, InsertCourseRequest{ID: "a", Title: "Algebra"})
	require.NoError(t, err)

	c, err := svc.GetCourse(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", c.Title)

	_, err = svc.GetCourse(ctx, "ghost")
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = svc.GetCourse(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidCourseID)
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()
	svc, _, ch := setupService(t)
	for _, id := range []string{"b", "a"} {
		_, err := svc.InsertCourse(ctx, InsertCourseRequest{ID: id, Title: "Course " + id})
		require.NoError(t, err)
		nextEvent(t, ch)
	}

	require.NoError(t, svc.DeleteCourse(ctx, "a"))
	assert.Equal(t, []string{"b"}, orderedIDs(t, svc))
	nextEvent(t, ch)

	require.NoError(t, svc.DeleteCourse(ctx, "a"), "deleting twice is not an error")
	assert.ErrorIs(t, svc.DeleteCourse(ctx, " "), ErrInvalidCourseID)
}

func TestMaintenance(t *testing.T) {
	ctx := context.Background()
	svc, repo, ch := setupService(t)
	for i, id := range []string{"a", "b", "c"} {
		_, err := repo.Insert(ctx, models.CourseInput{ID: id, Title: "Course " + id, OrderIndex: intPtr(3 - i)}, nil)
		require.NoError(t, err)
	}

	report, err := svc.CheckIntegrity(ctx)
	require.NoError(t, err)
	assert.False(t, report.Initialized)
	assert.Equal(t, chain.ModeLegacy, report.Mode)

	require.NoError(t, svc.RebuildFromLegacyIndex(ctx))
	assert.Equal(t, events.EventChainRebuilt, nextEvent(t, ch).Type)
	assert.Equal(t, []string{"c", "b", "a"}, orderedIDs(t, svc))

	// Break the chain: b no longer reaches a
	require.NoError(t, repo.SetNext(ctx, "b", nil))
	report, err = svc.CheckIntegrity(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, report.Unreachable)
	assert.ErrorIs(t, svc.SyncLegacyIndex(ctx), chain.ErrChainIncomplete)

	repaired, err := svc.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired.Appended)
	assert.Equal(t, events.EventChainRebuilt, nextEvent(t, ch).Type)
	assert.Equal(t, []string{"c", "b", "a"}, orderedIDs(t, svc))

	require.NoError(t, svc.MoveToFirst(ctx, "a"))
	require.NoError(t, svc.SyncLegacyIndex(ctx))
	a, err := svc.GetCourse(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, *a.OrderIndex)

	snap := svc.Metrics()
	assert.Positive(t, snap.Traversals)
	assert.Positive(t, snap.Mutations)
}

func TestNilPublisher(t *testing.T) {
	ctx := context.Background()
	db, err := database.InitDB(ctx, database.MemoryPath)
	require.NoError(t, err)
	defer db.Close()
	svc := NewService(database.NewRepository(db, ""), nil, "")

	_, err = svc.InsertCourse(ctx, InsertCourseRequest{Title: "No events"})
	assert.NoError(t, err)
}
