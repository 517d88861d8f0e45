package cli

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/thenoetrevino/syllabus/internal/app"
	"github.com/thenoetrevino/syllabus/internal/events"
	"github.com/thenoetrevino/syllabus/internal/models"
	courseservice "github.com/thenoetrevino/syllabus/internal/services/course"
	"github.com/thenoetrevino/syllabus/internal/testutil"
)

// SetupCLITest creates an in-memory DB and returns both the DB and App instance
// This function is only for CLI tests and is isolated in a separate package
// to avoid import cycles when service tests import testutil
func SetupCLITest(t *testing.T) (*sql.DB, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	// Note: EventPublisher is nil - event publishing is tested elsewhere
	appInstance := app.New(db)
	t.Cleanup(func() {
		_ = appInstance.Close()
	})

	return db, appInstance
}

// SetupCLITestWithEvents is SetupCLITest with an event broker attached, for
// commands that follow changes
func SetupCLITestWithEvents(t *testing.T) (*sql.DB, *app.App, *events.Broker) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	broker := events.NewBroker(10)
	appInstance := app.New(db,
		app.WithEventPublisher(broker),
		app.WithWatchInterval(10*time.Millisecond))
	t.Cleanup(func() {
		_ = appInstance.Close()
	})

	return db, appInstance, broker
}

// CreateTestCourse inserts a course after afterID ("" = first) and returns it
func CreateTestCourse(t *testing.T, a *app.App, title, afterID string) *models.Course {
	t.Helper()
	c, err := a.CourseService.InsertCourse(context.Background(), courseservice.InsertCourseRequest{
		Title:   title,
		AfterID: afterID,
	})
	if err != nil {
		t.Fatalf("Failed to create test course %q: %v", title, err)
	}
	return c
}

// OrderedTitles returns the course titles in display order
func OrderedTitles(t *testing.T, a *app.App) []string {
	t.Helper()
	res, err := a.CourseService.GetOrderedCourses(context.Background())
	if err != nil {
		t.Fatalf("Failed to list courses: %v", err)
	}
	titles := make([]string, len(res.Courses))
	for i, c := range res.Courses {
		titles[i] = c.Title
	}
	return titles
}
