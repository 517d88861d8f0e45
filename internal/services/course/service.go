package course

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/events"
	"github.com/thenoetrevino/syllabus/internal/models"
)

// Store is the persistence the course service needs: both chain stores plus
// payload updates.
type Store interface {
	chain.RecordStore
	chain.MetadataStore
	UpdateFields(ctx context.Context, id string, update models.CourseUpdate) (*models.Course, error)
}

// Service defines all course-related business operations
type Service interface {
	// Read operations
	GetOrderedCourses(ctx context.Context) (*chain.Result, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)

	// Write operations
	InsertCourse(ctx context.Context, req InsertCourseRequest) (*models.Course, error)
	MoveCourse(ctx context.Context, id, afterID string) error
	MoveToFirst(ctx context.Context, id string) error
	UpdateCourse(ctx context.Context, id string, update models.CourseUpdate) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	// Maintenance operations
	RebuildFromLegacyIndex(ctx context.Context) error
	Repair(ctx context.Context) (*chain.RepairReport, error)
	SyncLegacyIndex(ctx context.Context) error
	CheckIntegrity(ctx context.Context) (*chain.IntegrityReport, error)
	Metrics() chain.MetricsSnapshot
}

// InsertCourseRequest encapsulates data for creating a course
type InsertCourseRequest struct {
	ID         string // Optional: generated when empty
	Title      string
	Instructor string
	OrderIndex *int
	AfterID    string // Optional: ID of course to insert after ("" = insert first)
}

// service implements Service on top of the chain engine
type service struct {
	store      Store
	engine     *chain.Engine
	publisher  events.EventPublisher
	collection string
}

// NewService creates a new course service ordering the given collection
func NewService(store Store, publisher events.EventPublisher, collection string, opts ...chain.Option) Service {
	if collection == "" {
		collection = models.DefaultCollection
	}
	return &service{
		store:      store,
		engine:     chain.NewEngine(store, store, opts...),
		publisher:  publisher,
		collection: collection,
	}
}

// GetOrderedCourses retrieves every reachable course in display order
func (s *service) GetOrderedCourses(ctx context.Context) (*chain.Result, error) {
	return s.engine.Ordered(ctx)
}

// GetCourse retrieves a specific course
func (s *service) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.store.FetchByID(ctx, id)
}

// InsertCourse creates a course after req.AfterID, or first when AfterID is empty
func (s *service) InsertCourse(ctx context.Context, req InsertCourseRequest) (*models.Course, error) {
	if err := validateInsert(req); err != nil {
		return nil, err
	}

	in := models.CourseInput{
		ID:         req.ID,
		Title:      strings.TrimSpace(req.Title),
		Instructor: strings.TrimSpace(req.Instructor),
		OrderIndex: req.OrderIndex,
	}

	var (
		created *models.Course
		err     error
	)
	if req.AfterID == "" {
		created, err = s.engine.InsertFirst(ctx, in)
	} else {
		created, err = s.engine.InsertAfter(ctx, req.AfterID, in)
	}
	if err != nil {
		return nil, err
	}

	s.publishCourseEvent(events.EventCoursesChanged, created.ID)
	return created, nil
}

// MoveCourse places id directly after afterID
func (s *service) MoveCourse(ctx context.Context, id, afterID string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := validateID(afterID); err != nil {
		return err
	}
	if err := s.engine.MoveAfter(ctx, id, &afterID); err != nil {
		return err
	}
	s.publishCourseEvent(events.EventCoursesChanged, id)
	return nil
}

// MoveToFirst makes id the first course
func (s *service) MoveToFirst(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.engine.MoveAfter(ctx, id, nil); err != nil {
		return err
	}
	s.publishCourseEvent(events.EventCoursesChanged, id)
	return nil
}

// UpdateCourse changes the course payload. Order is not affected.
func (s *service) UpdateCourse(ctx context.Context, id string, update models.CourseUpdate) (*models.Course, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := validateUpdate(&update); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateFields(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.publishCourseEvent(events.EventCoursesChanged, id)
	return updated, nil
}

// DeleteCourse removes a course. Deleting a missing course succeeds.
func (s *service) DeleteCourse(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.engine.Delete(ctx, id); err != nil {
		return err
	}
	s.publishCourseEvent(events.EventCoursesChanged, id)
	return nil
}

// RebuildFromLegacyIndex relinks the chain from order_index
func (s *service) RebuildFromLegacyIndex(ctx context.Context) error {
	if err := s.engine.RebuildFromLegacyIndex(ctx); err != nil {
		return err
	}
	s.publishCourseEvent(events.EventChainRebuilt, "")
	return nil
}

// Repair relinks every course, keeping the reachable order
func (s *service) Repair(ctx context.Context) (*chain.RepairReport, error) {
	report, err := s.engine.Repair(ctx)
	if err != nil {
		return report, err
	}
	s.publishCourseEvent(events.EventChainRebuilt, "")
	return report, nil
}

// SyncLegacyIndex writes the current display order into order_index
func (s *service) SyncLegacyIndex(ctx context.Context) error {
	return s.engine.SyncLegacyIndex(ctx)
}

// CheckIntegrity inspects the chain without changing it
func (s *service) CheckIntegrity(ctx context.Context) (*chain.IntegrityReport, error) {
	return s.engine.Check(ctx)
}

// Metrics returns a snapshot of the ordering engine counters
func (s *service) Metrics() chain.MetricsSnapshot {
	return s.engine.Metrics().Snapshot()
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidCourseID
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > models.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateInstructor(instructor string) error {
	if len(strings.TrimSpace(instructor)) > models.MaxInstructorLength {
		return ErrInstructorTooLong
	}
	return nil
}

func validateInsert(req InsertCourseRequest) error {
	if err := validateTitle(req.Title); err != nil {
		return err
	}
	if err := validateInstructor(req.Instructor); err != nil {
		return err
	}
	if req.OrderIndex != nil && *req.OrderIndex < 0 {
		return ErrInvalidOrderIndex
	}
	if req.AfterID != "" && strings.TrimSpace(req.AfterID) == "" {
		return ErrInvalidCourseID
	}
	return nil
}

// validateUpdate checks the update and trims its string fields in place
func validateUpdate(update *models.CourseUpdate) error {
	if update.IsEmpty() {
		return ErrEmptyUpdate
	}
	if update.Title != nil {
		if err := validateTitle(*update.Title); err != nil {
			return err
		}
		title := strings.TrimSpace(*update.Title)
		update.Title = &title
	}
	if update.Instructor != nil {
		if err := validateInstructor(*update.Instructor); err != nil {
			return err
		}
		instructor := strings.TrimSpace(*update.Instructor)
		update.Instructor = &instructor
	}
	if update.OrderIndex != nil && *update.OrderIndex < 0 {
		return ErrInvalidOrderIndex
	}
	return nil
}

// publishCourseEvent publishes a course event. Failures are logged only.
func (s *service) publishCourseEvent(eventType events.EventType, courseID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.SendEvent(events.Event{
		Type:       eventType,
		Collection: s.collection,
		CourseID:   courseID,
	}); err != nil {
		slog.Debug("course event not delivered",
			"event_type", eventType,
			"course_id", courseID,
			"error", err)
	}
}
