package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/syllabus/internal/models"
)

// Engine implements ordered reads and pointer mutations over a RecordStore and
// a MetadataStore. It is safe to share between goroutines but performs no
// coordination between concurrent mutations.
type Engine struct {
	records    RecordStore
	meta       MetadataStore
	logger     *slog.Logger
	slack      int
	syncLegacy bool
	metrics    *Metrics
}

// NewEngine creates an ordering engine over the given stores
func NewEngine(records RecordStore, meta MetadataStore, opts ...Option) *Engine {
	e := &Engine{
		records: records,
		meta:    meta,
		logger:  slog.Default(),
		slack:   DefaultTraversalSlack,
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Metrics returns the engine counters
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// load reads the full record set and the head pointer
func (e *Engine) load(ctx context.Context) ([]*models.Course, *string, bool, error) {
	courses, err := e.records.FetchAll(ctx)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to fetch courses: %w", err)
	}
	head, exists, err := e.meta.GetHead(ctx)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to read chain head: %w", err)
	}
	return courses, head, exists, nil
}

// Ordered returns every reachable course in chain order with display positions.
// Corruption is reported through the Result and the log, never as an error.
func (e *Engine) Ordered(ctx context.Context) (*Result, error) {
	courses, head, exists, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	res := Traverse(courses, head, e.slack)
	e.metrics.Traversals.Add(1)
	e.observe(res, exists)
	return res, nil
}

func (e *Engine) observe(res *Result, initialized bool) {
	if res.Mode == ModeLegacy && res.Total > 0 {
		e.metrics.LegacyFallbacks.Add(1)
		e.logger.Warn("course chain not usable, falling back to legacy index",
			"initialized", initialized,
			"courses", res.Total)
		return
	}
	if res.Corrupt() {
		e.metrics.CorruptionsDetected.Add(1)
		e.logger.Error("circular reference detected in course chain",
			"cycle_at", res.CycleAt,
			"overrun", res.Overrun,
			"reached", len(res.Courses))
	}
	if !res.Complete() {
		e.logger.Warn("course chain incomplete",
			"missing", res.Total-len(res.Courses),
			"dangling", res.Dangling)
	}
}

// InsertAfter creates a course immediately after anchorID.
// If linking the anchor fails the created course is deleted again.
func (e *Engine) InsertAfter(ctx context.Context, anchorID string, in models.CourseInput) (*models.Course, error) {
	if anchorID == "" {
		return nil, ErrEmptyID
	}

	anchor, err := e.records.FetchByID(ctx, anchorID)
	if err != nil {
		return nil, fmt.Errorf("anchor %s: %w", anchorID, err)
	}

	// A pointer written outside a usable chain would be dropped by the next
	// rebuild, so insert-after requires one.
	if _, err := e.usableHead(ctx); err != nil {
		return nil, err
	}

	created, err := e.records.Insert(ctx, in, anchor.NextID)
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if err := e.records.SetNext(ctx, anchorID, &created.ID); err != nil {
		return nil, e.compensate(ctx, "insert", created.ID, fmt.Errorf("failed to link course %s after %s: %w", created.ID, anchorID, err))
	}

	e.logger.Debug("inserted course", "course_id", created.ID, "anchor_id", anchorID, "next_id", ptrString(created.NextID))
	e.afterMutation(ctx)
	return created, nil
}

// InsertFirst creates a course at the head of the chain. It also serves as the
// first insert into an empty collection.
func (e *Engine) InsertFirst(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	head, err := e.usableHead(ctx)
	if err != nil {
		return nil, err
	}

	created, err := e.records.Insert(ctx, in, head)
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if err := e.updateHead(ctx, head, &created.ID); err != nil {
		return nil, e.compensate(ctx, "insert", created.ID, fmt.Errorf("failed to make course %s the head: %w", created.ID, err))
	}

	e.logger.Debug("inserted course at head", "course_id", created.ID, "next_id", ptrString(head))
	e.afterMutation(ctx)
	return created, nil
}

// compensate deletes a course whose linking write failed. A failed delete
// leaves an orphan that traversal will report.
func (e *Engine) compensate(ctx context.Context, op, id string, cause error) error {
	e.metrics.CompensatingDeletes.Add(1)
	if err := e.records.DeleteByID(ctx, id); err != nil {
		e.logger.Error("compensating delete failed, orphan course left behind",
			"course_id", id,
			"error", err)
		return e.partial(op, 1, cause)
	}
	return cause
}

// MoveAfter relocates id so it displays right after target, or first when
// target is nil. Moving a course after itself or after its current
// predecessor, and moving the head to the head, are no-ops.
func (e *Engine) MoveAfter(ctx context.Context, id string, target *string) error {
	if id == "" || (target != nil && *target == "") {
		return ErrEmptyID
	}
	if target != nil && *target == id {
		return nil
	}

	moving, err := e.records.FetchByID(ctx, id)
	if err != nil {
		return fmt.Errorf("course %s: %w", id, err)
	}

	var targetNext *string
	if target != nil {
		anchor, err := e.records.FetchByID(ctx, *target)
		if err != nil {
			return fmt.Errorf("target %s: %w", *target, err)
		}
		targetNext = anchor.NextID
	}

	head, err := e.usableHead(ctx)
	if err != nil {
		return err
	}

	pred, err := e.predecessorOf(ctx, id)
	if err != nil {
		return err
	}

	plan, ok := planMove(moveState{
		ID:         id,
		OldNext:    moving.NextID,
		Target:     target,
		TargetNext: targetNext,
		Head:       head,
		Pred:       pred,
	})
	if !ok {
		e.logger.Debug("move is a no-op", "course_id", id, "target_id", ptrString(target))
		return nil
	}

	applied := 0
	for _, w := range plan.Writes {
		if err := e.records.SetNext(ctx, w.ID, w.Next); err != nil {
			return e.partial("move", applied, fmt.Errorf("failed to update course %s: %w", w.ID, err))
		}
		applied++
	}

	if plan.HeadChanged {
		if err := e.updateHead(ctx, head, plan.Head); err != nil {
			return e.partial("move", applied, err)
		}
	}

	e.logger.Debug("moved course",
		"course_id", id,
		"target_id", ptrString(target),
		"writes", len(plan.Writes),
		"head", ptrString(plan.Head))
	e.afterMutation(ctx)
	return nil
}

// Delete removes id from the chain and the store. Deleting a missing course
// is a no-op.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	course, err := e.records.FetchByID(ctx, id)
	if errors.Is(err, models.ErrCourseNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("course %s: %w", id, err)
	}

	head, _, err := e.meta.GetHead(ctx)
	if err != nil {
		return fmt.Errorf("failed to read chain head: %w", err)
	}

	pred, err := e.predecessorOf(ctx, id)
	if err != nil {
		return err
	}

	applied := 0
	if pred != "" {
		if err := e.records.SetNext(ctx, pred, course.NextID); err != nil {
			return fmt.Errorf("failed to unlink course %s: %w", id, err)
		}
		applied++
	}
	if head != nil && *head == id {
		if err := e.updateHead(ctx, head, course.NextID); err != nil {
			return e.partial("delete", applied, err)
		}
		applied++
	}
	if applied == 0 {
		e.logger.Warn("deleting course that is not linked into the chain", "course_id", id)
	}

	if err := e.records.DeleteByID(ctx, id); err != nil {
		return e.partial("delete", applied, fmt.Errorf("failed to delete course %s: %w", id, err))
	}

	e.logger.Debug("deleted course", "course_id", id, "predecessor_id", pred)
	e.afterMutation(ctx)
	return nil
}

// usableHead returns the head pointer when mutations can build on it: either
// it names an existing course, or it is nil and the collection is empty.
// Otherwise traversal is in legacy mode and ErrNotInitialized is returned.
func (e *Engine) usableHead(ctx context.Context) (*string, error) {
	head, _, err := e.meta.GetHead(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain head: %w", err)
	}

	if head != nil {
		_, err := e.records.FetchByID(ctx, *head)
		if errors.Is(err, models.ErrCourseNotFound) {
			e.logger.Warn("chain head points at a missing course", "head", *head)
			return nil, ErrNotInitialized
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read head course %s: %w", *head, err)
		}
		return head, nil
	}

	existing, err := e.records.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrNotInitialized
	}
	return nil, nil
}

// predecessorOf returns the ID of the course pointing at id, or "".
func (e *Engine) predecessorOf(ctx context.Context, id string) (string, error) {
	if finder, ok := e.records.(PredecessorFinder); ok {
		pred, err := finder.FindPredecessor(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to find predecessor of %s: %w", id, err)
		}
		if pred == nil {
			return "", nil
		}
		return pred.ID, nil
	}

	courses, err := e.records.FetchAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch courses: %w", err)
	}
	return buildReverseIndex(courses).predecessor(id), nil
}

// updateHead writes the new head, conditionally when the store supports it
func (e *Engine) updateHead(ctx context.Context, expected, head *string) error {
	var err error
	if swapper, ok := e.meta.(HeadSwapper); ok {
		err = swapper.SwapHead(ctx, expected, head)
	} else {
		err = e.meta.SetHead(ctx, head)
	}
	if err != nil {
		if errors.Is(err, ErrHeadConflict) {
			e.metrics.HeadConflicts.Add(1)
		}
		return fmt.Errorf("failed to update chain head to %s: %w", ptrString(head), err)
	}
	return nil
}

// partial wraps err as a PartialWriteError when writes were already applied
func (e *Engine) partial(op string, applied int, err error) error {
	if applied == 0 {
		return err
	}
	e.metrics.PartialWrites.Add(1)
	e.logger.Error("mutation left the course chain partially updated",
		"op", op,
		"applied", applied,
		"error", err)
	return &PartialWriteError{Op: op, Applied: applied, Err: err}
}

func (e *Engine) afterMutation(ctx context.Context) {
	e.metrics.Mutations.Add(1)
	if !e.syncLegacy {
		return
	}
	if err := e.SyncLegacyIndex(ctx); err != nil {
		e.logger.Warn("failed to sync legacy index after mutation", "error", err)
	}
}
