package chain

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/syllabus/internal/models"
)

// RebuildFromLegacyIndex relinks every course in legacy index order and points
// the head at the first one. Running it twice without changing the legacy
// index yields the same pointers.
func (e *Engine) RebuildFromLegacyIndex(ctx context.Context) error {
	ordered, err := e.legacyOrder(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch courses: %w", err)
	}

	applied := 0
	for i, c := range ordered {
		var next *string
		if i+1 < len(ordered) {
			next = &ordered[i+1].ID
		}
		if ptrEqual(c.NextID, next) {
			continue
		}
		if err := e.records.SetNext(ctx, c.ID, next); err != nil {
			return e.partial("rebuild", applied, fmt.Errorf("failed to link course %s: %w", c.ID, err))
		}
		applied++
	}

	var head *string
	if len(ordered) > 0 {
		head = &ordered[0].ID
	}
	if err := e.meta.SetHead(ctx, head); err != nil {
		return e.partial("rebuild", applied, fmt.Errorf("failed to set chain head: %w", err))
	}

	e.logger.Info("course chain rebuilt from legacy index",
		"courses", len(ordered),
		"pointer_writes", applied,
		"head", ptrString(head))
	return nil
}

// legacyOrder returns every course in legacy index order, letting the store
// sort when it can.
func (e *Engine) legacyOrder(ctx context.Context) ([]*models.Course, error) {
	if fetcher, ok := e.records.(LegacyOrderFetcher); ok {
		return fetcher.FetchAllByLegacyIndex(ctx)
	}
	courses, err := e.records.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return SortByLegacyIndex(courses), nil
}

// RepairReport summarizes a repair pass
type RepairReport struct {
	Mode        Mode `json:"mode"`
	Reached     int  `json:"reached"`
	Appended    int  `json:"appended"`
	IndexWrites int  `json:"index_writes"`
}

// Repair re-derives the legacy index from the current chain, keeping the
// reachable prefix in place and appending unreachable courses in legacy order,
// then rebuilds the chain from it.
func (e *Engine) Repair(ctx context.Context) (*RepairReport, error) {
	courses, head, _, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	res := Traverse(courses, head, e.slack)
	report := &RepairReport{Mode: res.Mode, Reached: len(res.Courses)}

	order := res.Courses
	if !res.Complete() {
		missing := make(map[string]bool, len(res.Unreachable))
		for _, id := range res.Unreachable {
			missing[id] = true
		}
		var stray []*models.Course
		for _, c := range courses {
			if missing[c.ID] {
				stray = append(stray, c)
			}
		}
		order = append(order, SortByLegacyIndex(stray)...)
		report.Appended = len(stray)
	}

	writes, err := e.writeLegacyIndex(ctx, order)
	report.IndexWrites = writes
	if err != nil {
		return report, err
	}

	if err := e.RebuildFromLegacyIndex(ctx); err != nil {
		return report, err
	}

	e.logger.Info("course chain repaired",
		"mode", report.Mode,
		"reached", report.Reached,
		"appended", report.Appended)
	return report, nil
}

// SyncLegacyIndex writes each course's display position into its legacy index
// so a later rebuild reproduces the current order.
func (e *Engine) SyncLegacyIndex(ctx context.Context) error {
	res, err := e.Ordered(ctx)
	if err != nil {
		return err
	}
	if !res.Complete() || res.Corrupt() {
		return ErrChainIncomplete
	}
	_, err = e.writeLegacyIndex(ctx, res.Courses)
	return err
}

func (e *Engine) writeLegacyIndex(ctx context.Context, order []*models.Course) (int, error) {
	writes := 0
	for i, c := range order {
		want := i + 1
		if c.OrderIndex != nil && *c.OrderIndex == want {
			continue
		}
		if err := e.records.SetOrderIndex(ctx, c.ID, want); err != nil {
			return writes, fmt.Errorf("failed to write legacy index for course %s: %w", c.ID, err)
		}
		writes++
	}
	return writes, nil
}

// IntegrityReport describes the chain structure without changing it
type IntegrityReport struct {
	Initialized bool                `json:"initialized"`
	Mode        Mode                `json:"mode"`
	Head        *string             `json:"head"`
	Total       int                 `json:"total"`
	Reached     int                 `json:"reached"`
	CycleAt     string              `json:"cycle_at,omitempty"`
	Dangling    string              `json:"dangling,omitempty"`
	Unreachable []string            `json:"unreachable,omitempty"`
	SharedNext  map[string][]string `json:"shared_next,omitempty"` // target ID -> courses pointing at it
}

// Healthy reports whether every invariant of the chain holds
func (r *IntegrityReport) Healthy() bool {
	if r.Total == 0 {
		return r.Head == nil
	}
	return r.Initialized &&
		r.Mode == ModeChain &&
		r.Reached == r.Total &&
		r.CycleAt == "" &&
		r.Dangling == "" &&
		len(r.SharedNext) == 0
}

// Check inspects the chain and reports every structural problem found
func (e *Engine) Check(ctx context.Context) (*IntegrityReport, error) {
	courses, head, exists, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	res := Traverse(courses, head, e.slack)
	report := &IntegrityReport{
		Initialized: exists,
		Mode:        res.Mode,
		Head:        head,
		Total:       res.Total,
		Reached:     len(res.Courses),
		CycleAt:     res.CycleAt,
		Dangling:    res.Dangling,
		Unreachable: res.Unreachable,
	}
	for target, preds := range buildReverseIndex(courses) {
		if len(preds) > 1 {
			if report.SharedNext == nil {
				report.SharedNext = make(map[string][]string)
			}
			report.SharedNext[target] = preds
		}
	}
	return report, nil
}
