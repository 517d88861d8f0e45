package chain

import (
	"cmp"
	"slices"

	"github.com/thenoetrevino/syllabus/internal/models"
)

// Mode says which ordering source produced a traversal
type Mode string

const (
	ModeChain  Mode = "chain"
	ModeLegacy Mode = "legacy"
)

// Result is the outcome of a traversal. A short result is a degraded read, not
// an error: Courses holds every course reachable from the head, in order.
type Result struct {
	Courses     []*models.Course
	Total       int
	Mode        Mode
	CycleAt     string   // ID revisited during the walk
	Dangling    string   // ID referenced by a next pointer but absent from the table
	Overrun     bool     // walk stopped by the slack bound
	Unreachable []string // IDs never visited, in input order
}

// Complete reports whether every course was reached
func (r *Result) Complete() bool {
	return len(r.Courses) == r.Total
}

// Corrupt reports whether the walk was cut short by a cycle
func (r *Result) Corrupt() bool {
	return r.CycleAt != "" || r.Overrun
}

// Traverse walks the chain from head over an unordered course set and assigns
// 1-based display positions. A nil or unknown head with a non-empty set falls
// back to legacy index order. The input slice and its courses are not modified.
func Traverse(courses []*models.Course, head *string, slack int) *Result {
	res := &Result{Total: len(courses), Mode: ModeChain}
	if len(courses) == 0 {
		res.Courses = []*models.Course{}
		return res
	}

	byID := make(map[string]*models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	if head == nil || byID[*head] == nil {
		res.Mode = ModeLegacy
		ordered := SortByLegacyIndex(courses)
		res.Courses = make([]*models.Course, len(ordered))
		for i, c := range ordered {
			res.Courses[i] = withPosition(c, i+1)
		}
		return res
	}

	limit := len(courses) + slack
	visited := make(map[string]bool, len(courses))
	res.Courses = make([]*models.Course, 0, len(courses))

	for current := head; current != nil; {
		id := *current
		if visited[id] {
			res.CycleAt = id
			break
		}
		c, ok := byID[id]
		if !ok {
			res.Dangling = id
			break
		}
		if len(res.Courses) >= limit {
			res.Overrun = true
			break
		}
		visited[id] = true
		res.Courses = append(res.Courses, withPosition(c, len(res.Courses)+1))
		current = c.NextID
	}

	for _, c := range courses {
		if !visited[c.ID] {
			res.Unreachable = append(res.Unreachable, c.ID)
		}
	}
	return res
}

func withPosition(c *models.Course, pos int) *models.Course {
	cp := *c
	cp.DisplayOrder = pos
	return &cp
}

// SortByLegacyIndex returns a copy of courses ordered by the legacy index.
// Courses without an index sort last; ties break on creation time then ID so
// the order is deterministic.
func SortByLegacyIndex(courses []*models.Course) []*models.Course {
	sorted := slices.Clone(courses)
	slices.SortStableFunc(sorted, func(a, b *models.Course) int {
		switch {
		case a.OrderIndex == nil && b.OrderIndex != nil:
			return 1
		case a.OrderIndex != nil && b.OrderIndex == nil:
			return -1
		case a.OrderIndex != nil && b.OrderIndex != nil && *a.OrderIndex != *b.OrderIndex:
			return cmp.Compare(*a.OrderIndex, *b.OrderIndex)
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// reverseIndex maps a course ID to the IDs of the courses whose next pointer
// targets it. In a healthy chain every entry has exactly one element.
type reverseIndex map[string][]string

func buildReverseIndex(courses []*models.Course) reverseIndex {
	idx := make(reverseIndex, len(courses))
	for _, c := range courses {
		if c.NextID == nil || *c.NextID == c.ID {
			continue
		}
		idx[*c.NextID] = append(idx[*c.NextID], c.ID)
	}
	for _, preds := range idx {
		slices.Sort(preds)
	}
	return idx
}

// predecessor returns the first course pointing at id, or "" when none does
func (idx reverseIndex) predecessor(id string) string {
	if preds := idx[id]; len(preds) > 0 {
		return preds[0]
	}
	return ""
}
