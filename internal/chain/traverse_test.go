package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/syllabus/internal/models"
)

// chainOf builds courses linked in the given order, with legacy indexes in
// reverse so a legacy fallback is distinguishable from chain order.
func chainOf(ids ...string) []*models.Course {
	courses := make([]*models.Course, len(ids))
	for i, id := range ids {
		idx := len(ids) - i
		courses[i] = &models.Course{ID: id, OrderIndex: &idx}
		if i > 0 {
			courses[i-1].NextID = strPtr(id)
		}
	}
	return courses
}

func TestTraverse_ValidChain(t *testing.T) {
	courses := chainOf("a", "b", "c", "d")
	// Shuffle input order: traversal must not depend on it
	input := []*models.Course{courses[2], courses[0], courses[3], courses[1]}

	res := Traverse(input, strPtr("a"), DefaultTraversalSlack)

	assert.Equal(t, ModeChain, res.Mode)
	assert.Equal(t, []string{"a", "b", "c", "d"}, orderedIDs(res))
	for i, c := range res.Courses {
		assert.Equal(t, i+1, c.DisplayOrder, "display positions must be 1..N without gaps")
	}
	assert.True(t, res.Complete())
	assert.False(t, res.Corrupt())
	assert.Empty(t, res.Unreachable)
}

func TestTraverse_DoesNotMutateInput(t *testing.T) {
	courses := chainOf("a", "b")

	Traverse(courses, strPtr("a"), DefaultTraversalSlack)

	assert.Zero(t, courses[0].DisplayOrder)
	assert.Zero(t, courses[1].DisplayOrder)
}

func TestTraverse_Empty(t *testing.T) {
	res := Traverse(nil, nil, DefaultTraversalSlack)

	require.NotNil(t, res.Courses)
	assert.Empty(t, res.Courses)
	assert.True(t, res.Complete())
	assert.Equal(t, ModeChain, res.Mode)
}

func TestTraverse_CycleReturnsPrefix(t *testing.T) {
	courses := chainOf("a", "b", "c")
	courses[2].NextID = strPtr("b") // c -> b closes a loop

	res := Traverse(courses, strPtr("a"), DefaultTraversalSlack)

	assert.Equal(t, []string{"a", "b", "c"}, orderedIDs(res))
	assert.Equal(t, "b", res.CycleAt)
	assert.True(t, res.Corrupt())
}

func TestTraverse_SelfLoop(t *testing.T) {
	courses := chainOf("a", "b")
	courses[0].NextID = strPtr("a")

	res := Traverse(courses, strPtr("a"), DefaultTraversalSlack)

	assert.Equal(t, []string{"a"}, orderedIDs(res))
	assert.Equal(t, "a", res.CycleAt)
	assert.Equal(t, []string{"b"}, res.Unreachable)
	assert.False(t, res.Complete())
}

func TestTraverse_DanglingPointer(t *testing.T) {
	courses := chainOf("a", "b")
	courses[1].NextID = strPtr("ghost")
	orphan := &models.Course{ID: "c"}

	res := Traverse(append(courses, orphan), strPtr("a"), DefaultTraversalSlack)

	assert.Equal(t, []string{"a", "b"}, orderedIDs(res))
	assert.Equal(t, "ghost", res.Dangling)
	assert.False(t, res.Corrupt(), "a dangling pointer is incompleteness, not a cycle")
	assert.Equal(t, []string{"c"}, res.Unreachable)
	assert.False(t, res.Complete())
}

func TestTraverse_LegacyFallback(t *testing.T) {
	tests := []struct {
		name string
		head *string
	}{
		{"nil head", nil},
		{"unknown head", strPtr("ghost")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := chainOf("a", "b", "c") // legacy indexes: a=3, b=2, c=1

			res := Traverse(courses, tt.head, DefaultTraversalSlack)

			assert.Equal(t, ModeLegacy, res.Mode)
			assert.Equal(t, []string{"c", "b", "a"}, orderedIDs(res))
			assert.Equal(t, 1, res.Courses[0].DisplayOrder)
			assert.Equal(t, 3, res.Courses[2].DisplayOrder)
			assert.True(t, res.Complete())
		})
	}
}

func TestSortByLegacyIndex(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	one, two := 1, 2
	courses := []*models.Course{
		{ID: "no-index-late", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "two", OrderIndex: &two, CreatedAt: base},
		{ID: "no-index-early", CreatedAt: base.Add(time.Hour)},
		{ID: "one-b", OrderIndex: &one, CreatedAt: base},
		{ID: "one-a", OrderIndex: &one, CreatedAt: base},
	}

	sorted := SortByLegacyIndex(courses)

	ids := make([]string, len(sorted))
	for i, c := range sorted {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"one-a", "one-b", "two", "no-index-early", "no-index-late"}, ids)
	assert.Equal(t, "no-index-late", courses[0].ID, "input order must be preserved")
}

func TestReverseIndex(t *testing.T) {
	courses := chainOf("a", "b", "c")
	extra := &models.Course{ID: "x", NextID: strPtr("c")} // second predecessor of c
	self := &models.Course{ID: "s", NextID: strPtr("s")}

	idx := buildReverseIndex(append(courses, extra, self))

	assert.Equal(t, "a", idx.predecessor("b"))
	assert.Equal(t, "", idx.predecessor("a"))
	assert.Equal(t, []string{"b", "x"}, idx["c"])
	assert.Equal(t, "", idx.predecessor("s"), "self references are not predecessors")
}
