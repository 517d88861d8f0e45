package chain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/thenoetrevino/syllabus/internal/models"
)

var errInjected = errors.New("injected store failure")

// fakeStore is an in-memory RecordStore and MetadataStore with per-call
// failure injection. It deliberately does not implement PredecessorFinder or
// HeadSwapper so the engine's fallbacks are exercised; swapFakeStore adds them.
type fakeStore struct {
	mu      sync.Mutex
	courses map[string]*models.Course
	head    *string
	hasMeta bool
	seq     int
	clock   time.Time

	failSetNext  map[string]bool // fail SetNext for these IDs
	failSetHead  bool
	failInsert   bool
	failDelete   bool
	setNextCalls int

	orderedFetches int // calls to FetchAllByLegacyIndex
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses:     make(map[string]*models.Course),
		failSetNext: make(map[string]bool),
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// seed adds courses with the given legacy indexes and no chain pointers
func (s *fakeStore) seed(ids ...string) {
	for i, id := range ids {
		idx := i + 1
		s.put(&models.Course{ID: id, Title: "Course " + id, OrderIndex: &idx})
	}
}

func (s *fakeStore) put(c *models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	c.CreatedAt = s.clock
	s.courses[c.ID] = c
}

// link sets head and next pointers to the given order
func (s *fakeStore) link(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		var next *string
		if i+1 < len(ids) {
			next = strPtr(ids[i+1])
		}
		s.courses[id].NextID = next
	}
	s.hasMeta = true
	if len(ids) > 0 {
		s.head = strPtr(ids[0])
	} else {
		s.head = nil
	}
}

func (s *fakeStore) next(id string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courses[id].NextID
}

func (s *fakeStore) FetchAll(ctx context.Context) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		cp := *c
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *models.Course) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *fakeStore) FetchByID(ctx context.Context, id string) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, models.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) Insert(ctx context.Context, in models.CourseInput, next *string) (*models.Course, error) {
	if s.failInsert {
		return nil, errInjected
	}
	s.mu.Lock()
	id := in.ID
	if id == "" {
		s.seq++
		id = fmt.Sprintf("new-%d", s.seq)
	}
	s.mu.Unlock()

	c := &models.Course{ID: id, Title: in.Title, Instructor: in.Instructor, OrderIndex: in.OrderIndex, NextID: next}
	s.put(c)
	cp := *c
	return &cp, nil
}

func (s *fakeStore) SetNext(ctx context.Context, id string, next *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setNextCalls++
	if s.failSetNext[id] {
		return errInjected
	}
	c, ok := s.courses[id]
	if !ok {
		return models.ErrCourseNotFound
	}
	c.NextID = next
	return nil
}

func (s *fakeStore) SetOrderIndex(ctx context.Context, id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return models.ErrCourseNotFound
	}
	c.OrderIndex = &index
	return nil
}

func (s *fakeStore) DeleteByID(ctx context.Context, id string) error {
	if s.failDelete {
		return errInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.courses, id)
	return nil
}

func (s *fakeStore) GetHead(ctx context.Context) (*string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head, s.hasMeta, nil
}

func (s *fakeStore) SetHead(ctx context.Context, head *string) error {
	if s.failSetHead {
		return errInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.head = head
	s.hasMeta = true
	return nil
}

// swapFakeStore adds the optional conditional head update, predecessor lookup
// and store-side legacy ordering
type swapFakeStore struct {
	*fakeStore
}

func (s swapFakeStore) SwapHead(ctx context.Context, expected, head *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ptrEqual(s.head, expected) {
		return ErrHeadConflict
	}
	s.head = head
	s.hasMeta = true
	return nil
}

func (s swapFakeStore) FindPredecessor(ctx context.Context, id string) (*models.Course, error) {
	all, _ := s.FetchAll(ctx)
	if pred := buildReverseIndex(all).predecessor(id); pred != "" {
		return s.FetchByID(ctx, pred)
	}
	return nil, nil
}

func (s swapFakeStore) FetchAllByLegacyIndex(ctx context.Context) ([]*models.Course, error) {
	all, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.orderedFetches++
	s.mu.Unlock()
	return SortByLegacyIndex(all), nil
}

func orderedIDs(res *Result) []string {
	var ids []string
	for _, c := range res.Courses {
		ids = append(ids, c.ID)
	}
	return ids
}
