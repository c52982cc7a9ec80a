package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"folio/internal/content/models"
	"folio/internal/sentinel"
)

// collection is the shared in-memory shape of every content store: a map
// guarded by a mutex, with deep copies crossing the boundary so callers
// can never mutate stored state.
type collection[T any] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*T
	id    func(*T) uuid.UUID
	clone func(*T) *T
	stamp func(item *T, now time.Time, createdAt time.Time)
	ctime func(*T) time.Time
	now   func() time.Time
}

// stamp sets UpdatedAt to now and CreatedAt to createdAt; ctime reads
// CreatedAt so updates keep the original creation time.
func newCollection[T any](id func(*T) uuid.UUID, clone func(*T) *T, stamp func(*T, time.Time, time.Time), ctime func(*T) time.Time) *collection[T] {
	return &collection[T]{
		items: make(map[uuid.UUID]*T),
		id:    id,
		clone: clone,
		stamp: stamp,
		ctime: ctime,
		now:   time.Now,
	}
}

func (c *collection[T]) list() []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*T, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, c.clone(item))
	}
	return out
}

func (c *collection[T]) get(id uuid.UUID) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.clone(item), nil
}

func (c *collection[T]) create(item *T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.stamp(item, now, now)
	c.items[c.id(item)] = c.clone(item)
}

func (c *collection[T]) update(item *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.items[c.id(item)]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.stamp(item, c.now(), c.ctime(existing))
	c.items[c.id(item)] = c.clone(item)
	return nil
}

func (c *collection[T]) delete(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(c.items, id)
	return nil
}

// NewMemoryStores builds the in-memory implementation of every collection.
// Used as the default when no DATABASE_URL is configured, and in tests.
func NewMemoryStores() *Stores {
	return &Stores{
		Projects:   newMemoryProjects(),
		Experience: newMemoryExperience(),
		Skills:     newMemorySkills(),
		Education:  newMemoryEducation(),
	}
}

type memoryProjects struct {
	c *collection[models.Project]
}

func newMemoryProjects() *memoryProjects {
	return &memoryProjects{c: newCollection(
		func(p *models.Project) uuid.UUID { return p.ID },
		cloneProject,
		func(p *models.Project, now, createdAt time.Time) {
			p.CreatedAt = createdAt
			p.UpdatedAt = now
		},
		func(p *models.Project) time.Time { return p.CreatedAt },
	)}
}

func cloneProject(p *models.Project) *models.Project {
	cp := *p
	cp.Tech = append([]string(nil), p.Tech...)
	return &cp
}

func (s *memoryProjects) List(_ context.Context) ([]*models.Project, error) {
	items := s.c.list()
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (s *memoryProjects) Get(_ context.Context, id uuid.UUID) (*models.Project, error) {
	return s.c.get(id)
}

func (s *memoryProjects) Create(_ context.Context, p *models.Project) error {
	s.c.create(p)
	return nil
}

func (s *memoryProjects) Update(_ context.Context, p *models.Project) error {
	return s.c.update(p)
}

func (s *memoryProjects) Delete(_ context.Context, id uuid.UUID) error {
	return s.c.delete(id)
}

type memoryExperience struct {
	c *collection[models.Experience]
}

func newMemoryExperience() *memoryExperience {
	return &memoryExperience{c: newCollection(
		func(e *models.Experience) uuid.UUID { return e.ID },
		func(e *models.Experience) *models.Experience {
			cp := *e
			cp.Achievements = append([]string(nil), e.Achievements...)
			return &cp
		},
		func(e *models.Experience, now, createdAt time.Time) {
			e.CreatedAt = createdAt
			e.UpdatedAt = now
		},
		func(e *models.Experience) time.Time { return e.CreatedAt },
	)}
}

func (s *memoryExperience) List(_ context.Context) ([]*models.Experience, error) {
	items := s.c.list()
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (s *memoryExperience) Get(_ context.Context, id uuid.UUID) (*models.Experience, error) {
	return s.c.get(id)
}

func (s *memoryExperience) Create(_ context.Context, e *models.Experience) error {
	s.c.create(e)
	return nil
}

func (s *memoryExperience) Update(_ context.Context, e *models.Experience) error {
	return s.c.update(e)
}

func (s *memoryExperience) Delete(_ context.Context, id uuid.UUID) error {
	return s.c.delete(id)
}

type memorySkills struct {
	c *collection[models.Skill]
}

func newMemorySkills() *memorySkills {
	return &memorySkills{c: newCollection(
		func(sk *models.Skill) uuid.UUID { return sk.ID },
		func(sk *models.Skill) *models.Skill { cp := *sk; return &cp },
		func(sk *models.Skill, now, createdAt time.Time) {
			sk.CreatedAt = createdAt
			sk.UpdatedAt = now
		},
		func(sk *models.Skill) time.Time { return sk.CreatedAt },
	)}
}

func (s *memorySkills) List(_ context.Context) ([]*models.Skill, error) {
	items := s.c.list()
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *memorySkills) Get(_ context.Context, id uuid.UUID) (*models.Skill, error) {
	return s.c.get(id)
}

func (s *memorySkills) Create(_ context.Context, sk *models.Skill) error {
	s.c.create(sk)
	return nil
}

func (s *memorySkills) Update(_ context.Context, sk *models.Skill) error {
	return s.c.update(sk)
}

func (s *memorySkills) Delete(_ context.Context, id uuid.UUID) error {
	return s.c.delete(id)
}

type memoryEducation struct {
	c *collection[models.Education]
}

func newMemoryEducation() *memoryEducation {
	return &memoryEducation{c: newCollection(
		func(e *models.Education) uuid.UUID { return e.ID },
		func(e *models.Education) *models.Education { cp := *e; return &cp },
		func(e *models.Education, now, createdAt time.Time) {
			e.CreatedAt = createdAt
			e.UpdatedAt = now
		},
		func(e *models.Education) time.Time { return e.CreatedAt },
	)}
}

func (s *memoryEducation) List(_ context.Context) ([]*models.Education, error) {
	items := s.c.list()
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (s *memoryEducation) Get(_ context.Context, id uuid.UUID) (*models.Education, error) {
	return s.c.get(id)
}

func (s *memoryEducation) Create(_ context.Context, e *models.Education) error {
	s.c.create(e)
	return nil
}

func (s *memoryEducation) Update(_ context.Context, e *models.Education) error {
	return s.c.update(e)
}

func (s *memoryEducation) Delete(_ context.Context, id uuid.UUID) error {
	return s.c.delete(id)
}
