package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	catalogDomain "github.com/davicafu/campuslab/internal/catalog/domain"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
)

// InMemoryCourseRepo simula CourseRepository con outbox incluido.
type InMemoryCourseRepo struct {
	Courses map[uuid.UUID]*catalogDomain.Course
	Outbox  []sharedDomain.OutboxEvent
	mu      sync.Mutex
}

func NewInMemoryCourseRepo() *InMemoryCourseRepo {
	return &InMemoryCourseRepo{
		Courses: make(map[uuid.UUID]*catalogDomain.Course),
		Outbox:  []sharedDomain.OutboxEvent{},
	}
}

func (r *InMemoryCourseRepo) Create(ctx context.Context, c *catalogDomain.Course, events ...sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Courses[c.ID]; ok {
		return catalogDomain.ErrCourseAlreadyExists
	}
	r.Courses[c.ID] = c
	r.Outbox = append(r.Outbox, events...)
	return nil
}

func (r *InMemoryCourseRepo) Update(ctx context.Context, c *catalogDomain.Course, events ...sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Courses[c.ID]; !ok {
		return catalogDomain.ErrCourseNotFound
	}
	r.Courses[c.ID] = c
	r.Outbox = append(r.Outbox, events...)
	return nil
}

func (r *InMemoryCourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalogDomain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Courses[id]
	if !ok {
		return nil, catalogDomain.ErrCourseNotFound
	}
	copied := *c
	return &copied, nil
}

// Verificación estática
var _ catalogDomain.CourseRepository = (*InMemoryCourseRepo)(nil)
