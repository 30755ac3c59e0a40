package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	enrollDomain "github.com/davicafu/campuslab/internal/enrollment/domain"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
)

// InMemoryEnrollmentRepo simula EnrollmentRepository con outbox incluido.
type InMemoryEnrollmentRepo struct {
	Enrollments map[uuid.UUID]*enrollDomain.Enrollment
	Outbox      []sharedDomain.OutboxEvent
	mu          sync.Mutex
}

func NewInMemoryEnrollmentRepo() *InMemoryEnrollmentRepo {
	return &InMemoryEnrollmentRepo{
		Enrollments: make(map[uuid.UUID]*enrollDomain.Enrollment),
		Outbox:      []sharedDomain.OutboxEvent{},
	}
}

func (r *InMemoryEnrollmentRepo) Create(ctx context.Context, e *enrollDomain.Enrollment, events ...sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return enrollDomain.ErrAlreadyEnrolled
		}
	}
	r.Enrollments[e.ID] = e
	r.Outbox = append(r.Outbox, events...)
	return nil
}

func (r *InMemoryEnrollmentRepo) Update(ctx context.Context, e *enrollDomain.Enrollment, events ...sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Enrollments[e.ID]; !ok {
		return enrollDomain.ErrEnrollmentNotFound
	}
	r.Enrollments[e.ID] = e
	r.Outbox = append(r.Outbox, events...)
	return nil
}

func (r *InMemoryEnrollmentRepo) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*enrollDomain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, enrollDomain.ErrEnrollmentNotFound
}

// InMemoryCourseViews simula la proyección local del catálogo.
type InMemoryCourseViews struct {
	Views map[uuid.UUID]*enrollDomain.CourseView
	mu    sync.Mutex
}

func NewInMemoryCourseViews() *InMemoryCourseViews {
	return &InMemoryCourseViews{Views: make(map[uuid.UUID]*enrollDomain.CourseView)}
}

func (r *InMemoryCourseViews) Save(ctx context.Context, view *enrollDomain.CourseView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *view
	r.Views[view.ID] = &copied
	return nil
}

func (r *InMemoryCourseViews) GetByID(ctx context.Context, id uuid.UUID) (*enrollDomain.CourseView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	view, ok := r.Views[id]
	if !ok {
		return nil, enrollDomain.ErrCourseViewNotFound
	}
	copied := *view
	return &copied, nil
}

// FakeInbox es un inbox en memoria sin TTL para tests.
type FakeInbox struct {
	Marked map[uuid.UUID]bool
	mu     sync.Mutex
}

func NewFakeInbox() *FakeInbox {
	return &FakeInbox{Marked: make(map[uuid.UUID]bool)}
}

func (i *FakeInbox) Seen(ctx context.Context, eventID uuid.UUID) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.Marked[eventID], nil
}

func (i *FakeInbox) MarkSeen(ctx context.Context, eventID uuid.UUID) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Marked[eventID] = true
	return nil
}

// RecordingAudit acumula las filas de auditoría que recibiría ClickHouse.
type RecordingAudit struct {
	Rows []enrollDomain.ConsumedEvent
	mu   sync.Mutex
}

func (a *RecordingAudit) LogBatch(ctx context.Context, rows []enrollDomain.ConsumedEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Rows = append(a.Rows, rows...)
	return nil
}

func (a *RecordingAudit) Outcomes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Rows))
	for _, row := range a.Rows {
		out = append(out, row.Outcome)
	}
	return out
}

// Verificaciones estáticas
var (
	_ enrollDomain.EnrollmentRepository = (*InMemoryEnrollmentRepo)(nil)
	_ enrollDomain.CourseViewRepository = (*InMemoryCourseViews)(nil)
	_ enrollDomain.Inbox                = (*FakeInbox)(nil)
	_ enrollDomain.EventAuditLog        = (*RecordingAudit)(nil)
)
