package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/campuslab/shared/domain"
)

// ---------- Errores de dominio ----------
var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in course")
	ErrCourseViewNotFound = errors.New("course not known to enrollment context")
	ErrCourseIsArchived   = errors.New("course is archived")
)

// ---------- Interfaces (Ports) ----------

// EnrollmentRepository persiste matrículas y encola sus eventos de
// integración en la MISMA transacción (patrón outbox).
type EnrollmentRepository interface {
	// Debe devolver ErrAlreadyEnrolled si ya hay matrícula activa.
	Create(ctx context.Context, e *Enrollment, events ...sharedDomain.OutboxEvent) error

	// Debe devolver ErrEnrollmentNotFound si no existe.
	Update(ctx context.Context, e *Enrollment, events ...sharedDomain.OutboxEvent) error

	GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error)
}

// CourseViewRepository mantiene la proyección local del catálogo.
type CourseViewRepository interface {
	Save(ctx context.Context, view *CourseView) error
	// Debe devolver ErrCourseViewNotFound si no se conoce el curso.
	GetByID(ctx context.Context, id uuid.UUID) (*CourseView, error)
}

// Inbox deduplica ocurrencias por EventID: la identidad de una ocurrencia
// es su EventID, no sus campos de payload.
type Inbox interface {
	Seen(ctx context.Context, eventID uuid.UUID) (bool, error)
	MarkSeen(ctx context.Context, eventID uuid.UUID) error
}
