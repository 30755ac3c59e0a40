package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/campuslab/shared/domain"
)

// ---------- Errores de dominio ----------
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseAlreadyExists = errors.New("course already exists")
	ErrInvalidCourse       = errors.New("invalid course")
)

// ---------- Interfaces (Ports) ----------

// CourseRepository persiste cursos y encola sus eventos de integración en
// la MISMA transacción (patrón outbox).
type CourseRepository interface {
	// Debe devolver ErrCourseAlreadyExists si la entidad ya existe.
	Create(ctx context.Context, c *Course, events ...sharedDomain.OutboxEvent) error

	// Debe devolver ErrCourseNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)

	// Debe devolver ErrCourseNotFound si el curso no existe.
	Update(ctx context.Context, c *Course, events ...sharedDomain.OutboxEvent) error
}
