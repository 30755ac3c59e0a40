package domain

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentRevoked EnrollmentStatus = "revoked"
)

// Enrollment representa el acceso de un usuario a un curso. Entidad
// privada del contexto; hacia fuera solo viajan los contratos
// enrollment.access.* de shared/events.
type Enrollment struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	CourseID  uuid.UUID        `json:"course_id"`
	Status    EnrollmentStatus `json:"status"`
	GrantedAt time.Time        `json:"granted_at"`
	RevokedAt *time.Time       `json:"revoked_at,omitempty"`
}

func NewEnrollment(userID, courseID uuid.UUID) *Enrollment {
	return &Enrollment{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		Status:    EnrollmentActive,
		GrantedAt: time.Now().UTC(),
	}
}

func (e *Enrollment) Revoke() {
	now := time.Now().UTC()
	e.Status = EnrollmentRevoked
	e.RevokedAt = &now
}

// CourseView es la proyección local del catálogo que mantiene este
// contexto a partir de los eventos catalog.course.* que consume.
type CourseView struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category,omitempty"` // vacío si llegó por el contrato v1
	Archived bool      `json:"archived"`
}
