package domain

import (
	"time"

	"github.com/google/uuid"
)

type CourseStatus string

const (
	CourseActive   CourseStatus = "active"
	CourseArchived CourseStatus = "archived"
)

// Course representa un curso del catálogo. Es la entidad privada del
// contexto: nunca viaja por el wire, para eso están los contratos de
// shared/events.
type Course struct {
	ID        uuid.UUID    `json:"id"`
	Title     string       `json:"title"`
	Category  string       `json:"category"`
	Status    CourseStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewCourse(title, category string) *Course {
	now := time.Now().UTC()
	return &Course{
		ID:        uuid.New(),
		Title:     title,
		Category:  category,
		Status:    CourseActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Course) Archive() {
	c.Status = CourseArchived
	c.UpdatedAt = time.Now().UTC()
}
