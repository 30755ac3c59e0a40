package events

import (
	"github.com/google/uuid"
)

// Contratos de integración del contexto catalog. Son shapes planos para
// intercambio entre servicios, NO entidades del dominio; los define y
// posee el servicio productor.
const (
	CourseCreatedV1Type  = "catalog.course.created.v1"
	CourseCreatedV2Type  = "catalog.course.created.v2"
	CourseArchivedV1Type = "catalog.course.archived.v1"
)

// CourseCreatedV1 es el esquema original de alta de curso.
type CourseCreatedV1 struct {
	Envelope
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
}

// CourseCreatedV2 añade Category como campo obligatorio. Al pasar de
// opcional a obligatorio el cambio rompe a los consumidores de v1, por
// eso vive bajo un discriminador nuevo; ambas versiones conviven durante
// la ventana de migración.
type CourseCreatedV2 struct {
	Envelope
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
}

// CourseArchivedV1 marca un curso como retirado del catálogo.
type CourseArchivedV1 struct {
	Envelope
	CourseID uuid.UUID `json:"course_id"`
}

func NewCourseCreatedV1(courseID uuid.UUID, title string) CourseCreatedV1 {
	return CourseCreatedV1{
		Envelope: MustEnvelope(CourseCreatedV1Type),
		CourseID: courseID,
		Title:    title,
	}
}

func NewCourseCreatedV2(courseID uuid.UUID, title, category string) CourseCreatedV2 {
	return CourseCreatedV2{
		Envelope: MustEnvelope(CourseCreatedV2Type),
		CourseID: courseID,
		Title:    title,
		Category: category,
	}
}

func NewCourseArchivedV1(courseID uuid.UUID) CourseArchivedV1 {
	return CourseArchivedV1{
		Envelope: MustEnvelope(CourseArchivedV1Type),
		CourseID: courseID,
	}
}

// PartitionKey agrupa todos los eventos de un curso en la misma partición.
func (e CourseCreatedV1) PartitionKey() string  { return e.CourseID.String() }
func (e CourseCreatedV2) PartitionKey() string  { return e.CourseID.String() }
func (e CourseArchivedV1) PartitionKey() string { return e.CourseID.String() }
