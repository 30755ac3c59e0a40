package events

import (
	"github.com/google/uuid"
)

// Contratos de integración del contexto enrollment.
const (
	AccessGrantedV1Type = "enrollment.access.granted.v1"
	AccessRevokedV1Type = "enrollment.access.revoked.v1"
)

// AccessGrantedV1 registra que un usuario obtuvo acceso a un curso.
type AccessGrantedV1 struct {
	Envelope
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
}

// AccessRevokedV1 registra la retirada de acceso. Reason es opcional:
// añadir un campo opcional no exige versión nueva.
type AccessRevokedV1 struct {
	Envelope
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
	Reason   string    `json:"reason,omitempty"`
}

func NewAccessGrantedV1(userID, courseID uuid.UUID) AccessGrantedV1 {
	return AccessGrantedV1{
		Envelope: MustEnvelope(AccessGrantedV1Type),
		UserID:   userID,
		CourseID: courseID,
	}
}

func NewAccessRevokedV1(userID, courseID uuid.UUID, reason string) AccessRevokedV1 {
	return AccessRevokedV1{
		Envelope: MustEnvelope(AccessRevokedV1Type),
		UserID:   userID,
		CourseID: courseID,
		Reason:   reason,
	}
}

// PartitionKey agrupa por usuario para mantener orden por alumno.
func (e AccessGrantedV1) PartitionKey() string { return e.UserID.String() }
func (e AccessRevokedV1) PartitionKey() string { return e.UserID.String() }
