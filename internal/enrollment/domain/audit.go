package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConsumedEvent es la fila de auditoría de un evento recibido: qué
// ocurrencia llegó, con qué discriminador y en qué acabó (handled,
// skipped, duplicate, malformed, failed).
type ConsumedEvent struct {
	EventID     uuid.UUID
	EventType   string
	OccurredAt  time.Time
	ProcessedAt time.Time
	Outcome     string
}

// EventAuditLog registra lo consumido para analítica. Best-effort: un
// fallo aquí nunca afecta al procesamiento.
type EventAuditLog interface {
	LogBatch(ctx context.Context, rows []ConsumedEvent) error
}
