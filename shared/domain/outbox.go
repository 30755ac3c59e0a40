package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedEvents "github.com/davicafu/campuslab/shared/events"
)

// OutboxEvent representa un evento de integración pendiente de publicar en
// el broker. El payload es el documento wire completo (formato plano), con
// el envelope ya incluido.
type OutboxEvent struct {
	ID            uuid.UUID   `json:"id"`
	AggregateType string      `json:"aggregate_type"` // ej. "course", "enrollment"
	AggregateID   string      `json:"aggregate_id"`
	EventType     string      `json:"event_type"` // ej. "catalog.course.created.v2"
	Payload       interface{} `json:"payload"`    // JSON serializable
	CreatedAt     time.Time   `json:"created_at"`
	Processed     bool        `json:"processed"` // si ya se publicó
}

// NewOutboxEvent envuelve un evento de integración para encolarlo. El
// discriminador sale del propio evento, nunca se escribe a mano aquí, y se
// valida antes de que la fila pueda llegar a la tabla.
func NewOutboxEvent(evt sharedEvents.IntegrationEvent, aggregateType, aggregateID string) (OutboxEvent, error) {
	if err := sharedEvents.ValidateEventType(evt.EventType()); err != nil {
		return OutboxEvent{}, fmt.Errorf("outbox: %w", err)
	}
	return OutboxEvent{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     evt.EventType(),
		Payload:       evt,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// PayloadJSON serializa el payload para persistirlo.
func (e OutboxEvent) PayloadJSON() ([]byte, error) {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal outbox payload %s: %w", e.ID, err)
	}
	return raw, nil
}

// OutboxEnqueuer encola filas de outbox desde los repos de entidad. La
// implementación de SQLite se une a la transacción abierta de la entidad;
// los backends externos (postgres, mongo) no pueden unirse a esa
// transacción y escriben justo antes del commit: si el commit luego falla
// puede quedar una fila huérfana, que el consumidor neutraliza con la
// dedup por EventID.
type OutboxEnqueuer interface {
	EnqueueTx(ctx context.Context, tx *sql.Tx, events ...OutboxEvent) error
}

// OutboxRepository define el contrato para acceder a la tabla outbox.
// Es una interfaz pequeña: solo lo que necesita el relayer.
type OutboxRepository interface {
	FetchPendingOutbox(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error

	// MarkOutboxDiscarded aparta una fila con discriminador malformado:
	// no debe transmitirse nunca, pero tampoco reintentarse para siempre.
	MarkOutboxDiscarded(ctx context.Context, id uuid.UUID, reason string) error
}
