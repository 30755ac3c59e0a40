package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/campuslab/internal/enrollment/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
)

// CourseProjector son los casos de uso que este consumidor invoca al
// recibir eventos del catálogo.
type CourseProjector interface {
	ApplyCourseCreated(ctx context.Context, courseID uuid.UUID, title, category string) error
	ApplyCourseArchived(ctx context.Context, courseID uuid.UUID) error
}

// EnrollmentConsumer decodifica los eventos catalog.course.* que este
// contexto entiende. Solo registra las versiones que implementa: una
// versión desconocida se salta (outcome skipped) y el lote continúa, que
// es el estado normal durante una migración rolling del productor.
type EnrollmentConsumer struct {
	projector CourseProjector
	inbox     domain.Inbox
	audit     domain.EventAuditLog // puede ser nil
	decoders  *sharedEvents.DecoderSet
	log       *zap.Logger
}

func NewEnrollmentConsumer(projector CourseProjector, inbox domain.Inbox, audit domain.EventAuditLog, logger *zap.Logger) *EnrollmentConsumer {
	c := &EnrollmentConsumer{
		projector: projector,
		inbox:     inbox,
		audit:     audit,
		decoders:  sharedEvents.NewDecoderSet(),
		log:       logger,
	}

	// Decoders v1. La v2 de course.created se registrará aquí cuando este
	// contexto migre; mientras tanto llega y se salta sin romper nada.
	sharedEvents.Register(c.decoders, sharedEvents.CourseCreatedV1Type,
		func(ctx context.Context, evt sharedEvents.CourseCreatedV1) error {
			return c.projector.ApplyCourseCreated(ctx, evt.CourseID, evt.Title, "")
		})
	sharedEvents.Register(c.decoders, sharedEvents.CourseArchivedV1Type,
		func(ctx context.Context, evt sharedEvents.CourseArchivedV1) error {
			return c.projector.ApplyCourseArchived(ctx, evt.CourseID)
		})

	return c
}

// envelopePeek lee la identidad del envelope para deduplicar antes de
// decodificar el payload completo.
type envelopePeek struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Process maneja un payload y devuelve el outcome. Es el núcleo testeable;
// HandleMessage lo adapta a la interfaz del transporte.
func (c *EnrollmentConsumer) Process(ctx context.Context, payload []byte) (sharedEvents.Outcome, error) {
	var peek envelopePeek
	if err := json.Unmarshal(payload, &peek); err == nil && peek.EventID != uuid.Nil {
		seen, err := c.inbox.Seen(ctx, peek.EventID)
		if err != nil {
			c.log.Warn("Inbox no disponible, se procesa sin dedup", zap.Error(err))
		} else if seen {
			c.log.Info("Ocurrencia duplicada ignorada",
				zap.String("event_id", peek.EventID.String()),
				zap.String("event_type", peek.EventType),
			)
			c.logConsumed(peek, "duplicate")
			return sharedEvents.OutcomeSkipped, nil
		}
	}

	outcome, err := c.decoders.Dispatch(ctx, payload)

	switch outcome {
	case sharedEvents.OutcomeHandled:
		if markErr := c.inbox.MarkSeen(ctx, peek.EventID); markErr != nil {
			c.log.Warn("No se pudo marcar la ocurrencia en el inbox",
				zap.String("event_id", peek.EventID.String()),
				zap.Error(markErr),
			)
		}
		c.log.Info("Evento procesado",
			zap.String("event_id", peek.EventID.String()),
			zap.String("event_type", peek.EventType),
		)
	case sharedEvents.OutcomeSkipped:
		// No es un error: versión o tipo que este consumidor no implementa.
		c.log.Info("Evento saltado (versión no implementada)",
			zap.String("event_type", peek.EventType),
		)
	case sharedEvents.OutcomeMalformed:
		c.log.Warn("Payload malformado recibido", zap.Error(err))
	case sharedEvents.OutcomeFailed:
		c.log.Warn("Handler falló al procesar evento",
			zap.String("event_type", peek.EventType),
			zap.Error(err),
		)
	}

	c.logConsumed(peek, outcome.String())
	return outcome, err
}

// HandleMessage adapta Process a la interfaz del transporte: ningún
// payload, sea cual sea su outcome, interrumpe el consumo del resto.
func (c *EnrollmentConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	ctxMsg, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if _, err := c.Process(ctxMsg, payload); err != nil {
		c.log.Warn("Failed to process catalog event",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// logConsumed registra la fila de auditoría en background; un fallo de
// analítica no afecta al procesamiento.
func (c *EnrollmentConsumer) logConsumed(peek envelopePeek, outcome string) {
	if c.audit == nil {
		return
	}

	row := domain.ConsumedEvent{
		EventID:     peek.EventID,
		EventType:   peek.EventType,
		OccurredAt:  peek.OccurredAt,
		ProcessedAt: time.Now().UTC(),
		Outcome:     outcome,
	}

	go func() {
		ctxLog, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.audit.LogBatch(ctxLog, []domain.ConsumedEvent{row}); err != nil {
			c.log.Warn("No se pudo registrar el evento consumido", zap.Error(err))
		}
	}()
}

// BackgroundConsumerChan consume payloads del bus en memoria.
func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, consumer *EnrollmentConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				consumer.log.Info("EnrollmentConsumer stopped")
				return
			case msg := <-ch:
				// El bus entrega []byte, igual que el broker real.
				if payload, ok := msg.([]byte); ok {
					consumer.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
