package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/campuslab/shared/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
	sharedBus "github.com/davicafu/campuslab/shared/platform/bus"
	sharedUtils "github.com/davicafu/campuslab/shared/utils"
)

// Worker procesa eventos pendientes de la tabla outbox de forma genérica.
// La tabla es compartida por varios contextos; el registro dice a qué
// topic (y por tanto a qué publisher) va cada discriminador.
type Worker struct {
	repo          sharedDomain.OutboxRepository
	publishers    map[string]sharedBus.EventPublisher // por topic
	eventRegistry sharedEvents.Registry
	interval      time.Duration
	batchSize     int
	log           *zap.Logger
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publishers map[string]sharedBus.EventPublisher,
	registry sharedEvents.Registry,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Worker {
	return &Worker{
		repo:          repo,
		publishers:    publishers,
		eventRegistry: registry,
		interval:      interval,
		batchSize:     batchSize,
		log:           log,
	}
}

// Start inicia el bucle de polling del worker.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("🚀 Outbox worker iniciado", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Outbox worker detenido.")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

func (w *Worker) ProcessBatch(ctx context.Context) {
	events, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("⚠️ Error al obtener eventos pendientes", zap.Error(err))
		return
	}
	if len(events) > 0 {
		w.log.Info(fmt.Sprintf("📬 %d eventos encontrados para procesar", len(events)))
	}

	for _, evt := range events {
		w.publishAndMark(ctx, evt)
	}
}

func (w *Worker) publishAndMark(ctx context.Context, evt sharedDomain.OutboxEvent) {
	// 1. Última barrera de la convención de nombres: una fila con
	// discriminador malformado se aparta y no se transmite jamás.
	if err := sharedEvents.ValidateEventType(evt.EventType); err != nil {
		w.log.Error("Discriminador malformado en outbox, fila apartada",
			zap.String("event_id", evt.ID.String()),
			zap.String("event_type", evt.EventType),
			zap.Error(err),
		)
		if err := w.repo.MarkOutboxDiscarded(ctx, evt.ID, err.Error()); err != nil {
			w.log.Warn("⚠️ No se pudo apartar la fila malformada", zap.Error(err))
		}
		return
	}

	// 2. Usar el registro para decodificar el payload al tipo de contrato
	// correcto (recupera el PartitionKey del shape concreto).
	metadata, ok := w.eventRegistry[evt.EventType]
	if !ok {
		// Hueco de cableado, no de datos: se reintenta tras redeploy.
		w.log.Error("Tipo de evento desconocido en registro", zap.String("event_type", evt.EventType))
		return
	}

	publisher, ok := w.publishers[metadata.Topic]
	if !ok {
		w.log.Error("Sin publisher para el topic", zap.String("topic", metadata.Topic))
		return
	}

	eventPayload := reflect.New(metadata.Type).Interface()

	payloadBytes, err := json.Marshal(evt.Payload)
	if err != nil {
		w.log.Error("Error al serializar payload del evento", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}
	if err := json.Unmarshal(payloadBytes, eventPayload); err != nil {
		w.log.Error("Error al decodificar payload del evento", zap.String("event_id", evt.ID.String()), zap.Error(err))
		return
	}

	// 3. Publicar el evento fuertemente tipado, con reintentos cortos.
	publish := func() error { return publisher.Publish(ctx, eventPayload) }
	if err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, publish); err != nil {
		w.log.Warn("⚠️ No se pudo publicar evento",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
		return // No lo marcamos como procesado para que se reintente
	}

	// 4. Marcar como procesado en la DB
	if err := w.repo.MarkOutboxProcessed(ctx, evt.ID); err != nil {
		w.log.Warn("⚠️ No se pudo marcar evento como procesado",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
	} else {
		w.log.Info("✅ Evento publicado y marcado", zap.String("event_id", evt.ID.String()))
	}
}
