package relayer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	catalogDomain "github.com/davicafu/campuslab/internal/catalog/domain"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
	sharedBus "github.com/davicafu/campuslab/shared/platform/bus"

	"github.com/davicafu/campuslab/tests/mocks"
)

func TestOutboxWorker_ProcessBatch_Success(t *testing.T) {
	// ARRANGE
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	eventID := uuid.New()
	testEvent := sharedDomain.OutboxEvent{
		ID:        eventID,
		EventType: sharedEvents.CourseCreatedV2Type,
		Payload: map[string]interface{}{
			"event_id":   uuid.New().String(),
			"event_type": sharedEvents.CourseCreatedV2Type,
			"course_id":  uuid.New().String(),
			"title":      "Go desde cero",
			"category":   "programming",
		},
	}

	registry := catalogDomain.NewEventRegistry()
	publishers := map[string]sharedBus.EventPublisher{
		catalogDomain.CatalogTopic: publisher,
	}

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{testEvent}, nil).Once()
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("*events.CourseCreatedV2")).Return(nil).Once()
	repo.On("MarkOutboxProcessed", mock.Anything, eventID).Return(nil).Once()

	worker := NewOutboxWorker(repo, publishers, registry, 0, 10, zap.NewNop())

	// ACT
	worker.ProcessBatch(context.Background())

	// ASSERT
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOutboxWorker_ProcessBatch_PublisherFails(t *testing.T) {
	// ARRANGE
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	eventID := uuid.New()
	testEvent := sharedDomain.OutboxEvent{
		ID:        eventID,
		EventType: sharedEvents.CourseArchivedV1Type,
		Payload:   map[string]interface{}{},
	}

	registry := catalogDomain.NewEventRegistry()
	publishers := map[string]sharedBus.EventPublisher{
		catalogDomain.CatalogTopic: publisher,
	}

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{testEvent}, nil).Once()
	// El worker reintenta, así que Publish se llamará varias veces.
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("kafka is down"))

	worker := NewOutboxWorker(repo, publishers, registry, 0, 10, zap.NewNop())

	// ACT
	worker.ProcessBatch(context.Background())

	// ASSERT: la fila queda pendiente para el siguiente ciclo.
	repo.AssertCalled(t, "FetchPendingOutbox", mock.Anything, 10)
	publisher.AssertCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxDiscarded", mock.Anything, mock.Anything, mock.Anything)
}

func TestOutboxWorker_ProcessBatch_UnknownEventType(t *testing.T) {
	// ARRANGE: discriminador bien formado pero sin entrada en el registro
	// (hueco de cableado, no de datos). La fila se deja pendiente.
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	testEvent := sharedDomain.OutboxEvent{
		ID:        uuid.New(),
		EventType: "catalog.course.renamed.v1",
		Payload:   map[string]interface{}{},
	}

	registry := make(sharedEvents.Registry) // Registro vacío
	publishers := map[string]sharedBus.EventPublisher{
		catalogDomain.CatalogTopic: publisher,
	}

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{testEvent}, nil).Once()

	worker := NewOutboxWorker(repo, publishers, registry, 0, 10, zap.NewNop())

	// ACT
	worker.ProcessBatch(context.Background())

	// ASSERT
	repo.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxDiscarded", mock.Anything, mock.Anything, mock.Anything)
}

func TestOutboxWorker_ProcessBatch_MalformedEventType(t *testing.T) {
	// ARRANGE: una fila con discriminador que no cumple la convención
	// service.entity.action.vN se aparta y no se transmite jamás.
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	eventID := uuid.New()
	testEvent := sharedDomain.OutboxEvent{
		ID:        eventID,
		EventType: "course.created.v2", // faltan segmentos
		Payload:   map[string]interface{}{},
	}

	registry := catalogDomain.NewEventRegistry()
	publishers := map[string]sharedBus.EventPublisher{
		catalogDomain.CatalogTopic: publisher,
	}

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{testEvent}, nil).Once()
	repo.On("MarkOutboxDiscarded", mock.Anything, eventID, mock.AnythingOfType("string")).Return(nil).Once()

	worker := NewOutboxWorker(repo, publishers, registry, 0, 10, zap.NewNop())

	// ACT
	worker.ProcessBatch(context.Background())

	// ASSERT
	repo.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
}

// Verificación estática de que los mocks cumplen las interfaces.
var _ sharedDomain.OutboxRepository = (*mocks.MockOutboxRepository)(nil)
var _ sharedBus.EventPublisher = (*mocks.MockPublisher)(nil)
