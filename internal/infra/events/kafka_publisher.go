package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/campuslab/shared/events"
	sharedBus "github.com/davicafu/campuslab/shared/platform/bus"
)

type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(writer *kafka.Writer, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

// Publish serializa y envía un evento. Si el evento es un contrato de
// integración, el discriminador se revalida como última barrera: un
// EventType malformado no sale nunca por el wire.
func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	if ie, ok := event.(sharedEvents.IntegrationEvent); ok {
		if err := sharedEvents.ValidateEventType(ie.EventType()); err != nil {
			p.log.Error("Rechazado evento con discriminador malformado",
				zap.String("event_type", ie.EventType()),
				zap.Error(err),
			)
			return fmt.Errorf("refusing to publish: %w", err)
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var key []byte
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}

	msg := kafka.Message{
		Key:   key,
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka", zap.Error(err))
		return err
	}

	p.log.Debug("Event published successfully", zap.Any("event", event))
	return nil
}

// Verificación estática
var _ sharedBus.EventPublisher = (*KafkaPublisher)(nil)
