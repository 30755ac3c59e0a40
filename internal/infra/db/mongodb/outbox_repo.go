package mongodb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/campuslab/shared/domain"
)

// OutboxRepoMongoDB implementa la interfaz sharedDomain.OutboxRepository.
type OutboxRepoMongoDB struct {
	outboxColl *mongo.Collection
}

func NewOutboxRepoMongoDB(client *mongo.Client, dbName string) *OutboxRepoMongoDB {
	outboxColl := client.Database(dbName).Collection("outbox")
	return &OutboxRepoMongoDB{outboxColl: outboxColl}
}

// mongoOutboxEvent es un helper para mapear los documentos de la base de datos a un struct.
type mongoOutboxEvent struct {
	ID            uuid.UUID   `bson:"_id"`
	AggregateType string      `bson:"aggregateType"`
	AggregateID   string      `bson:"aggregateId"`
	EventType     string      `bson:"eventType"`
	Payload       interface{} `bson:"payload"`
	CreatedAt     time.Time   `bson:"createdAt"`
	Processed     bool        `bson:"processed"`
	Discarded     bool        `bson:"discarded"`
	DiscardReason string      `bson:"discardReason"`
}

func fromMongoOutboxEvent(mo *mongoOutboxEvent) sharedDomain.OutboxEvent {
	return sharedDomain.OutboxEvent{
		ID:            mo.ID,
		AggregateType: mo.AggregateType,
		AggregateID:   mo.AggregateID,
		EventType:     mo.EventType,
		Payload:       mo.Payload,
		CreatedAt:     mo.CreatedAt,
		Processed:     mo.Processed,
	}
}

// EnqueueTx encola documentos de outbox. Mongo no puede unirse a la
// transacción SQL de la entidad (se ignora): se inserta antes del commit y
// la dedup por EventID del consumidor cubre un commit que luego falle.
func (r *OutboxRepoMongoDB) EnqueueTx(ctx context.Context, _ *sql.Tx, events ...sharedDomain.OutboxEvent) error {
	for _, evt := range events {
		if err := r.enqueue(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

func (r *OutboxRepoMongoDB) enqueue(ctx context.Context, evt sharedDomain.OutboxEvent) error {
	doc := mongoOutboxEvent{
		ID:            evt.ID,
		AggregateType: evt.AggregateType,
		AggregateID:   evt.AggregateID,
		EventType:     evt.EventType,
		Payload:       evt.Payload,
		CreatedAt:     evt.CreatedAt,
		Processed:     false,
	}
	if _, err := r.outboxColl.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert outbox document: %w", err)
	}
	return nil
}

// FetchPendingOutbox obtiene los eventos no procesados de la colección outbox.
func (r *OutboxRepoMongoDB) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	filter := bson.M{"processed": false, "discarded": false}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(int64(limit))

	cursor, err := r.outboxColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []sharedDomain.OutboxEvent
	for cursor.Next(ctx) {
		var mo mongoOutboxEvent
		if err := cursor.Decode(&mo); err != nil {
			return nil, err
		}
		events = append(events, fromMongoOutboxEvent(&mo))
	}

	return events, cursor.Err()
}

// MarkOutboxProcessed marca un evento como procesado.
func (r *OutboxRepoMongoDB) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"processed": true}}

	res, err := r.outboxColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}

	return nil
}

// MarkOutboxDiscarded aparta un documento malformado sin transmitirlo.
func (r *OutboxRepoMongoDB) MarkOutboxDiscarded(ctx context.Context, id uuid.UUID, reason string) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"discarded": true, "discardReason": reason}}

	res, err := r.outboxColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}

	return nil
}

// Verificación en tiempo de compilación.
var (
	_ sharedDomain.OutboxRepository = (*OutboxRepoMongoDB)(nil)
	_ sharedDomain.OutboxEnqueuer   = (*OutboxRepoMongoDB)(nil)
)
