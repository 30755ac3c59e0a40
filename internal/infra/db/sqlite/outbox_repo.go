package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/campuslab/shared/domain"
)

// InitOutbox crea la tabla outbox si no existe.
func InitOutbox(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS outbox (
		id             TEXT PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		event_type     TEXT NOT NULL,
		payload        TEXT NOT NULL,
		created_at     TIMESTAMP NOT NULL,
		processed      INTEGER NOT NULL DEFAULT 0,
		discarded      INTEGER NOT NULL DEFAULT 0,
		discard_reason TEXT NOT NULL DEFAULT ''
	)`)
	return err
}

// OutboxRepoSQLite implementa la interfaz sharedDomain.OutboxRepository.
type OutboxRepoSQLite struct {
	db *sql.DB
}

func NewOutboxRepoSQLite(db *sql.DB) *OutboxRepoSQLite {
	return &OutboxRepoSQLite{db: db}
}

// InsertOutboxTx inserta una fila de outbox dentro de una transacción ya
// abierta; lo usan los repos de entidad para encolar en el mismo commit.
func InsertOutboxTx(ctx context.Context, tx *sql.Tx, evt sharedDomain.OutboxEvent) error {
	payloadBytes, err := evt.PayloadJSON()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox (id,aggregate_type,aggregate_id,event_type,payload,created_at,processed)
		 VALUES (?,?,?,?,?,?,0)`,
		evt.ID.String(), evt.AggregateType, evt.AggregateID, evt.EventType, string(payloadBytes), evt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	return nil
}

// EnqueueTx encola filas de outbox dentro de la transacción de la entidad:
// entidad y eventos llegan a la DB en el mismo commit o en ninguno.
func (r *OutboxRepoSQLite) EnqueueTx(ctx context.Context, tx *sql.Tx, events ...sharedDomain.OutboxEvent) error {
	for _, evt := range events {
		if err := InsertOutboxTx(ctx, tx, evt); err != nil {
			return err
		}
	}
	return nil
}

// FetchPendingOutbox obtiene los eventos no procesados de la tabla outbox para SQLite.
func (r *OutboxRepoSQLite) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
         FROM outbox
         WHERE processed = 0 AND discarded = 0
         ORDER BY created_at
         LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []sharedDomain.OutboxEvent
	for rows.Next() {
		var evt sharedDomain.OutboxEvent
		var payloadStr string // El payload se lee como string en SQLite

		if err := rows.Scan(&evt.ID, &evt.AggregateType, &evt.AggregateID, &evt.EventType, &payloadStr, &evt.CreatedAt); err != nil {
			return nil, err
		}

		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(payloadStr), &payload); err != nil {
			return nil, fmt.Errorf("invalid JSON payload in outbox row %s: %w", evt.ID, err)
		}
		evt.Payload = payload

		events = append(events, evt)
	}

	return events, rows.Err()
}

// MarkOutboxProcessed marca un evento como procesado para SQLite.
func (r *OutboxRepoSQLite) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE outbox SET processed = 1 WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get RowsAffected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}
	return nil
}

// MarkOutboxDiscarded aparta una fila malformada para que el relayer no la
// reintente ni la transmita.
func (r *OutboxRepoSQLite) MarkOutboxDiscarded(ctx context.Context, id uuid.UUID, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE outbox SET discarded = 1, discard_reason = ? WHERE id = ?`, reason, id.String())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get RowsAffected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}
	return nil
}

// Verificación en tiempo de compilación.
var (
	_ sharedDomain.OutboxRepository = (*OutboxRepoSQLite)(nil)
	_ sharedDomain.OutboxEnqueuer   = (*OutboxRepoSQLite)(nil)
)
