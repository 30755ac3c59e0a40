package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/davicafu/campuslab/internal/enrollment/domain"
)

// EventLogRepo inserta en ClickHouse el log de eventos consumidos.
type EventLogRepo struct {
	db *sql.DB
}

// Verificación estática
var _ domain.EventAuditLog = (*EventLogRepo)(nil)

// NewEventLogRepo es el constructor.
func NewEventLogRepo(addr string, dbName string) (*EventLogRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &EventLogRepo{db: conn}, nil
}

// LogBatch inserta un lote de filas. ClickHouse funciona mejor con
// inserciones en lotes.
func (r *EventLogRepo) LogBatch(ctx context.Context, rows []domain.ConsumedEvent) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO consumed_events_log (event_id, event_type, occurred_at, processed_at, outcome)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(
			ctx,
			row.EventID,
			row.EventType,
			row.OccurredAt,
			row.ProcessedAt,
			row.Outcome,
		); err != nil {
			// Si una fila falla, rollback de todo el lote.
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for event %s: %w", row.EventID, err)
		}
	}

	return tx.Commit()
}
