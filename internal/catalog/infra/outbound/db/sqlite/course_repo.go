package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/davicafu/campuslab/internal/catalog/domain"
	outboxSQLite "github.com/davicafu/campuslab/internal/infra/db/sqlite"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
)

// InitSQLite crea las tablas del contexto catalog.
func InitSQLite(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS courses (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		category   TEXT NOT NULL,
		status     TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`); err != nil {
		return err
	}
	return outboxSQLite.InitOutbox(db)
}

type CourseRepoSQLite struct {
	db     *sql.DB
	outbox sharedDomain.OutboxEnqueuer
}

// NewCourseRepoSQLite recibe el enqueuer del backend de outbox configurado;
// es el mismo store que luego releva el worker.
func NewCourseRepoSQLite(db *sql.DB, outbox sharedDomain.OutboxEnqueuer) *CourseRepoSQLite {
	return &CourseRepoSQLite{db: db, outbox: outbox}
}

// Create inserta curso y eventos de integración en la misma transacción.
func (r *CourseRepoSQLite) Create(ctx context.Context, c *domain.Course, events ...sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO courses (id,title,category,status,created_at,updated_at) VALUES (?,?,?,?,?,?)`,
		c.ID.String(), c.Title, c.Category, string(c.Status), c.CreatedAt, c.UpdatedAt,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			err = domain.ErrCourseAlreadyExists
		}
		return err
	}

	if err = r.outbox.EnqueueTx(ctx, tx, events...); err != nil {
		return err
	}

	return tx.Commit()
}

// Update actualiza curso y encola eventos en la misma transacción.
func (r *CourseRepoSQLite) Update(ctx context.Context, c *domain.Course, events ...sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE courses SET title=?, category=?, status=?, updated_at=? WHERE id=?`,
		c.Title, c.Category, string(c.Status), c.UpdatedAt, c.ID.String(),
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		err = domain.ErrCourseNotFound
		return err
	}

	if err = r.outbox.EnqueueTx(ctx, tx, events...); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID obtiene un curso por id.
func (r *CourseRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id,title,category,status,created_at,updated_at FROM courses WHERE id=?`, id.String())

	var c domain.Course
	var idStr, status string
	if err := row.Scan(&idStr, &c.Title, &c.Category, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	parsed, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	c.ID = parsed
	c.Status = domain.CourseStatus(status)

	return &c, nil
}

// Verificación en tiempo de compilación.
var _ domain.CourseRepository = (*CourseRepoSQLite)(nil)
