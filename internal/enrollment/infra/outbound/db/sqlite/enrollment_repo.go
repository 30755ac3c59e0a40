package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/davicafu/campuslab/internal/enrollment/domain"
	outboxSQLite "github.com/davicafu/campuslab/internal/infra/db/sqlite"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
)

// InitSQLite crea las tablas del contexto enrollment.
func InitSQLite(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS enrollments (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		course_id  TEXT NOT NULL,
		status     TEXT NOT NULL,
		granted_at TIMESTAMP NOT NULL,
		revoked_at TIMESTAMP,
		UNIQUE(user_id, course_id)
	)`); err != nil {
		return err
	}
	return outboxSQLite.InitOutbox(db)
}

type EnrollmentRepoSQLite struct {
	db     *sql.DB
	outbox sharedDomain.OutboxEnqueuer
}

// NewEnrollmentRepoSQLite recibe el enqueuer del backend de outbox
// configurado; es el mismo store que luego releva el worker.
func NewEnrollmentRepoSQLite(db *sql.DB, outbox sharedDomain.OutboxEnqueuer) *EnrollmentRepoSQLite {
	return &EnrollmentRepoSQLite{db: db, outbox: outbox}
}

// Create inserta matrícula y eventos de integración en la misma transacción.
func (r *EnrollmentRepoSQLite) Create(ctx context.Context, e *domain.Enrollment, events ...sharedDomain.OutboxEvent) error {
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
		`INSERT INTO enrollments (id,user_id,course_id,status,granted_at,revoked_at) VALUES (?,?,?,?,?,?)`,
		e.ID.String(), e.UserID.String(), e.CourseID.String(), string(e.Status), e.GrantedAt, e.RevokedAt,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			err = domain.ErrAlreadyEnrolled
		}
		return err
	}

	if err = r.outbox.EnqueueTx(ctx, tx, events...); err != nil {
		return err
	}

	return tx.Commit()
}

// Update actualiza matrícula y encola eventos en la misma transacción.
func (r *EnrollmentRepoSQLite) Update(ctx context.Context, e *domain.Enrollment, events ...sharedDomain.OutboxEvent) error {
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
		`UPDATE enrollments SET status=?, revoked_at=? WHERE id=?`,
		string(e.Status), e.RevokedAt, e.ID.String(),
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		err = domain.ErrEnrollmentNotFound
		return err
	}

	if err = r.outbox.EnqueueTx(ctx, tx, events...); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByUserAndCourse busca la matrícula de un usuario en un curso.
func (r *EnrollmentRepoSQLite) GetByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id,user_id,course_id,status,granted_at,revoked_at
		 FROM enrollments WHERE user_id=? AND course_id=?`,
		userID.String(), courseID.String())

	var e domain.Enrollment
	var idStr, userStr, courseStr, status string
	var revokedAt sql.NullTime
	if err := row.Scan(&idStr, &userStr, &courseStr, &status, &e.GrantedAt, &revokedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, err
	}

	var err error
	if e.ID, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}
	if e.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, err
	}
	if e.CourseID, err = uuid.Parse(courseStr); err != nil {
		return nil, err
	}
	e.Status = domain.EnrollmentStatus(status)
	if revokedAt.Valid {
		t := revokedAt.Time.UTC()
		e.RevokedAt = &t
	}

	return &e, nil
}

// Verificación en tiempo de compilación.
var _ domain.EnrollmentRepository = (*EnrollmentRepoSQLite)(nil)
