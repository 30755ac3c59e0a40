package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/campuslab/internal/catalog/domain"
	outboxSQLite "github.com/davicafu/campuslab/internal/infra/db/sqlite"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // cada conexión :memory: sería una DB distinta
	require.NoError(t, InitSQLite(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newCreatedEvent(t *testing.T, course *domain.Course) sharedDomain.OutboxEvent {
	t.Helper()
	evt, err := sharedDomain.NewOutboxEvent(
		sharedEvents.NewCourseCreatedV2(course.ID, course.Title, course.Category),
		string(sharedEvents.ResourceCourse), course.ID.String(),
	)
	require.NoError(t, err)
	return evt
}

// Lo que encola el repo de entidad tiene que aparecer como pendiente en el
// MISMO store que luego releva el worker.
func TestCourseRepo_EnqueuesIntoRelayedStore(t *testing.T) {
	db := newTestDB(t)
	outbox := outboxSQLite.NewOutboxRepoSQLite(db)
	repo := NewCourseRepoSQLite(db, outbox)

	course := domain.NewCourse("Go desde cero", "programming")
	evt := newCreatedEvent(t, course)

	require.NoError(t, repo.Create(context.Background(), course, evt))

	pending, err := outbox.FetchPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, evt.ID, pending[0].ID)
	assert.Equal(t, sharedEvents.CourseCreatedV2Type, pending[0].EventType)
}

// failingEnqueuer simula un backend de outbox caído.
type failingEnqueuer struct{}

func (failingEnqueuer) EnqueueTx(ctx context.Context, tx *sql.Tx, events ...sharedDomain.OutboxEvent) error {
	return errors.New("outbox backend down")
}

func TestCourseRepo_RollsBackEntityWhenEnqueueFails(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepoSQLite(db, failingEnqueuer{})

	course := domain.NewCourse("Curso sin outbox", "infra")
	evt := newCreatedEvent(t, course)

	err := repo.Create(context.Background(), course, evt)
	require.Error(t, err)

	// Sin fila de outbox no hay curso: la transacción se revierte entera.
	_, err = repo.GetByID(context.Background(), course.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

// recordingEnqueuer captura lo encolado; representa un backend externo
// (postgres/mongo) detrás del mismo port.
type recordingEnqueuer struct {
	events []sharedDomain.OutboxEvent
}

func (r *recordingEnqueuer) EnqueueTx(ctx context.Context, tx *sql.Tx, events ...sharedDomain.OutboxEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func TestCourseRepo_RoutesEventsThroughConfiguredEnqueuer(t *testing.T) {
	db := newTestDB(t)
	enqueuer := &recordingEnqueuer{}
	repo := NewCourseRepoSQLite(db, enqueuer)

	course := domain.NewCourse("Curso externo", "infra")
	evt := newCreatedEvent(t, course)

	require.NoError(t, repo.Create(context.Background(), course, evt))

	// El evento viajó por el enqueuer inyectado, no por un insert fijo a
	// la tabla local.
	require.Len(t, enqueuer.events, 1)
	assert.Equal(t, evt.ID, enqueuer.events[0].ID)

	local := outboxSQLite.NewOutboxRepoSQLite(db)
	pending, err := local.FetchPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
