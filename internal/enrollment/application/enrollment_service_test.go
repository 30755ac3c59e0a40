package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/campuslab/internal/enrollment/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
	"github.com/davicafu/campuslab/tests/mocks"
)

func newTestService(t *testing.T) (*EnrollmentService, *mocks.InMemoryEnrollmentRepo, *mocks.InMemoryCourseViews) {
	t.Helper()
	repo := mocks.NewInMemoryEnrollmentRepo()
	views := mocks.NewInMemoryCourseViews()
	return NewEnrollmentService(repo, views, zap.NewNop()), repo, views
}

func seedCourse(t *testing.T, views *mocks.InMemoryCourseViews, archived bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := views.Save(context.Background(), &domain.CourseView{
		ID:       id,
		Title:    "Go desde cero",
		Category: "programming",
		Archived: archived,
	})
	require.NoError(t, err)
	return id
}

func TestGrantAccess_EnqueuesGrantedEvent(t *testing.T) {
	svc, repo, views := newTestService(t)
	courseID := seedCourse(t, views, false)
	userID := uuid.New()

	enrollment, err := svc.GrantAccess(context.Background(), userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentActive, enrollment.Status)

	require.Len(t, repo.Outbox, 1)
	assert.Equal(t, sharedEvents.AccessGrantedV1Type, repo.Outbox[0].EventType)
	assert.Equal(t, enrollment.ID.String(), repo.Outbox[0].AggregateID)
}

func TestGrantAccess_RejectsUnknownCourse(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.GrantAccess(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrCourseViewNotFound)
	assert.Empty(t, repo.Outbox)
}

func TestGrantAccess_RejectsArchivedCourse(t *testing.T) {
	svc, repo, views := newTestService(t)
	courseID := seedCourse(t, views, true)

	_, err := svc.GrantAccess(context.Background(), uuid.New(), courseID)
	assert.ErrorIs(t, err, domain.ErrCourseIsArchived)
	assert.Empty(t, repo.Outbox)
}

func TestGrantAccess_RejectsDoubleEnrollment(t *testing.T) {
	svc, repo, views := newTestService(t)
	courseID := seedCourse(t, views, false)
	userID := uuid.New()

	_, err := svc.GrantAccess(context.Background(), userID, courseID)
	require.NoError(t, err)

	_, err = svc.GrantAccess(context.Background(), userID, courseID)
	assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)
	assert.Len(t, repo.Outbox, 1)
}

func TestRevokeAccess_EnqueuesRevokedEvent(t *testing.T) {
	svc, repo, views := newTestService(t)
	courseID := seedCourse(t, views, false)
	userID := uuid.New()

	_, err := svc.GrantAccess(context.Background(), userID, courseID)
	require.NoError(t, err)

	revoked, err := svc.RevokeAccess(context.Background(), userID, courseID, "payment failed")
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentRevoked, revoked.Status)

	require.Len(t, repo.Outbox, 2)
	assert.Equal(t, sharedEvents.AccessRevokedV1Type, repo.Outbox[1].EventType)
}

func TestRevokeAccess_IsIdempotent(t *testing.T) {
	svc, repo, views := newTestService(t)
	courseID := seedCourse(t, views, false)
	userID := uuid.New()

	_, err := svc.GrantAccess(context.Background(), userID, courseID)
	require.NoError(t, err)

	_, err = svc.RevokeAccess(context.Background(), userID, courseID, "fraud")
	require.NoError(t, err)
	_, err = svc.RevokeAccess(context.Background(), userID, courseID, "fraud")
	require.NoError(t, err)

	// Segunda revocación: sin evento nuevo.
	assert.Len(t, repo.Outbox, 2)
}

func TestApplyCourseCreated_UpdatesProjection(t *testing.T) {
	svc, _, views := newTestService(t)
	courseID := uuid.New()

	err := svc.ApplyCourseCreated(context.Background(), courseID, "Redis a fondo", "infra")
	require.NoError(t, err)

	view, err := views.GetByID(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, "Redis a fondo", view.Title)
	assert.False(t, view.Archived)
}

func TestApplyCourseArchived_MarksProjection(t *testing.T) {
	svc, _, views := newTestService(t)
	courseID := seedCourse(t, views, false)

	err := svc.ApplyCourseArchived(context.Background(), courseID)
	require.NoError(t, err)

	view, err := views.GetByID(context.Background(), courseID)
	require.NoError(t, err)
	assert.True(t, view.Archived)
}

func TestApplyCourseArchived_UnseenCourse(t *testing.T) {
	svc, _, views := newTestService(t)
	courseID := uuid.New()

	// Archivado de un curso cuyo created nunca llegó: la proyección lo
	// registra directamente como archivado.
	err := svc.ApplyCourseArchived(context.Background(), courseID)
	require.NoError(t, err)

	view, err := views.GetByID(context.Background(), courseID)
	require.NoError(t, err)
	assert.True(t, view.Archived)
}
