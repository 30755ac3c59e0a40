package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/campuslab/internal/catalog/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
	"github.com/davicafu/campuslab/tests/mocks"
)

func TestCreateCourse_EnqueuesCurrentVersion(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	svc := NewCatalogService(repo, false, zap.NewNop())

	course, err := svc.CreateCourse(context.Background(), "Go desde cero", "programming")
	require.NoError(t, err)
	require.NotNil(t, course)

	require.Len(t, repo.Outbox, 1)
	assert.Equal(t, sharedEvents.CourseCreatedV2Type, repo.Outbox[0].EventType)
	assert.Equal(t, course.ID.String(), repo.Outbox[0].AggregateID)
}

func TestCreateCourse_DualPublishEnqueuesBothVersions(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	svc := NewCatalogService(repo, true, zap.NewNop())

	course, err := svc.CreateCourse(context.Background(), "Kafka en producción", "infra")
	require.NoError(t, err)

	require.Len(t, repo.Outbox, 2)
	types := []string{repo.Outbox[0].EventType, repo.Outbox[1].EventType}
	assert.Contains(t, types, sharedEvents.CourseCreatedV2Type)
	assert.Contains(t, types, sharedEvents.CourseCreatedV1Type)

	// Ambas versiones describen la MISMA operación de negocio sobre el
	// mismo agregado, cada una con su propia ocurrencia.
	assert.Equal(t, course.ID.String(), repo.Outbox[0].AggregateID)
	assert.Equal(t, course.ID.String(), repo.Outbox[1].AggregateID)
	assert.NotEqual(t, repo.Outbox[0].ID, repo.Outbox[1].ID)
}

func TestCreateCourse_RejectsEmptyFields(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	svc := NewCatalogService(repo, false, zap.NewNop())

	_, err := svc.CreateCourse(context.Background(), "", "programming")
	assert.ErrorIs(t, err, domain.ErrInvalidCourse)

	_, err = svc.CreateCourse(context.Background(), "Go desde cero", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCourse)

	assert.Empty(t, repo.Outbox, "una creación inválida no debe encolar eventos")
}

func TestArchiveCourse_EnqueuesArchivedEvent(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	svc := NewCatalogService(repo, false, zap.NewNop())

	course, err := svc.CreateCourse(context.Background(), "Go desde cero", "programming")
	require.NoError(t, err)

	archived, err := svc.ArchiveCourse(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CourseArchived, archived.Status)

	require.Len(t, repo.Outbox, 2)
	assert.Equal(t, sharedEvents.CourseArchivedV1Type, repo.Outbox[1].EventType)
}

func TestArchiveCourse_IsIdempotent(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	svc := NewCatalogService(repo, false, zap.NewNop())

	course, err := svc.CreateCourse(context.Background(), "Go desde cero", "programming")
	require.NoError(t, err)

	_, err = svc.ArchiveCourse(context.Background(), course.ID)
	require.NoError(t, err)
	_, err = svc.ArchiveCourse(context.Background(), course.ID)
	require.NoError(t, err)

	// Segunda llamada: sin evento nuevo.
	assert.Len(t, repo.Outbox, 2)
}

func TestArchiveCourse_NotFound(t *testing.T) {
	repo := mocks.NewInMemoryCourseRepo()
	svc := NewCatalogService(repo, false, zap.NewNop())

	_, err := svc.ArchiveCourse(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}
