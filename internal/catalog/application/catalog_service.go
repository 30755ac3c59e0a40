package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/campuslab/internal/catalog/domain"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
)

// CatalogService define los casos de uso del catálogo de cursos. Cada
// mutación deja su evento de integración en el outbox dentro de la misma
// transacción que la entidad.
type CatalogService struct {
	repo domain.CourseRepository
	log  *zap.Logger

	// dualPublish mantiene viva la v1 de course.created durante la ventana
	// de migración de los consumidores a v2.
	dualPublish bool
}

func NewCatalogService(repo domain.CourseRepository, dualPublish bool, log *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:        repo,
		dualPublish: dualPublish,
		log:         log,
	}
}

// CreateCourse da de alta un curso y encola course.created. La versión
// actual del contrato es v2; con dualPublish también sale la v1 para los
// consumidores aún no migrados.
func (s *CatalogService) CreateCourse(ctx context.Context, title, category string) (*domain.Course, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", domain.ErrInvalidCourse)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: empty category", domain.ErrInvalidCourse)
	}

	course := domain.NewCourse(title, category)

	outboxEvents := make([]sharedDomain.OutboxEvent, 0, 2)

	v2 := sharedEvents.NewCourseCreatedV2(course.ID, course.Title, course.Category)
	evt, err := sharedDomain.NewOutboxEvent(v2, string(sharedEvents.ResourceCourse), course.ID.String())
	if err != nil {
		return nil, err
	}
	outboxEvents = append(outboxEvents, evt)

	if s.dualPublish {
		v1 := sharedEvents.NewCourseCreatedV1(course.ID, course.Title)
		evt, err := sharedDomain.NewOutboxEvent(v1, string(sharedEvents.ResourceCourse), course.ID.String())
		if err != nil {
			return nil, err
		}
		outboxEvents = append(outboxEvents, evt)
		s.log.Debug("Dual-publish activo: course.created encolado en v1 y v2",
			zap.String("course_id", course.ID.String()))
	}

	if err := s.repo.Create(ctx, course, outboxEvents...); err != nil {
		return nil, err
	}

	return course, nil
}

// ArchiveCourse retira un curso del catálogo y encola course.archived.
func (s *CatalogService) ArchiveCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Status == domain.CourseArchived {
		// Ya archivado: idempotente, sin evento nuevo.
		return course, nil
	}

	course.Archive()

	archived := sharedEvents.NewCourseArchivedV1(course.ID)
	evt, err := sharedDomain.NewOutboxEvent(archived, string(sharedEvents.ResourceCourse), course.ID.String())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, course, evt); err != nil {
		return nil, err
	}

	return course, nil
}

// GetCourse obtiene un curso por id.
func (s *CatalogService) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	return s.repo.GetByID(ctx, id)
}
