package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/campuslab/internal/enrollment/domain"
	sharedDomain "github.com/davicafu/campuslab/shared/domain"
	sharedEvents "github.com/davicafu/campuslab/shared/events"
)

// EnrollmentService define los casos de uso de matriculación. Produce los
// eventos enrollment.access.* y mantiene la proyección local del catálogo
// con los eventos catalog.course.* que consume.
type EnrollmentService struct {
	repo  domain.EnrollmentRepository
	views domain.CourseViewRepository
	log   *zap.Logger
}

func NewEnrollmentService(repo domain.EnrollmentRepository, views domain.CourseViewRepository, log *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		repo:  repo,
		views: views,
		log:   log,
	}
}

// GrantAccess matricula a un usuario y encola enrollment.access.granted.v1.
func (s *EnrollmentService) GrantAccess(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	view, err := s.views.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if view.Archived {
		return nil, domain.ErrCourseIsArchived
	}

	if existing, err := s.repo.GetByUserAndCourse(ctx, userID, courseID); err == nil {
		if existing.Status == domain.EnrollmentActive {
			return nil, domain.ErrAlreadyEnrolled
		}
	} else if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return nil, err
	}

	enrollment := domain.NewEnrollment(userID, courseID)

	granted := sharedEvents.NewAccessGrantedV1(userID, courseID)
	evt, err := sharedDomain.NewOutboxEvent(granted, "enrollment", enrollment.ID.String())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, enrollment, evt); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// RevokeAccess retira la matrícula y encola enrollment.access.revoked.v1.
func (s *EnrollmentService) RevokeAccess(ctx context.Context, userID, courseID uuid.UUID, reason string) (*domain.Enrollment, error) {
	enrollment, err := s.repo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == domain.EnrollmentRevoked {
		// Idempotente: revocar dos veces no genera evento nuevo.
		return enrollment, nil
	}

	enrollment.Revoke()

	revoked := sharedEvents.NewAccessRevokedV1(userID, courseID, reason)
	evt, err := sharedDomain.NewOutboxEvent(revoked, "enrollment", enrollment.ID.String())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, enrollment, evt); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// ApplyCourseCreated actualiza la proyección local cuando el catálogo
// publica un alta de curso (cualquier versión ya decodificada).
func (s *EnrollmentService) ApplyCourseCreated(ctx context.Context, courseID uuid.UUID, title, category string) error {
	view := &domain.CourseView{
		ID:       courseID,
		Title:    title,
		Category: category,
	}
	if err := s.views.Save(ctx, view); err != nil {
		return err
	}
	s.log.Info("Proyección de curso actualizada",
		zap.String("course_id", courseID.String()),
		zap.String("title", title),
	)
	return nil
}

// ApplyCourseArchived marca el curso como retirado en la proyección.
func (s *EnrollmentService) ApplyCourseArchived(ctx context.Context, courseID uuid.UUID) error {
	view, err := s.views.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrCourseViewNotFound) {
			// Archivado de un curso que nunca vimos: lo registramos ya archivado.
			view = &domain.CourseView{ID: courseID}
		} else {
			return err
		}
	}
	view.Archived = true
	return s.views.Save(ctx, view)
}
