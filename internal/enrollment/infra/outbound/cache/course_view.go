package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/davicafu/campuslab/internal/enrollment/domain"
	sharedCache "github.com/davicafu/campuslab/shared/platform/cache"
)

// CourseViewCache guarda la proyección local del catálogo en una caché de
// clave-valor. Las vistas no expiran (ttl 0 usa el TTL por defecto del
// adapter, que en main se configura largo para este repo).
type CourseViewCache struct {
	cache   sharedCache.Cache
	ttlSecs int
}

// Verificación estática
var _ domain.CourseViewRepository = (*CourseViewCache)(nil)

func NewCourseViewCache(cache sharedCache.Cache, ttlSecs int) *CourseViewCache {
	return &CourseViewCache{cache: cache, ttlSecs: ttlSecs}
}

func viewKey(id uuid.UUID) string {
	return "course_view:" + id.String()
}

func (r *CourseViewCache) Save(ctx context.Context, view *domain.CourseView) error {
	return r.cache.Set(ctx, viewKey(view.ID), view, r.ttlSecs)
}

func (r *CourseViewCache) GetByID(ctx context.Context, id uuid.UUID) (*domain.CourseView, error) {
	var view domain.CourseView
	ok, err := r.cache.Get(ctx, viewKey(id), &view)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrCourseViewNotFound
	}
	return &view, nil
}
