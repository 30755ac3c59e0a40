package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/davicafu/campuslab/internal/enrollment/domain"
	sharedCache "github.com/davicafu/campuslab/shared/platform/cache"
)

// CacheInbox implementa el inbox de deduplicación sobre una caché de
// clave-valor (Redis en producción, memoria en local). El dedup es
// best-effort con TTL: suficiente porque los handlers son idempotentes.
type CacheInbox struct {
	cache   sharedCache.Cache
	ttlSecs int
}

// Verificación estática
var _ domain.Inbox = (*CacheInbox)(nil)

func NewCacheInbox(cache sharedCache.Cache, ttlSecs int) *CacheInbox {
	return &CacheInbox{cache: cache, ttlSecs: ttlSecs}
}

func inboxKey(eventID uuid.UUID) string {
	return "inbox:" + eventID.String()
}

func (i *CacheInbox) Seen(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var marker bool
	return i.cache.Get(ctx, inboxKey(eventID), &marker)
}

func (i *CacheInbox) MarkSeen(ctx context.Context, eventID uuid.UUID) error {
	return i.cache.Set(ctx, inboxKey(eventID), true, i.ttlSecs)
}
