package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-crm-sync/core"
)

const contactLookupCacheKeyPrefix = "go-crm-sync::contact_lookup::v1"

// CachedContactStore decorates a contact store with cached external-id
// lookups. Relationship sync resolves every external contact id on every
// deal event, so repeated resolutions of a stable contact set hit the cache
// instead of the store. Writes pass through and invalidate the affected
// keys; phone lookups are never cached because normalized_phone is not a
// unique key.
type CachedContactStore struct {
	base  core.ContactStore
	cache repositorycache.CacheService
}

func NewCachedContactStore(
	base core.ContactStore,
	cacheService repositorycache.CacheService,
) (*CachedContactStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base contact store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: contact cache service is required")
	}
	return &CachedContactStore{base: base, cache: cacheService}, nil
}

// ContactLookupCacheKey returns the deterministic cache key contract for
// external-id contact lookups:
// go-crm-sync::contact_lookup::v1::<external_id>
func ContactLookupCacheKey(externalID int64) string {
	return strings.Join([]string{
		contactLookupCacheKeyPrefix,
		url.PathEscape(strconv.FormatInt(externalID, 10)),
	}, "::")
}

type cachedContactHit struct {
	Contact core.Contact
	Found   bool
}

func (s *CachedContactStore) FindByExternalID(ctx context.Context, externalID int64) (core.Contact, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.Contact{}, false, fmt.Errorf("sqlstore: cached contact store is not configured")
	}
	if externalID == 0 {
		return core.Contact{}, false, nil
	}

	hit, err := repositorycache.GetOrFetch(ctx, s.cache, ContactLookupCacheKey(externalID),
		func(ctx context.Context) (cachedContactHit, error) {
			contact, found, fetchErr := s.base.FindByExternalID(ctx, externalID)
			if fetchErr != nil {
				return cachedContactHit{}, fetchErr
			}
			return cachedContactHit{Contact: contact, Found: found}, nil
		})
	if err != nil {
		return core.Contact{}, false, err
	}
	return hit.Contact, hit.Found, nil
}

func (s *CachedContactStore) FindByNormalizedPhone(ctx context.Context, normalizedPhone string) (core.Contact, bool, error) {
	if s == nil || s.base == nil {
		return core.Contact{}, false, fmt.Errorf("sqlstore: cached contact store is not configured")
	}
	return s.base.FindByNormalizedPhone(ctx, normalizedPhone)
}

func (s *CachedContactStore) Create(ctx context.Context, in core.CreateContactInput) (core.Contact, error) {
	if s == nil || s.base == nil {
		return core.Contact{}, fmt.Errorf("sqlstore: cached contact store is not configured")
	}
	created, err := s.base.Create(ctx, in)
	if err != nil {
		return core.Contact{}, err
	}
	if err := s.invalidate(ctx, created.ExternalID); err != nil {
		return core.Contact{}, err
	}
	return created, nil
}

func (s *CachedContactStore) Update(ctx context.Context, in core.UpdateContactInput) (core.Contact, error) {
	if s == nil || s.base == nil {
		return core.Contact{}, fmt.Errorf("sqlstore: cached contact store is not configured")
	}
	updated, err := s.base.Update(ctx, in)
	if err != nil {
		return core.Contact{}, err
	}
	if err := s.invalidate(ctx, updated.ExternalID); err != nil {
		return core.Contact{}, err
	}
	return updated, nil
}

func (s *CachedContactStore) List(ctx context.Context, limit int) ([]core.Contact, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached contact store is not configured")
	}
	return s.base.List(ctx, limit)
}

func (s *CachedContactStore) invalidate(ctx context.Context, externalID int64) error {
	if s.cache == nil || externalID == 0 {
		return nil
	}
	return s.cache.Delete(ctx, ContactLookupCacheKey(externalID))
}

var _ core.ContactStore = (*CachedContactStore)(nil)
