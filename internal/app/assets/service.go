package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amarastelive/amaraste-agent/internal/domain"
	"github.com/amarastelive/amaraste-agent/internal/observability"
)

// Service owns the asset cache: durable local storage of the site's PDF
// documents plus the get-or-fetch-and-store fallback for slots that have
// a remote source configured.
//
// When the durable store cannot be written the fetched bytes are kept in
// a session-only overlay store, so a broken local store degrades to
// in-memory caching instead of refetching on every request.
type Service struct {
	store   domain.AssetStore
	overlay domain.AssetStore
	fetcher domain.AssetFetcher

	// sources maps a slot key to the remote path used on cache miss.
	sources map[domain.AssetKey]string

	group singleflight.Group
	now   func() time.Time
}

func NewService(store, overlay domain.AssetStore, fetcher domain.AssetFetcher, sources map[domain.AssetKey]string) (*Service, error) {
	if store == nil {
		return nil, errors.New("assets: store must not be nil")
	}
	if overlay == nil {
		return nil, errors.New("assets: overlay store must not be nil")
	}
	if fetcher == nil {
		return nil, errors.New("assets: fetcher must not be nil")
	}

	return &Service{
		store:   store,
		overlay: overlay,
		fetcher: fetcher,
		sources: sources,
		now:     time.Now,
	}, nil
}

// Load returns the bytes for a slot, populating the cache from the
// remote source on miss. Concurrent loads of the same key share one
// fetch. A remote failure surfaces as ErrContentUnavailable and leaves
// the store untouched.
func (s *Service) Load(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	if key == "" {
		return nil, errors.New("assets: key must not be empty")
	}

	if data, ok := s.lookup(ctx, key); ok {
		return data, nil
	}

	v, err, _ := s.group.Do(string(key), func() (any, error) {
		// Re-check under the flight lock: a racing caller may have
		// populated the slot already.
		if data, ok := s.lookup(ctx, key); ok {
			return data, nil
		}
		return s.populate(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Upload stores admin-provided bytes under a slot, replacing whatever
// was there.
func (s *Service) Upload(ctx context.Context, key domain.AssetKey, filename string, data []byte) error {
	if key == "" {
		return errors.New("assets: key must not be empty")
	}
	if len(data) == 0 {
		return errors.New("assets: data must not be empty")
	}

	asset := &domain.Asset{
		Key:       key,
		Filename:  filename,
		Data:      data,
		CreatedAt: s.now(),
	}
	if err := s.store.Put(ctx, asset); err != nil {
		return fmt.Errorf("assets: upload %q: %w", key, err)
	}
	// A fresh upload supersedes any overlay copy from a degraded period.
	_ = s.overlay.Delete(ctx, key)
	return nil
}

// Remove deletes a slot from both stores. Idempotent.
func (s *Service) Remove(ctx context.Context, key domain.AssetKey) error {
	if key == "" {
		return errors.New("assets: key must not be empty")
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("assets: remove %q: %w", key, err)
	}
	_ = s.overlay.Delete(ctx, key)
	return nil
}

// lookup checks the durable store and then the overlay. A store error is
// logged and treated as a miss, per the degraded-store policy.
func (s *Service) lookup(ctx context.Context, key domain.AssetKey) ([]byte, bool) {
	log := observability.LoggerFromContext(ctx)

	asset, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		return asset.Data, true
	case errors.Is(err, domain.ErrAssetNotFound):
		// Plain miss.
	default:
		// Absence-due-to-error falls back the same way as a miss, but
		// the distinction is worth logging.
		log.Warn("asset store unavailable, treating as miss", "key", key, "error", err)
	}

	if asset, err := s.overlay.Get(ctx, key); err == nil {
		return asset.Data, true
	}
	return nil, false
}

func (s *Service) populate(ctx context.Context, key domain.AssetKey) ([]byte, error) {
	log := observability.LoggerFromContext(ctx)

	source, ok := s.sources[key]
	if !ok {
		return nil, fmt.Errorf("assets: %q: no remote source configured: %w", key, domain.ErrContentUnavailable)
	}

	data, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("assets: fetch %q from %s: %w: %v", key, source, domain.ErrContentUnavailable, err)
	}

	asset := &domain.Asset{
		Key:       key,
		Filename:  string(key) + ".pdf",
		Data:      data,
		CreatedAt: s.now(),
	}
	if err := s.store.Put(ctx, asset); err != nil {
		// Non-fatal: keep an in-memory copy for this session.
		log.Warn("failed to persist fetched asset, retaining in memory", "key", key, "error", err)
		if overlayErr := s.overlay.Put(ctx, asset); overlayErr != nil {
			log.Error("failed to retain asset in overlay", "key", key, "error", overlayErr)
		}
	}
	return data, nil
}
