package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/amarastelive/amaraste-agent/internal/domain"
)

// AssetStore is the in-memory asset cache backend. It is used in tests
// and as the session-only retention overlay when the durable store is
// unavailable. Records are copied in and out so no caller ever observes
// a half-written asset.
type AssetStore struct {
	mu     sync.RWMutex
	assets map[domain.AssetKey]*domain.Asset
}

func NewAssetStore() *AssetStore {
	return &AssetStore{
		assets: make(map[domain.AssetKey]*domain.Asset),
	}
}

func (s *AssetStore) Put(_ context.Context, asset *domain.Asset) error {
	if asset == nil || asset.Key == "" {
		return fmt.Errorf("memory: asset key is required")
	}
	if len(asset.Data) == 0 {
		return fmt.Errorf("memory: asset data must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.assets[asset.Key] = copyAsset(asset)
	return nil
}

func (s *AssetStore) Get(_ context.Context, key domain.AssetKey) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, ok := s.assets[key]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	return copyAsset(asset), nil
}

func (s *AssetStore) Delete(_ context.Context, key domain.AssetKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.assets, key)
	return nil
}

func copyAsset(a *domain.Asset) *domain.Asset {
	cp := *a
	cp.Data = make([]byte, len(a.Data))
	copy(cp.Data, a.Data)
	return &cp
}
