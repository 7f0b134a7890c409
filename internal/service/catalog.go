package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"homecare/internal/cache"
	"homecare/internal/model"
	"homecare/internal/repository"
)

const (
	servicesCacheKey   = "catalog:services"
	categoriesCacheKey = "catalog:categories"
)

// CatalogService serves the active service catalog.
type CatalogService interface {
	// ListServices returns active services with their category, popular first.
	ListServices(ctx context.Context) ([]model.Service, error)
	// ListCategories returns active categories by sort order.
	ListCategories(ctx context.Context) ([]model.ServiceCategory, error)
	// Prices maps each active service id to its base price. It bypasses the cache.
	Prices(ctx context.Context) (map[string]model.Money, error)
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewCatalogService constructs a CatalogService. Cache failures are logged and
// the repository is queried instead.
func NewCatalogService(repo repository.CatalogRepository, c cache.Cache, ttl time.Duration, log *zap.Logger) CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &catalogService{repo: repo, cache: c, ttl: ttl, log: log}
}

func (s *catalogService) ListServices(ctx context.Context) ([]model.Service, error) {
	var items []model.Service
	if s.cached(ctx, servicesCacheKey, &items) {
		return items, nil
	}
	items, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, servicesCacheKey, items)
	return items, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.ServiceCategory, error) {
	var items []model.ServiceCategory
	if s.cached(ctx, categoriesCacheKey, &items) {
		return items, nil
	}
	items, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, categoriesCacheKey, items)
	return items, nil
}

// Prices always reads the repository so that a service deactivated within the
// cache TTL can no longer be booked.
func (s *catalogService) Prices(ctx context.Context) (map[string]model.Money, error) {
	items, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]model.Money, len(items))
	for _, svc := range items {
		prices[svc.ID] = svc.BasePrice
	}
	return prices, nil
}

func (s *catalogService) cached(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn("catalog_cache_get_failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *catalogService) store(ctx context.Context, key string, v any) {
	if s.ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, v, s.ttl); err != nil {
		s.log.Warn("catalog_cache_set_failed", zap.String("key", key), zap.Error(err))
	}
}
