package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"homecare/internal/model"
	repoMocks "homecare/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	data   map[string][]byte
	getErr error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestCatalogService_ListServicesCaches(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockCatalogRepository)
	mc := newMemCache()
	svc := NewCatalogService(repo, mc, time.Minute, zap.NewNop())

	repo.On("ListServices", ctx).Return(catalogServices(), nil).Once()

	first, err := svc.ListServices(ctx)
	require.NoError(t, err)
	second, err := svc.ListServices(ctx)
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, model.CHF(249, 0), second[1].BasePrice)
	assert.Contains(t, mc.data, servicesCacheKey)
	repo.AssertNumberOfCalls(t, "ListServices", 1)
}

func TestCatalogService_CacheErrorFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockCatalogRepository)
	mc := newMemCache()
	mc.getErr = errors.New("redis down")
	svc := NewCatalogService(repo, mc, time.Minute, zap.NewNop())

	repo.On("ListCategories", ctx).Return([]model.ServiceCategory{{ID: "cat-1", Name: "Cleaning"}}, nil)

	items, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCatalogService_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockCatalogRepository)
	mc := newMemCache()
	svc := NewCatalogService(repo, mc, time.Minute, zap.NewNop())

	repo.On("ListCategories", ctx).Return(nil, errors.New("db down"))

	items, err := svc.ListCategories(ctx)
	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Empty(t, mc.data)
}

func TestCatalogService_Prices(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockCatalogRepository)
	svc := NewCatalogService(repo, nil, 0, zap.NewNop())

	repo.On("ListServices", ctx).Return(catalogServices(), nil)

	prices, err := svc.Prices(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Money{
		cleaningID: model.CHF(129, 0),
		movingID:   model.CHF(249, 0),
	}, prices)
}

func TestCatalogService_PricesBypassCache(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockCatalogRepository)
	mc := newMemCache()
	svc := NewCatalogService(repo, mc, time.Minute, zap.NewNop())

	repo.On("ListServices", ctx).Return(catalogServices(), nil).Once()
	_, err := svc.ListServices(ctx)
	require.NoError(t, err)

	// The moving service is deactivated while the cached list still has it.
	repo.On("ListServices", ctx).Return(catalogServices()[:1], nil).Once()

	prices, err := svc.Prices(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Money{cleaningID: model.CHF(129, 0)}, prices)

	cached, err := svc.ListServices(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
	repo.AssertExpectations(t)
}
