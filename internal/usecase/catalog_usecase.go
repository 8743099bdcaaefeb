package usecase

import (
	"context"
	"fmt"
	"strings"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
)

// CatalogUsecase serves product lookups from the catalog owner through the cache.
type CatalogUsecase struct {
	repo  domain.CatalogRepository
	cache cache.CacheService
	cfg   *config.Config
}

func NewCatalogUsecase(repo domain.CatalogRepository, cache cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
	}
}

const categoriesKey = "category:list"

func productKey(id string) string {
	return fmt.Sprintf("product:id:%s", id)
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}

	key := productKey(id)
	if val, found := u.cache.Get(key); found {
		if p, ok := val.(*domain.Product); ok {
			return p, nil
		}
	}

	product, err := u.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	u.cache.Set(key, product, u.cfg.CacheProductTTL)
	return product, nil
}

// ListProducts is not cached.
func (u *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	products, total, err := u.repo.ListProducts(ctx, filter.Normalized())
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, total, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if val, found := u.cache.Get(categoriesKey); found {
		if cats, ok := val.([]domain.Category); ok {
			return cats, nil
		}
	}

	cats, err := u.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []domain.Category{}
	}

	u.cache.Set(categoriesKey, cats, u.cfg.CacheCategoryTTL)
	return cats, nil
}

// InvalidateProduct drops a cached product, e.g. after its stock changed.
func (u *CatalogUsecase) InvalidateProduct(id string) {
	u.cache.Delete(productKey(id))
}
