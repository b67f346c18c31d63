package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"catalogview-backend/config"
	"catalogview-backend/internal/domain"
	"catalogview-backend/pkg/cache"
	"catalogview-backend/pkg/logger"
)

const categoriesCacheKey = "catalog:categories"

// CatalogUsecase owns the DataStore: the complete, authoritative in-memory
// product collection for the current load. Derived views never alias its
// storage; they work on snapshots and are invalidated through the revision
// counter, which bumps on every successful load or edit.
type CatalogUsecase struct {
	source domain.CatalogSource
	cache  cache.CacheService
	cfg    *config.Config

	mu       sync.RWMutex
	products []domain.Product
	revision uint64

	loading atomic.Bool
}

func NewCatalogUsecase(source domain.CatalogSource, cache cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		source: source,
		cache:  cache,
		cfg:    cfg,
	}
}

// Load fetches the whole catalog and replaces the store wholesale. At most
// one load may be in flight; a concurrent attempt is rejected with
// ErrLoadInProgress and has no side effects. On failure the store keeps its
// previous contents (empty on a first load) and the error is recoverable by
// retrying.
func (uc *CatalogUsecase) Load(ctx context.Context) error {
	if !uc.loading.CompareAndSwap(false, true) {
		return domain.ErrLoadInProgress
	}
	defer uc.loading.Store(false)

	start := time.Now()
	products, err := uc.source.FetchProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Catalog load failed")
		return err
	}

	uc.mu.Lock()
	uc.products = products
	uc.revision++
	uc.mu.Unlock()

	uc.cache.Delete(categoriesCacheKey)

	logger.Info().
		Int("count", len(products)).
		Dur("duration_ms", time.Since(start)).
		Msg("Catalog loaded")
	return nil
}

// Snapshot returns a copy of the product slice together with the revision
// it was taken at.
func (uc *CatalogUsecase) Snapshot() ([]domain.Product, uint64) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := make([]domain.Product, len(uc.products))
	copy(out, uc.products)
	return out, uc.revision
}

// Revision reports the current store revision without copying.
func (uc *CatalogUsecase) Revision() uint64 {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.revision
}

func (uc *CatalogUsecase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.products)
}

// GetProduct returns a copy of the record with the given id.
func (uc *CatalogUsecase) GetProduct(id int) (*domain.Product, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	for i := range uc.products {
		if uc.products[i].ID == id {
			p := uc.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// Categories returns the distinct category names present in the store,
// first-seen order, deduplicated case-insensitively. Cached until the next
// load replaces the catalog.
func (uc *CatalogUsecase) Categories() []string {
	if val, found := uc.cache.Get(categoriesCacheKey); found {
		return val.([]string)
	}

	uc.mu.RLock()
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, p := range uc.products {
		name := p.CategoryName()
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}
	uc.mu.RUnlock()

	uc.cache.Set(categoriesCacheKey, names, uc.cfg.CacheCategoryTTL)
	return names
}

// SubmitEdit sends the patch to the data source and returns the canonical
// updated record. It does not touch the store; the caller commits the
// result (or discards it if the edit session is gone) via CommitEdit.
func (uc *CatalogUsecase) SubmitEdit(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	if _, err := uc.GetProduct(id); err != nil {
		return nil, err
	}

	canon, err := uc.source.UpdateProduct(ctx, id, patch)
	if err != nil {
		logger.Error().Err(err).Int("product_id", id).Msg("Edit submission failed")
		return nil, err
	}
	return canon, nil
}

// CommitEdit merges the canonical record over the stored entry with the
// same id and bumps the revision so derived views re-derive. It returns the
// merged record and the new revision.
func (uc *CatalogUsecase) CommitEdit(id int, canon domain.Product) (domain.Product, uint64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for i := range uc.products {
		if uc.products[i].ID == id {
			uc.products[i].MergeCanonical(canon)
			uc.revision++
			return uc.products[i], uc.revision, nil
		}
	}
	return domain.Product{}, uc.revision, domain.ErrProductNotFound
}
