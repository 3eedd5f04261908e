package app

import (
	"context"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/clock"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type ProductRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	UpsertProduct(ctx context.Context, product domain.Product) (created bool, err error)
	ArchiveMissing(ctx context.Context, seenShopifyIDs []int64, now time.Time) (int, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	CountProducts(ctx context.Context, status domain.ProductStatus) (int, error)
}

// CatalogCache is the read side of the catalog snapshot the product-sync
// agent maintains. Implemented by cache.Store.
type CatalogCache interface {
	CatalogSnapshot(ctx context.Context) ([]domain.Product, bool)
}

type ProductService struct {
	repo    ProductRepository
	clock   clock.Clock
	catalog CatalogCache
}

func NewProductService(repo ProductRepository, clk clock.Clock, opts ...ProductServiceOption) *ProductService {
	svc := &ProductService{
		repo:  repo,
		clock: clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ProductServiceOption func(*ProductService)

// WithCatalogCache serves the default catalog page from the snapshot the
// product-sync agent keeps warm, falling back to Postgres on a miss.
func WithCatalogCache(c CatalogCache) ProductServiceOption {
	return func(s *ProductService) {
		s.catalog = c
	}
}

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

type ListProductsInput struct {
	Limit  int
	Offset int
}

func (s *ProductService) ListProducts(ctx context.Context, in ListProductsInput) ([]domain.Product, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	// Only the default first page is cacheable; explicit paging always
	// reads Postgres.
	if s.catalog != nil && in.Limit <= 0 && offset == 0 {
		if snapshot, ok := s.catalog.CatalogSnapshot(ctx); ok {
			if len(snapshot) > limit {
				snapshot = snapshot[:limit]
			}
			return snapshot, nil
		}
	}

	return s.repo.ListProducts(ctx, limit, offset)
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	return s.repo.GetProduct(ctx, id)
}

// SyncBatchResult reports what one upserted page of a catalog sync did.
type SyncBatchResult struct {
	Created int
	Updated int
}

// SyncBatch upserts one page of Shopify products inside a single transaction.
func (s *ProductService) SyncBatch(ctx context.Context, products []domain.Product) (SyncBatchResult, error) {
	now := s.clock.Now()
	var result SyncBatchResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		for _, p := range products {
			if p.ID == "" {
				p.ID = newID()
			}
			p.SyncedAt = now
			created, err := s.repo.UpsertProduct(txCtx, p)
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return SyncBatchResult{}, err
	}
	return result, nil
}

// FinishFullSync archives every product that a completed full sync did not
// see. Shopify is the source of truth; rows are archived, never deleted, so
// imported orders keep their referents.
func (s *ProductService) FinishFullSync(ctx context.Context, seenShopifyIDs []int64) (int, error) {
	// An empty sync must not archive the whole catalog.
	if len(seenShopifyIDs) == 0 {
		return 0, nil
	}
	return s.repo.ArchiveMissing(ctx, seenShopifyIDs, s.clock.Now())
}

// CatalogSummary reports active/archived counts for the health of the catalog.
type CatalogSummary struct {
	Active   int
	Archived int
}

func (s *ProductService) Summary(ctx context.Context) (CatalogSummary, error) {
	active, err := s.repo.CountProducts(ctx, domain.ProductStatusActive)
	if err != nil {
		return CatalogSummary{}, err
	}
	archived, err := s.repo.CountProducts(ctx, domain.ProductStatusArchived)
	if err != nil {
		return CatalogSummary{}, err
	}
	return CatalogSummary{Active: active, Archived: archived}, nil
}
