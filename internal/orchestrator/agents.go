package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/app"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/cache"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/shopify"
)

const syncPageSize = 250

// ShopifyCatalog is the slice of the Shopify client the sync agents use.
type ShopifyCatalog interface {
	Configured() bool
	ListProducts(ctx context.Context, sinceID int64, limit int) ([]shopify.Product, error)
	ListOrders(ctx context.Context, sinceID int64, limit int) ([]shopify.Order, error)
}

// ProductSyncAgent mirrors the Shopify catalog into Postgres and refreshes
// the Redis snapshot.
type ProductSyncAgent struct {
	shop     ShopifyCatalog
	products *app.ProductService
	cache    *cache.Store
	interval time.Duration
}

func NewProductSyncAgent(shop ShopifyCatalog, products *app.ProductService, store *cache.Store, interval time.Duration) *ProductSyncAgent {
	return &ProductSyncAgent{
		shop:     shop,
		products: products,
		cache:    store,
		interval: interval,
	}
}

func (a *ProductSyncAgent) ID() string              { return "product-sync" }
func (a *ProductSyncAgent) Name() string            { return "Shopify product sync" }
func (a *ProductSyncAgent) Interval() time.Duration { return a.interval }

func (a *ProductSyncAgent) Run(ctx context.Context) (int, error) {
	if !a.shop.Configured() {
		return 0, domain.ErrShopifyUnconfigured
	}

	var (
		sinceID int64
		seen    []int64
		synced  []domain.Product
	)

	for {
		page, err := a.shop.ListProducts(ctx, sinceID, syncPageSize)
		if err != nil {
			return 0, fmt.Errorf("list products since %d: %w", sinceID, err)
		}
		if len(page) == 0 {
			break
		}

		batch := make([]domain.Product, 0, len(page))
		for _, p := range page {
			converted, err := convertProduct(p)
			if err != nil {
				return 0, fmt.Errorf("product %d: %w", p.ID, err)
			}
			batch = append(batch, converted)
			seen = append(seen, p.ID)
			if p.ID > sinceID {
				sinceID = p.ID
			}
		}

		if _, err := a.products.SyncBatch(ctx, batch); err != nil {
			return 0, fmt.Errorf("sync batch: %w", err)
		}
		synced = append(synced, batch...)

		if len(page) < syncPageSize {
			break
		}
	}

	archived, err := a.products.FinishFullSync(ctx, seen)
	if err != nil {
		return 0, fmt.Errorf("archive missing: %w", err)
	}

	if err := a.cache.StoreCatalogSnapshot(ctx, synced); err != nil {
		return 0, fmt.Errorf("refresh catalog cache: %w", err)
	}

	return len(seen) + archived, nil
}

func convertProduct(p shopify.Product) (domain.Product, error) {
	cents, err := p.PriceCents()
	if err != nil {
		return domain.Product{}, err
	}

	status := domain.ProductStatusDraft
	switch p.Status {
	case "active":
		status = domain.ProductStatusActive
	case "archived":
		status = domain.ProductStatusArchived
	}

	return domain.Product{
		ShopifyProductID:  p.ID,
		Title:             p.Title,
		Handle:            p.Handle,
		Vendor:            p.Vendor,
		PriceCents:        cents,
		InventoryQuantity: p.InventoryQuantity(),
		Status:            status,
	}, nil
}

// OrderSyncAgent imports new Shopify orders, advancing a cursor kept in
// Redis (or recomputed from Postgres after a cache loss).
type OrderSyncAgent struct {
	shop     ShopifyCatalog
	orders   *app.OrderService
	cache    *cache.Store
	interval time.Duration
}

func NewOrderSyncAgent(shop ShopifyCatalog, orders *app.OrderService, store *cache.Store, interval time.Duration) *OrderSyncAgent {
	return &OrderSyncAgent{
		shop:     shop,
		orders:   orders,
		cache:    store,
		interval: interval,
	}
}

func (a *OrderSyncAgent) ID() string              { return "order-sync" }
func (a *OrderSyncAgent) Name() string            { return "Shopify order sync" }
func (a *OrderSyncAgent) Interval() time.Duration { return a.interval }

func (a *OrderSyncAgent) Run(ctx context.Context) (int, error) {
	if !a.shop.Configured() {
		return 0, domain.ErrShopifyUnconfigured
	}

	cursor, ok := a.cache.OrderCursor(ctx)
	if !ok {
		var err error
		cursor, err = a.orders.HighestImportedOrderID(ctx)
		if err != nil {
			return 0, fmt.Errorf("recover cursor: %w", err)
		}
	}

	imported := 0
	for {
		page, err := a.shop.ListOrders(ctx, cursor, syncPageSize)
		if err != nil {
			return imported, fmt.Errorf("list orders since %d: %w", cursor, err)
		}
		if len(page) == 0 {
			break
		}

		for _, o := range page {
			order, err := convertOrder(o)
			if err != nil {
				return imported, fmt.Errorf("order %d: %w", o.ID, err)
			}
			res, err := a.orders.ImportOrder(ctx, order)
			if err != nil {
				return imported, fmt.Errorf("import order %d: %w", o.ID, err)
			}
			if res.Created {
				imported++
			}
			if o.ID > cursor {
				cursor = o.ID
			}
		}

		if err := a.cache.SetOrderCursor(ctx, cursor); err != nil {
			return imported, fmt.Errorf("advance cursor: %w", err)
		}

		if len(page) < syncPageSize {
			break
		}
	}

	return imported, nil
}

func convertOrder(o shopify.Order) (domain.Order, error) {
	cents, err := o.TotalCents()
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		ShopifyOrderID:    o.ID,
		OrderNumber:       fmt.Sprintf("#%d", o.OrderNumber),
		Email:             o.Email,
		TotalCents:        cents,
		Currency:          o.Currency,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		PlacedAt:          o.CreatedAt,
	}, nil
}

// CampaignTickAgent advances campaign lifecycles: scheduled campaigns whose
// start has passed go active, active ones past their end complete.
type CampaignTickAgent struct {
	campaigns *app.CampaignService
	interval  time.Duration
}

func NewCampaignTickAgent(campaigns *app.CampaignService, interval time.Duration) *CampaignTickAgent {
	return &CampaignTickAgent{
		campaigns: campaigns,
		interval:  interval,
	}
}

func (a *CampaignTickAgent) ID() string              { return "campaign-tick" }
func (a *CampaignTickAgent) Name() string            { return "Campaign scheduler" }
func (a *CampaignTickAgent) Interval() time.Duration { return a.interval }

func (a *CampaignTickAgent) Run(ctx context.Context) (int, error) {
	activated, err := a.campaigns.ActivateDue(ctx)
	if err != nil {
		return 0, fmt.Errorf("activate due campaigns: %w", err)
	}
	completed, err := a.campaigns.CompleteExpired(ctx)
	if err != nil {
		return activated, fmt.Errorf("complete expired campaigns: %w", err)
	}
	return activated + completed, nil
}
