package app

import (
	"context"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/clock"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindByShopifyOrderID(ctx context.Context, shopifyOrderID int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error)
	Summary(ctx context.Context) (domain.OrderSummary, error)
	MaxShopifyOrderID(ctx context.Context) (int64, error)
}

type OrderService struct {
	repo  OrderRepository
	clock clock.Clock
}

func NewOrderService(repo OrderRepository, clk clock.Clock) *OrderService {
	return &OrderService{
		repo:  repo,
		clock: clk,
	}
}

type ImportOrderResult struct {
	Order   domain.Order
	Created bool
}

// ImportOrder stores a Shopify order exactly once. Re-importing the same
// order is a no-op returning the stored row; the same Shopify ID with a
// different total is a conflict rather than a silent overwrite.
func (s *OrderService) ImportOrder(ctx context.Context, order domain.Order) (ImportOrderResult, error) {
	if order.ShopifyOrderID <= 0 {
		return ImportOrderResult{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result ImportOrderResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByShopifyOrderID(txCtx, order.ShopifyOrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.TotalCents != order.TotalCents {
				return domain.ErrOrderConflict
			}
			result = ImportOrderResult{Order: *existing, Created: false}
			return nil
		}

		order.ID = newID()
		order.ImportedAt = now

		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			// Re-read when a concurrent import of the same order wins the race.
			if err == domain.ErrOrderConflict {
				existing, err := s.repo.FindByShopifyOrderID(txCtx, order.ShopifyOrderID)
				if err != nil {
					return err
				}
				if existing != nil {
					if existing.TotalCents != order.TotalCents {
						return domain.ErrOrderConflict
					}
					result = ImportOrderResult{Order: *existing, Created: false}
					return nil
				}
			}
			return err
		}

		result = ImportOrderResult{Order: order, Created: true}
		return nil
	})
	if err != nil {
		return ImportOrderResult{}, err
	}
	return result, nil
}

type ListOrdersInput struct {
	Limit  int
	Offset int
}

func (s *OrderService) ListOrders(ctx context.Context, in ListOrdersInput) ([]domain.Order, error) {
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
	return s.repo.ListOrders(ctx, limit, offset)
}

func (s *OrderService) Summary(ctx context.Context) (domain.OrderSummary, error) {
	return s.repo.Summary(ctx)
}

// HighestImportedOrderID is the fallback sync cursor when Redis has none.
func (s *OrderService) HighestImportedOrderID(ctx context.Context) (int64, error) {
	return s.repo.MaxShopifyOrderID(ctx)
}
