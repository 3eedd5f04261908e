package app

import (
	"context"
	"testing"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/clock"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type fakeOrderRepo struct {
	orders map[int64]domain.Order

	// createErr forces the next CreateOrder to fail, simulating a lost race.
	createErr      error
	createErrOnce  bool
	insertOnErr    *domain.Order
	createAttempts int
}

func newFakeOrderRepo(orders []domain.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[int64]domain.Order)}
	for _, o := range orders {
		repo.orders[o.ShopifyOrderID] = o
	}
	return repo
}

func (r *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeOrderRepo) FindByShopifyOrderID(_ context.Context, id int64) (*domain.Order, error) {
	if o, ok := r.orders[id]; ok {
		o := o
		return &o, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, o domain.Order) error {
	r.createAttempts++
	if r.createErr != nil {
		err := r.createErr
		if r.createErrOnce {
			r.createErr = nil
		}
		if r.insertOnErr != nil {
			// The concurrent winner's row becomes visible for the re-read.
			r.orders[r.insertOnErr.ShopifyOrderID] = *r.insertOnErr
		}
		return err
	}
	if _, exists := r.orders[o.ShopifyOrderID]; exists {
		return domain.ErrOrderConflict
	}
	r.orders[o.ShopifyOrderID] = o
	return nil
}

func (r *fakeOrderRepo) ListOrders(_ context.Context, limit, offset int) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeOrderRepo) Summary(_ context.Context) (domain.OrderSummary, error) {
	var s domain.OrderSummary
	for _, o := range r.orders {
		s.TotalOrders++
		s.TotalCents += o.TotalCents
	}
	return s, nil
}

func (r *fakeOrderRepo) MaxShopifyOrderID(_ context.Context) (int64, error) {
	var max int64
	for id := range r.orders {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func TestOrderService_ImportOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	placed := now.Add(-time.Hour)

	newOrder := func() domain.Order {
		return domain.Order{
			ShopifyOrderID: 5001,
			OrderNumber:    "#1001",
			Email:          "buyer@example.com",
			TotalCents:     12999,
			Currency:       "USD",
			PlacedAt:       placed,
		}
	}

	t.Run("imports a new order", func(t *testing.T) {
		repo := newFakeOrderRepo(nil)
		svc := NewOrderService(repo, clock.NewFixed(now))

		res, err := svc.ImportOrder(context.Background(), newOrder())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !res.Created {
			t.Fatalf("expected created=true")
		}
		if res.Order.ID == "" {
			t.Fatalf("expected order ID to be set")
		}
		if !res.Order.ImportedAt.Equal(now) {
			t.Fatalf("expected imported_at %v, got %v", now, res.Order.ImportedAt)
		}
	})

	t.Run("re-import of the same order is a no-op", func(t *testing.T) {
		existing := newOrder()
		existing.ID = "order-1"
		existing.ImportedAt = now.Add(-time.Minute)
		repo := newFakeOrderRepo([]domain.Order{existing})
		svc := NewOrderService(repo, clock.NewFixed(now))

		res, err := svc.ImportOrder(context.Background(), newOrder())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Created {
			t.Fatalf("expected created=false")
		}
		if res.Order.ID != "order-1" {
			t.Fatalf("expected existing order returned, got %s", res.Order.ID)
		}
		if repo.createAttempts != 0 {
			t.Fatalf("expected no create attempt, got %d", repo.createAttempts)
		}
	})

	t.Run("same id with different total is a conflict", func(t *testing.T) {
		existing := newOrder()
		existing.ID = "order-1"
		existing.TotalCents = 999
		repo := newFakeOrderRepo([]domain.Order{existing})
		svc := NewOrderService(repo, clock.NewFixed(now))

		if _, err := svc.ImportOrder(context.Background(), newOrder()); err != domain.ErrOrderConflict {
			t.Fatalf("expected ErrOrderConflict, got %v", err)
		}
	})

	t.Run("losing a concurrent race re-reads the winner", func(t *testing.T) {
		winner := newOrder()
		winner.ID = "order-winner"
		repo := newFakeOrderRepo(nil)
		repo.createErr = domain.ErrOrderConflict
		repo.createErrOnce = true
		repo.insertOnErr = &winner
		svc := NewOrderService(repo, clock.NewFixed(now))

		res, err := svc.ImportOrder(context.Background(), newOrder())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Created {
			t.Fatalf("expected created=false after losing the race")
		}
		if res.Order.ID != "order-winner" {
			t.Fatalf("expected winner's order, got %s", res.Order.ID)
		}
	})

	t.Run("rejects non-positive shopify id", func(t *testing.T) {
		svc := NewOrderService(newFakeOrderRepo(nil), clock.NewFixed(now))
		order := newOrder()
		order.ShopifyOrderID = 0
		if _, err := svc.ImportOrder(context.Background(), order); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})
}

func TestOrderService_Summary(t *testing.T) {
	t.Parallel()

	repo := newFakeOrderRepo([]domain.Order{
		{ID: "o-1", ShopifyOrderID: 1, TotalCents: 1000},
		{ID: "o-2", ShopifyOrderID: 2, TotalCents: 2500},
	})
	svc := NewOrderService(repo, clock.NewSystem())

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.TotalOrders != 2 {
		t.Fatalf("expected 2 orders, got %d", summary.TotalOrders)
	}
	if summary.TotalCents != 3500 {
		t.Fatalf("expected 3500 cents, got %d", summary.TotalCents)
	}
}
