package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type OrderRepository struct {
	querier
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{querier{pool: pool}}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const orderColumns = `id, shopify_order_id, order_number, email, total_cents, currency, financial_status, fulfillment_status, placed_at, imported_at`

func (r *OrderRepository) FindByShopifyOrderID(ctx context.Context, shopifyOrderID int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE shopify_order_id = $1`

	var o domain.Order
	err := r.queryRow(ctx, query, shopifyOrderID).Scan(
		&o.ID, &o.ShopifyOrderID, &o.OrderNumber, &o.Email, &o.TotalCents,
		&o.Currency, &o.FinancialStatus, &o.FulfillmentStatus, &o.PlacedAt, &o.ImportedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find order by shopify id: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o domain.Order) error {
	const stmt = `
INSERT INTO orders (id, shopify_order_id, order_number, email, total_cents, currency, financial_status, fulfillment_status, placed_at, imported_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		o.ID,
		o.ShopifyOrderID,
		o.OrderNumber,
		o.Email,
		o.TotalCents,
		o.Currency,
		o.FinancialStatus,
		o.FulfillmentStatus,
		o.PlacedAt,
		o.ImportedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderConflict
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY placed_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := r.query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.ShopifyOrderID, &o.OrderNumber, &o.Email, &o.TotalCents,
			&o.Currency, &o.FinancialStatus, &o.FulfillmentStatus, &o.PlacedAt, &o.ImportedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) Summary(ctx context.Context) (domain.OrderSummary, error) {
	const query = `
SELECT COUNT(*), COALESCE(SUM(total_cents), 0), MIN(placed_at), MAX(placed_at)
FROM orders`

	var s domain.OrderSummary
	if err := r.queryRow(ctx, query).Scan(&s.TotalOrders, &s.TotalCents, &s.FirstPlaced, &s.LatestPlaced); err != nil {
		return domain.OrderSummary{}, fmt.Errorf("order summary: %w", err)
	}
	return s, nil
}

func (r *OrderRepository) MaxShopifyOrderID(ctx context.Context) (int64, error) {
	const query = `SELECT COALESCE(MAX(shopify_order_id), 0) FROM orders`

	var max int64
	if err := r.queryRow(ctx, query).Scan(&max); err != nil {
		return 0, fmt.Errorf("max shopify order id: %w", err)
	}
	return max, nil
}
