package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type ProductRepository struct {
	querier
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{querier{pool: pool}}
}

func (r *ProductRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// UpsertProduct inserts or refreshes a product keyed by its Shopify ID.
// The xmax = 0 check distinguishes a fresh insert from an update.
func (r *ProductRepository) UpsertProduct(ctx context.Context, p domain.Product) (bool, error) {
	const stmt = `
INSERT INTO products (id, shopify_product_id, title, handle, vendor, price_cents, currency, inventory_quantity, status, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (shopify_product_id) DO UPDATE SET
	title = EXCLUDED.title,
	handle = EXCLUDED.handle,
	vendor = EXCLUDED.vendor,
	price_cents = EXCLUDED.price_cents,
	currency = EXCLUDED.currency,
	inventory_quantity = EXCLUDED.inventory_quantity,
	status = EXCLUDED.status,
	synced_at = EXCLUDED.synced_at,
	updated_at = NOW()
RETURNING (xmax = 0)`

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	var created bool
	err := r.queryRow(ctx, stmt,
		p.ID,
		p.ShopifyProductID,
		p.Title,
		p.Handle,
		p.Vendor,
		p.PriceCents,
		currency,
		p.InventoryQuantity,
		p.Status,
		p.SyncedAt,
	).Scan(&created)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("upsert product: %w", err)
	}
	return created, nil
}

func (r *ProductRepository) ArchiveMissing(ctx context.Context, seenShopifyIDs []int64, now time.Time) (int, error) {
	const stmt = `
UPDATE products
SET status = 'archived', updated_at = $2
WHERE NOT (shopify_product_id = ANY($1)) AND status <> 'archived'`

	tag, err := r.exec(ctx, stmt, seenShopifyIDs, now)
	if err != nil {
		return 0, fmt.Errorf("archive missing products: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

const productColumns = `id, shopify_product_id, title, handle, vendor, price_cents, currency, inventory_quantity, status, synced_at, created_at, updated_at`

func (r *ProductRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p domain.Product
	err := r.queryRow(ctx, query, id).Scan(
		&p.ID, &p.ShopifyProductID, &p.Title, &p.Handle, &p.Vendor,
		&p.PriceCents, &p.Currency, &p.InventoryQuantity, &p.Status,
		&p.SyncedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY title, id LIMIT $1 OFFSET $2`

	rows, err := r.query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.ShopifyProductID, &p.Title, &p.Handle, &p.Vendor,
			&p.PriceCents, &p.Currency, &p.InventoryQuantity, &p.Status,
			&p.SyncedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) CountProducts(ctx context.Context, status domain.ProductStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM products WHERE status = $1`

	var count int
	if err := r.queryRow(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}
