package domain

import "time"

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// Product mirrors one Shopify catalog entry.
type Product struct {
	ID                string
	ShopifyProductID  int64
	Title             string
	Handle            string
	Vendor            string
	PriceCents        int64
	Currency          string
	InventoryQuantity int
	Status            ProductStatus
	SyncedAt          time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
