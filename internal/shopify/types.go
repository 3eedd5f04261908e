package shopify

import "time"

// Product is the subset of the Admin API product resource the sync uses.
// Price and inventory come from the first variant, which is how the store
// models its single-variant equipment catalog.
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Handle   string    `json:"handle"`
	Vendor   string    `json:"vendor"`
	Status   string    `json:"status"`
	Variants []Variant `json:"variants"`
}

type Variant struct {
	ID                int64  `json:"id"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// PriceCents returns the first variant's price in integer cents.
func (p Product) PriceCents() (int64, error) {
	if len(p.Variants) == 0 {
		return 0, nil
	}
	return ParseCents(p.Variants[0].Price)
}

// InventoryQuantity returns the first variant's available quantity.
func (p Product) InventoryQuantity() int {
	if len(p.Variants) == 0 {
		return 0
	}
	return p.Variants[0].InventoryQuantity
}

// Order is the subset of the Admin API order resource the sync uses.
type Order struct {
	ID                int64     `json:"id"`
	OrderNumber       int       `json:"order_number"`
	Email             string    `json:"email"`
	TotalPrice        string    `json:"total_price"`
	Currency          string    `json:"currency"`
	FinancialStatus   string    `json:"financial_status"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	CreatedAt         time.Time `json:"created_at"`
}

// TotalCents returns the order total in integer cents.
func (o Order) TotalCents() (int64, error) {
	return ParseCents(o.TotalPrice)
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
}
