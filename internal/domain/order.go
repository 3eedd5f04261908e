package domain

import "time"

// Order is a Shopify order imported by the order-sync agent.
type Order struct {
	ID                string
	ShopifyOrderID    int64
	OrderNumber       string
	Email             string
	TotalCents        int64
	Currency          string
	FinancialStatus   string
	FulfillmentStatus string
	PlacedAt          time.Time
	ImportedAt        time.Time
}

// OrderSummary aggregates imported orders for reporting endpoints.
type OrderSummary struct {
	TotalOrders  int
	TotalCents   int64
	FirstPlaced  *time.Time
	LatestPlaced *time.Time
}
