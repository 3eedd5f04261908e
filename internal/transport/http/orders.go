package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/app"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

// OrderReader is the minimal interface needed by the order endpoints.
type OrderReader interface {
	ListOrders(ctx context.Context, in app.ListOrdersInput) ([]domain.Order, error)
	Summary(ctx context.Context) (domain.OrderSummary, error)
}

type orderResponse struct {
	ID                string    `json:"id"`
	ShopifyOrderID    int64     `json:"shopify_order_id"`
	OrderNumber       string    `json:"order_number"`
	Email             string    `json:"email"`
	TotalCents        int64     `json:"total_cents"`
	Currency          string    `json:"currency"`
	FinancialStatus   string    `json:"financial_status"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	PlacedAt          time.Time `json:"placed_at"`
	ImportedAt        time.Time `json:"imported_at"`
}

// HandleListOrders returns an HTTP handler for the imported-order listing.
func HandleListOrders(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		limit, offset := parsePage(r)
		orders, err := svc.ListOrders(r.Context(), app.ListOrdersInput{Limit: limit, Offset: offset})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, orderResponse{
				ID:                o.ID,
				ShopifyOrderID:    o.ShopifyOrderID,
				OrderNumber:       o.OrderNumber,
				Email:             o.Email,
				TotalCents:        o.TotalCents,
				Currency:          o.Currency,
				FinancialStatus:   o.FinancialStatus,
				FulfillmentStatus: o.FulfillmentStatus,
				PlacedAt:          o.PlacedAt,
				ImportedAt:        o.ImportedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type orderSummaryResponse struct {
	TotalOrders  int        `json:"total_orders"`
	TotalCents   int64      `json:"total_cents"`
	FirstPlaced  *time.Time `json:"first_placed,omitempty"`
	LatestPlaced *time.Time `json:"latest_placed,omitempty"`
}

// HandleOrderSummary returns an HTTP handler for revenue/count reporting.
func HandleOrderSummary(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orderSummaryResponse{
			TotalOrders:  summary.TotalOrders,
			TotalCents:   summary.TotalCents,
			FirstPlaced:  summary.FirstPlaced,
			LatestPlaced: summary.LatestPlaced,
		})
	}
}
