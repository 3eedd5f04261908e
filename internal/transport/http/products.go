package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/app"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

// ProductReader is the minimal interface needed by the product endpoints.
type ProductReader interface {
	ListProducts(ctx context.Context, in app.ListProductsInput) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

type productResponse struct {
	ID                string    `json:"id"`
	ShopifyProductID  int64     `json:"shopify_product_id"`
	Title             string    `json:"title"`
	Handle            string    `json:"handle"`
	Vendor            string    `json:"vendor"`
	PriceCents        int64     `json:"price_cents"`
	Currency          string    `json:"currency"`
	InventoryQuantity int       `json:"inventory_quantity"`
	Status            string    `json:"status"`
	SyncedAt          time.Time `json:"synced_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:                p.ID,
		ShopifyProductID:  p.ShopifyProductID,
		Title:             p.Title,
		Handle:            p.Handle,
		Vendor:            p.Vendor,
		PriceCents:        p.PriceCents,
		Currency:          p.Currency,
		InventoryQuantity: p.InventoryQuantity,
		Status:            string(p.Status),
		SyncedAt:          p.SyncedAt,
	}
}

// HandleListProducts returns an HTTP handler for the product catalog listing.
func HandleListProducts(svc ProductReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		limit, offset := parsePage(r)
		products, err := svc.ListProducts(r.Context(), app.ListProductsInput{Limit: limit, Offset: offset})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]productResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductResponse(p))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// CatalogSummarizer is the minimal interface needed by the catalog summary
// endpoint.
type CatalogSummarizer interface {
	Summary(ctx context.Context) (app.CatalogSummary, error)
}

type catalogSummaryResponse struct {
	Active   int `json:"active"`
	Archived int `json:"archived"`
}

// HandleProductSummary returns an HTTP handler for catalog status counts.
func HandleProductSummary(svc CatalogSummarizer) http.HandlerFunc {
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
		writeJSON(w, http.StatusOK, catalogSummaryResponse{
			Active:   summary.Active,
			Archived: summary.Archived,
		})
	}
}

// HandleGetProduct returns an HTTP handler for a single product lookup.
func HandleGetProduct(svc ProductReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		id, ok := parseItemPath(r.URL.Path, "products")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProductResponse(product))
	}
}

func parsePage(r *http.Request) (limit, offset int) {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}

// parseItemPath extracts the ID segment from /api/<collection>/<id>.
func parseItemPath(path, collection string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "api" || parts[1] != collection || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

// parseItemActionPath extracts ID and action from /api/<collection>/<id>/<action>.
func parseItemActionPath(path, collection string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", "", false
	}
	if parts[0] != "api" || parts[1] != collection || parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}
