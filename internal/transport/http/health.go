package http

import (
	"context"
	stdhttp "net/http"
)

// HealthHandler reports basic liveness for the service.
func HealthHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Pinger is satisfied by pgxpool.Pool and cache.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessDeps are the dependencies the readiness endpoint inspects.
type ReadinessDeps struct {
	Database          Pinger
	Cache             Pinger
	CacheEnabled      bool
	ShopifyConfigured bool
	Environment       string
}

type readinessResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
	Redis       string `json:"redis"`
	Shopify     string `json:"shopify"`
}

// HandleReadiness returns a readiness report covering every backing service.
// A failing database makes the whole service unready; a failing cache or an
// unconfigured store integration only degrades it.
func HandleReadiness(deps ReadinessDeps) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if r.Method != stdhttp.MethodGet {
			writeError(w, stdhttp.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		resp := readinessResponse{
			Status:      "ok",
			Environment: deps.Environment,
			Database:    "ok",
			Redis:       "disabled",
			Shopify:     "configured",
		}
		status := stdhttp.StatusOK

		if err := deps.Database.Ping(r.Context()); err != nil {
			resp.Database = "unreachable"
			resp.Status = "unavailable"
			status = stdhttp.StatusServiceUnavailable
		}

		if deps.CacheEnabled {
			resp.Redis = "ok"
			if err := deps.Cache.Ping(r.Context()); err != nil {
				resp.Redis = "unreachable"
				if resp.Status == "ok" {
					resp.Status = "degraded"
				}
			}
		}

		if !deps.ShopifyConfigured {
			resp.Shopify = "unconfigured"
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		}

		writeJSON(w, status, resp)
	}
}
