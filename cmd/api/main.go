package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/app"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/cache"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/clock"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/config"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/logger"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/orchestrator"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/shopify"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/storage/postgres"
	transporthttp "github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/transport/http"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(config.Production)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.Env())

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to db")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatal().Err(err).Msg("db ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	var store *cache.Store
	if cfg.RedisURL != "" {
		store, err = cache.New(startupCtx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to redis")
		}
		defer func() { _ = store.Close() }()
	} else {
		log.Warn().Msg("REDIS_URL not set, catalog cache disabled")
	}

	shop := shopify.NewClient(cfg.Shopify)
	if !shop.Configured() {
		// Config validation already rejects this in production.
		log.Warn().Msg("shopify credentials not set, sync agents will report unconfigured")
	}

	clk := clock.NewSystem()
	productSvc := app.NewProductService(postgres.NewProductRepository(pool), clk, app.WithCatalogCache(store))
	orderSvc := app.NewOrderService(postgres.NewOrderRepository(pool), clk)
	campaignSvc := app.NewCampaignService(postgres.NewCampaignRepository(pool), clk)
	runSvc := app.NewAgentRunService(postgres.NewAgentRunRepository(pool), clk)

	orch, err := orchestrator.New(runSvc, log,
		orchestrator.NewProductSyncAgent(shop, productSvc, store, cfg.ProductSyncInterval),
		orchestrator.NewOrderSyncAgent(shop, orderSvc, store, cfg.OrderSyncInterval),
		orchestrator.NewCampaignTickAgent(campaignSvc, cfg.CampaignTickInterval),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/api/health", transporthttp.HandleReadiness(transporthttp.ReadinessDeps{
		Database:          pool,
		Cache:             store,
		CacheEnabled:      store.Enabled(),
		ShopifyConfigured: shop.Configured(),
		Environment:       cfg.Env().String(),
	}))
	mux.Handle("/api/products", transporthttp.HandleListProducts(productSvc))
	mux.Handle("/api/products/summary", transporthttp.HandleProductSummary(productSvc))
	mux.Handle("/api/products/", transporthttp.HandleGetProduct(productSvc))
	mux.Handle("/api/orders", transporthttp.HandleListOrders(orderSvc))
	mux.Handle("/api/orders/summary", transporthttp.HandleOrderSummary(orderSvc))
	mux.Handle("/api/campaigns", transporthttp.HandleCampaigns(campaignSvc))
	mux.Handle("/api/campaigns/", transporthttp.HandleCampaignItem(campaignSvc))
	mux.Handle("/api/agents", transporthttp.HandleListAgents(orch, runSvc))
	mux.Handle("/api/agents/", transporthttp.HandleAgentItem(orch, runSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(
		transporthttp.CORS(cfg.CORSOrigins,
			transporthttp.RequireAuth(cfg.SecretKey, mux)),
		log,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchDone := make(chan struct{})
	go func() {
		defer close(orchDone)
		if err := orch.Start(stopCtx); err != nil {
			log.Error().Err(err).Msg("orchestrator stopped")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("environment", cfg.Env().String()).Msg("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	case <-stopCtx.Done():
		log.Info().Msg("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server shutdown error")
	}

	stop()
	select {
	case <-orchDone:
	case <-shutdownCtx.Done():
	}
	log.Info().Msg("server stopped")
}
