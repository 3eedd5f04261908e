package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/testutil"
)

func TestProductRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewProductRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("UpsertProduct inserts then updates by Shopify ID", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		product := domain.Product{
			ID:                uuid.NewString(),
			ShopifyProductID:  101,
			Title:             "Power Rack",
			Handle:            "power-rack",
			Vendor:            "Royal Equips",
			PriceCents:        49999,
			InventoryQuantity: 12,
			Status:            domain.ProductStatusActive,
			SyncedAt:          time.Now().UTC(),
		}

		created, err := repo.UpsertProduct(ctx, product)
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if !created {
			t.Fatal("expected first upsert to report created")
		}

		// A later sync carries a fresh candidate ID; the conflict keeps the
		// original row and applies the new values.
		update := product
		update.ID = uuid.NewString()
		update.PriceCents = 45000
		update.Status = domain.ProductStatusDraft

		created, err = repo.UpsertProduct(ctx, update)
		if err != nil {
			t.Fatalf("second upsert: %v", err)
		}
		if created {
			t.Fatal("expected second upsert to report updated")
		}

		got, err := repo.GetProduct(ctx, product.ID)
		if err != nil {
			t.Fatalf("get product: %v", err)
		}
		if got.PriceCents != 45000 || got.Status != domain.ProductStatusDraft {
			t.Fatalf("unexpected product after update: %+v", got)
		}
	})

	t.Run("ArchiveMissing archives rows a full sync did not see", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		testutil.InsertProduct(t, ctx, pool, domain.Product{ShopifyProductID: 201, Title: "Bench", Handle: "bench"})
		testutil.InsertProduct(t, ctx, pool, domain.Product{ShopifyProductID: 202, Title: "Dumbbells", Handle: "dumbbells"})

		archived, err := repo.ArchiveMissing(ctx, []int64{201}, time.Now().UTC())
		if err != nil {
			t.Fatalf("archive missing: %v", err)
		}
		if archived != 1 {
			t.Fatalf("expected 1 archived, got %d", archived)
		}

		// Already-archived rows stay untouched on the next sweep.
		archived, err = repo.ArchiveMissing(ctx, []int64{201}, time.Now().UTC())
		if err != nil {
			t.Fatalf("second sweep: %v", err)
		}
		if archived != 0 {
			t.Fatalf("expected 0 archived on second sweep, got %d", archived)
		}

		count, err := repo.CountProducts(ctx, domain.ProductStatusArchived)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 archived product, got %d", count)
		}
	})

	t.Run("GetProduct returns ErrProductNotFound or ErrInvalidID", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		if _, err := repo.GetProduct(ctx, "00000000-0000-0000-0000-000000000001"); err != domain.ErrProductNotFound {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
		if _, err := repo.GetProduct(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("ListProducts pages in title order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		testutil.InsertProduct(t, ctx, pool, domain.Product{ShopifyProductID: 301, Title: "Squat Rack", Handle: "squat-rack"})
		testutil.InsertProduct(t, ctx, pool, domain.Product{ShopifyProductID: 302, Title: "Barbell", Handle: "barbell"})
		testutil.InsertProduct(t, ctx, pool, domain.Product{ShopifyProductID: 303, Title: "Kettlebell", Handle: "kettlebell"})

		products, err := repo.ListProducts(ctx, 2, 0)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("expected 2 products, got %d", len(products))
		}
		if products[0].Title != "Barbell" || products[1].Title != "Kettlebell" {
			t.Fatalf("unexpected order: %q, %q", products[0].Title, products[1].Title)
		}

		rest, err := repo.ListProducts(ctx, 2, 2)
		if err != nil {
			t.Fatalf("list offset: %v", err)
		}
		if len(rest) != 1 || rest[0].Title != "Squat Rack" {
			t.Fatalf("unexpected second page: %+v", rest)
		}
	})
}
