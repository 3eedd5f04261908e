package cache

import (
	"context"
	"testing"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

// A nil Store stands in for "Redis not configured" throughout the service,
// so every method must be safe to call on one.
func TestNilStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var store *Store

	if store.Enabled() {
		t.Fatal("expected nil store to be disabled")
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("expected nil ping error, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("expected nil close error, got %v", err)
	}

	if _, ok := store.CatalogSnapshot(ctx); ok {
		t.Fatal("expected catalog miss")
	}
	if err := store.StoreCatalogSnapshot(ctx, []domain.Product{{ID: "p-1"}}); err != nil {
		t.Fatalf("expected snapshot write to be a no-op, got %v", err)
	}

	if cursor, ok := store.OrderCursor(ctx); ok || cursor != 0 {
		t.Fatalf("expected cursor miss, got %d, %t", cursor, ok)
	}
	if err := store.SetOrderCursor(ctx, 42); err != nil {
		t.Fatalf("expected cursor write to be a no-op, got %v", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), "not-a-redis-url"); err == nil {
		t.Fatal("expected an error for a malformed URL")
	}
}
