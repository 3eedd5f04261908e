package config

import (
	"strings"
	"testing"
)

func TestParseEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Environment
	}{
		{"production", Production},
		{"PRODUCTION", Production},
		{"  staging ", Staging},
		{"testing", Testing},
		{"development", Development},
		{"", Development},
		{"prod", Development},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseEnvironment(tc.input); got != tc.expected {
				t.Fatalf("ParseEnvironment(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestShopifyConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		shopify  Shopify
		expected bool
	}{
		{
			name:     "both credentials present",
			shopify:  Shopify{ShopDomain: "royal-equips.myshopify.com", AccessToken: "shpat_test"},
			expected: true,
		},
		{
			name:     "missing token",
			shopify:  Shopify{ShopDomain: "royal-equips.myshopify.com"},
			expected: false,
		},
		{
			name:     "missing domain",
			shopify:  Shopify{AccessToken: "shpat_test"},
			expected: false,
		},
		{
			name:     "empty",
			shopify:  Shopify{},
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.shopify.Configured(); got != tc.expected {
				t.Fatalf("Configured() = %t, expected %t", got, tc.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	complete := Config{
		Environment: "production",
		DatabaseURL: "postgres://app@db/app",
		SecretKey:   "s3cret",
		Shopify:     Shopify{ShopDomain: "royal-equips.myshopify.com", AccessToken: "shpat_test"},
	}

	t.Run("complete production config passes", func(t *testing.T) {
		if err := complete.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("development skips the checks", func(t *testing.T) {
		cfg := Config{Environment: "development"}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("production without secret key fails", func(t *testing.T) {
		cfg := complete
		cfg.SecretKey = ""
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "SECRET_KEY") {
			t.Fatalf("expected SECRET_KEY in error, got %v", err)
		}
	})

	t.Run("production without database fails", func(t *testing.T) {
		cfg := complete
		cfg.DatabaseURL = ""
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Fatalf("expected DATABASE_URL in error, got %v", err)
		}
	})

	t.Run("production without store credentials fails", func(t *testing.T) {
		cfg := complete
		cfg.Shopify = Shopify{}
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "SHOPIFY_SHOP_DOMAIN") {
			t.Fatalf("expected store credentials in error, got %v", err)
		}
	})

	t.Run("all problems are reported together", func(t *testing.T) {
		cfg := Config{Environment: "production"}
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected an error")
		}
		for _, want := range []string{"SECRET_KEY", "DATABASE_URL", "SHOPIFY_SHOP_DOMAIN"} {
			if !strings.Contains(err.Error(), want) {
				t.Fatalf("expected %s in error, got %v", want, err)
			}
		}
	})
}
