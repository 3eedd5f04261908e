package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/config"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

const (
	tokenHeader    = "X-Shopify-Access-Token"
	defaultTimeout = 15 * time.Second
	maxRetries     = 3
)

var ErrUnauthorized = errors.New("shopify rejected access token")

// Client talks to the Shopify Admin REST API for the connected store.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	sleep      func(time.Duration)
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API base URL (tests point this at httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

func withSleep(fn func(time.Duration)) Option {
	return func(c *Client) {
		c.sleep = fn
	}
}

func NewClient(cfg config.Shopify, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		token:      cfg.AccessToken,
		sleep:      time.Sleep,
	}
	if cfg.Configured() {
		c.baseURL = fmt.Sprintf("https://%s/admin/api/%s", cfg.ShopDomain, cfg.APIVersion)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client has a store to talk to.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

// ListProducts returns up to limit products with IDs greater than sinceID.
func (c *Client) ListProducts(ctx context.Context, sinceID int64, limit int) ([]Product, error) {
	query := url.Values{}
	query.Set("since_id", strconv.FormatInt(sinceID, 10))
	query.Set("limit", strconv.Itoa(limit))

	var resp productsResponse
	if err := c.get(ctx, "/products.json", query, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// ListOrders returns up to limit orders of any status with IDs greater than sinceID.
func (c *Client) ListOrders(ctx context.Context, sinceID int64, limit int) ([]Order, error) {
	query := url.Values{}
	query.Set("since_id", strconv.FormatInt(sinceID, 10))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("status", "any")

	var resp ordersResponse
	if err := c.get(ctx, "/orders.json", query, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if !c.Configured() {
		return domain.ErrShopifyUnconfigured
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set(tokenHeader, c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("shopify request: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			_ = resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode shopify response: %w", err)
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries:
			wait := retryAfter(resp)
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			c.sleep(wait)
			continue
		case resp.StatusCode == http.StatusUnauthorized:
			_ = resp.Body.Close()
			return ErrUnauthorized
		default:
			_, _ = io.Copy(io.Discard, resp.Body)
			status := resp.StatusCode
			_ = resp.Body.Close()
			return fmt.Errorf("shopify responded %d for %s", status, path)
		}
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return time.Second
}

// ParseCents converts a Shopify decimal money string into integer cents.
// Fractions beyond two digits are rejected rather than rounded. Negative
// amounts are rejected too: order totals are non-negative and the orders
// table enforces the same, so a negative value fails here instead of at
// the insert.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative money amount %q", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		return 0, fmt.Errorf("unsupported money precision %q", s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}

	return units*100 + cents, nil
}
