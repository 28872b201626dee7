package shopwise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dealscout/backend/config"
	"github.com/dealscout/backend/internal/domain"
)

const providerName = "shopwise"

// searchLimit caps free-text catalog searches.
const searchLimit = 20

// apiKeyHeader carries the optional secondary key on every request.
const apiKeyHeader = "X-SW-API-Key"

// Client is the provider adapter for the ShopWise affiliate catalog API.
// There is no token exchange: the publisher id rides along as a query
// parameter on every call, and the optional API key as a request header.
type Client struct {
	httpClient  *http.Client
	cfg         config.ShopWiseConfig
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new ShopWise API client
func NewClient(cfg config.ShopWiseConfig, logger *zap.Logger) *Client {
	// Affiliate tier allows 5 requests per second
	limiter := rate.NewLimiter(rate.Limit(5), 10) // burst of 10 requests

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:         cfg,
		rateLimiter: limiter,
		logger:      logger.With(zap.String("provider", providerName)),
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string { return providerName }

// Authenticate performs no exchange; a configured publisher id is the whole
// credential. Absence disables the provider for this resolution.
func (c *Client) Authenticate(ctx context.Context) (domain.Credential, bool) {
	if !c.cfg.Enabled() {
		c.logger.Debug("provider not configured, skipping",
			zap.String("operation", "authenticate"))
		return domain.Credential{}, false
	}
	return domain.Credential{}, true
}

// LocateStores queries the store-locator endpoint near the coordinate,
// keeping the provider's own ordering.
func (c *Client) LocateStores(ctx context.Context, coord domain.Coordinate, radiusMiles float64, cred domain.Credential) []domain.StoreLocation {
	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%f", coord.Latitude))
	params.Add("lng", fmt.Sprintf("%f", coord.Longitude))
	params.Add("radiusMiles", fmt.Sprintf("%.0f", radiusMiles))

	var payload storesResponse
	if !c.getJSON(ctx, "/v2/stores", params, "locate_stores", &payload) {
		return nil
	}

	return mapStores(payload)
}

// LookupByCode resolves a product code at a specific store, falling back to
// the store's postal code when it carries no provider id.
func (c *Client) LookupByCode(ctx context.Context, code string, store domain.StoreLocation, cred domain.Credential) (domain.Product, bool) {
	params := url.Values{}
	if store.LocationID != "" {
		params.Add("storeId", store.LocationID)
	} else if store.PostalCode != "" {
		params.Add("zip", store.PostalCode)
	}

	var payload rawProduct
	if !c.getJSON(ctx, "/v2/products/"+url.PathEscape(code), params, "lookup_by_code", &payload) {
		return domain.Product{}, false
	}

	if payload.SKU == "" {
		c.logger.Debug("product not carried",
			zap.String("operation", "lookup_by_code"),
			zap.String("code", code),
			zap.String("storeId", store.LocationID))
		return domain.Product{}, false
	}

	return mapProduct(payload, store), true
}

// SearchByTerm runs a free-text catalog search near the coordinate. Results
// carry store context from the first located store when one exists.
func (c *Client) SearchByTerm(ctx context.Context, term string, coord domain.Coordinate, radiusMiles float64, cred domain.Credential) []domain.Product {
	stores := c.LocateStores(ctx, coord, radiusMiles, cred)

	params := url.Values{}
	params.Add("q", term)
	params.Add("lat", fmt.Sprintf("%f", coord.Latitude))
	params.Add("lng", fmt.Sprintf("%f", coord.Longitude))
	params.Add("radiusMiles", fmt.Sprintf("%.0f", radiusMiles))
	params.Add("limit", fmt.Sprintf("%d", searchLimit))

	var store domain.StoreLocation
	if len(stores) > 0 {
		store = stores[0]
	}

	var payload searchResponse
	if !c.getJSON(ctx, "/v2/products/search", params, "search_by_term", &payload) {
		return nil
	}

	products := make([]domain.Product, 0, len(payload.Products))
	for i, raw := range payload.Products {
		if i >= searchLimit {
			break
		}
		products = append(products, mapProduct(raw, store))
	}
	return products
}

// getJSON executes a publisher-keyed GET and decodes the body into out.
// Any transport error, non-success status, or malformed payload is logged
// and collapses to false; nothing propagates to the aggregator.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, operation string, out interface{}) bool {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.logger.Warn("rate limiter wait aborted",
			zap.String("operation", operation),
			zap.Error(err))
		return false
	}

	params.Add("publisherId", c.cfg.PublisherID)

	reqURL := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Warn("failed to build request",
			zap.String("operation", operation),
			zap.Error(err))
		return false
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("operation", operation),
			zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("unexpected status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("failed to decode response",
			zap.String("operation", operation),
			zap.Error(err))
		return false
	}

	return true
}
