package kroger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/dealscout/backend/config"
	"github.com/dealscout/backend/internal/domain"
)

const providerName = "kroger"

// searchLimit caps free-text catalog searches.
const searchLimit = 20

// Client is the provider adapter for the Kroger catalog API. Authentication
// is an OAuth2 client-credentials grant scoped to product read access; the
// bearer token is attached to every subsequent call of the same resolution.
type Client struct {
	httpClient  *http.Client
	cfg         config.KrogerConfig
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new Kroger API client
func NewClient(cfg config.KrogerConfig, logger *zap.Logger) *Client {
	// Public product quota is 10000 requests per day ≈ 0.116 requests/sec
	limiter := rate.NewLimiter(rate.Limit(0.116), 10) // burst of 10 requests

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

// Authenticate exchanges the configured client id/secret for a bearer token.
// Missing secrets or a failed exchange disable the provider for this
// resolution; neither is an error the caller sees.
func (c *Client) Authenticate(ctx context.Context) (domain.Credential, bool) {
	if !c.cfg.Enabled() {
		c.logger.Debug("provider not configured, skipping",
			zap.String("operation", "authenticate"))
		return domain.Credential{}, false
	}

	conf := &clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.cfg.TokenURL,
		Scopes:       []string{"product.compact"},
	}

	// Route the token exchange through our own http client so the
	// timeout applies to it as well.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := conf.Token(ctx)
	if err != nil {
		c.logger.Warn("token exchange failed, provider unavailable",
			zap.String("operation", "authenticate"),
			zap.Error(err))
		return domain.Credential{}, false
	}

	return domain.Credential{Token: token.AccessToken}, true
}

// LocateStores queries the store-locator endpoint near the coordinate.
// The provider's ordering is kept as-is: the first store is the implicit
// nearest/default choice.
func (c *Client) LocateStores(ctx context.Context, coord domain.Coordinate, radiusMiles float64, cred domain.Credential) []domain.StoreLocation {
	params := url.Values{}
	params.Add("filter.latLong.near", fmt.Sprintf("%f,%f", coord.Latitude, coord.Longitude))
	params.Add("filter.radiusInMiles", fmt.Sprintf("%.0f", radiusMiles))

	var payload locationsResponse
	if !c.getJSON(ctx, "/v1/locations", params, cred, "locate_stores", &payload) {
		return nil
	}

	return mapLocations(payload)
}

// LookupByCode resolves a product code at a specific store.
func (c *Client) LookupByCode(ctx context.Context, code string, store domain.StoreLocation, cred domain.Credential) (domain.Product, bool) {
	params := url.Values{}
	params.Add("filter.term", code)
	params.Add("filter.locationId", store.LocationID)

	var payload productsResponse
	if !c.getJSON(ctx, "/v1/products", params, cred, "lookup_by_code", &payload) {
		return domain.Product{}, false
	}

	if len(payload.Data) == 0 {
		c.logger.Debug("product not carried",
			zap.String("operation", "lookup_by_code"),
			zap.String("code", code),
			zap.String("locationId", store.LocationID))
		return domain.Product{}, false
	}

	return mapProduct(payload.Data[0], store), true
}

// SearchByTerm runs a free-text catalog search near the coordinate. Results
// carry store context from the first located store when one exists.
func (c *Client) SearchByTerm(ctx context.Context, term string, coord domain.Coordinate, radiusMiles float64, cred domain.Credential) []domain.Product {
	stores := c.LocateStores(ctx, coord, radiusMiles, cred)

	params := url.Values{}
	params.Add("filter.term", term)
	params.Add("filter.limit", fmt.Sprintf("%d", searchLimit))

	var store domain.StoreLocation
	if len(stores) > 0 {
		store = stores[0]
		params.Add("filter.locationId", store.LocationID)
	}

	var payload productsResponse
	if !c.getJSON(ctx, "/v1/products", params, cred, "search_by_term", &payload) {
		return nil
	}

	products := make([]domain.Product, 0, len(payload.Data))
	for i, raw := range payload.Data {
		if i >= searchLimit {
			break
		}
		products = append(products, mapProduct(raw, store))
	}
	return products
}

// getJSON executes a bearer-authenticated GET and decodes the body into
// out. Any transport error, non-success status, or malformed payload is
// logged and collapses to false; nothing propagates to the aggregator.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, cred domain.Credential, operation string, out interface{}) bool {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.logger.Warn("rate limiter wait aborted",
			zap.String("operation", operation),
			zap.Error(err))
		return false
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Warn("failed to build request",
			zap.String("operation", operation),
			zap.Error(err))
		return false
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("Accept", "application/json")

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
