package kroger

import (
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

// locationsResponse mirrors GET /v1/locations.
type locationsResponse struct {
	Data []rawLocation `json:"data"`
}

type rawLocation struct {
	LocationID  string         `json:"locationId"`
	Name        string         `json:"name"`
	Geolocation rawGeolocation `json:"geolocation"`
	Address     rawAddress     `json:"address"`
}

type rawGeolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type rawAddress struct {
	ZipCode string `json:"zipCode"`
}

// productsResponse mirrors GET /v1/products.
type productsResponse struct {
	Data []rawProduct `json:"data"`
}

type rawProduct struct {
	ProductID   string     `json:"productId"`
	UPC         string     `json:"upc"`
	Description string     `json:"description"`
	Brand       string     `json:"brand"`
	Items       []rawItem  `json:"items"`
	Images      []rawImage `json:"images"`
}

type rawItem struct {
	Price rawPrice `json:"price"`
}

// rawPrice uses pointers so an absent field is distinguishable from an
// explicit zero.
type rawPrice struct {
	Promo   *float64 `json:"promo"`
	Regular *float64 `json:"regular"`
}

type rawImage struct {
	Perspective string    `json:"perspective"`
	Sizes       []rawSize `json:"sizes"`
}

type rawSize struct {
	Size string `json:"size"`
	URL  string `json:"url"`
}

// mapLocations converts the locations payload into domain StoreLocations,
// preserving provider order.
func mapLocations(payload locationsResponse) []domain.StoreLocation {
	stores := make([]domain.StoreLocation, 0, len(payload.Data))
	for _, raw := range payload.Data {
		stores = append(stores, domain.StoreLocation{
			LocationID: raw.LocationID,
			Name:       raw.Name,
			Location: domain.Coordinate{
				Latitude:  raw.Geolocation.Latitude,
				Longitude: raw.Geolocation.Longitude,
			},
			PostalCode: raw.Address.ZipCode,
		})
	}
	return stores
}

// mapProduct converts a raw Kroger product into the canonical domain model.
func mapProduct(raw rawProduct, store domain.StoreLocation) domain.Product {
	code := raw.UPC
	if code == "" {
		code = raw.ProductID
	}

	loc := store.Location
	product := domain.Product{
		Code:     code,
		Name:     raw.Description,
		Brand:    raw.Brand,
		Price:    extractPrice(raw),
		ImageURL: extractImageURL(raw.Images),
		Organic:  isOrganic(raw),
	}
	if store.Name != "" {
		product.Store = store.Name
		product.Location = &loc
	}
	return product
}

// extractPrice applies the provider's price priority: promo beats regular,
// the first present positive value wins, and no usable price coerces to 0.
// Kroger reports promo as 0 when no promotion is running, so a zero promo
// counts as absent.
func extractPrice(raw rawProduct) float64 {
	if len(raw.Items) == 0 {
		return 0
	}
	price := raw.Items[0].Price
	if price.Promo != nil && *price.Promo > 0 {
		return *price.Promo
	}
	if price.Regular != nil && *price.Regular > 0 {
		return *price.Regular
	}
	return 0
}

// extractImageURL prefers the front perspective at medium size, falling
// back to whatever is listed first.
func extractImageURL(images []rawImage) string {
	var fallback string
	for _, img := range images {
		for _, size := range img.Sizes {
			if fallback == "" {
				fallback = size.URL
			}
			if img.Perspective == "front" && size.Size == "medium" {
				return size.URL
			}
		}
	}
	return fallback
}

// isOrganic scans the description for the substring "organic". This is a
// heuristic, not an authoritative flag; false positives and negatives are
// expected.
func isOrganic(raw rawProduct) bool {
	return strings.Contains(strings.ToLower(raw.Description), "organic")
}
