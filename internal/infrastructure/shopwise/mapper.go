package shopwise

import (
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

// storesResponse mirrors GET /v2/stores.
type storesResponse struct {
	Stores []rawStore `json:"stores"`
}

type rawStore struct {
	StoreID    string  `json:"storeId"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	PostalCode string  `json:"postalCode"`
}

// searchResponse mirrors GET /v2/products/search.
type searchResponse struct {
	Products []rawProduct `json:"products"`
}

type rawProduct struct {
	SKU         string     `json:"sku"`
	Title       string     `json:"title"`
	Brand       string     `json:"brand"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Pricing     rawPricing `json:"pricing"`
	Tags        []string   `json:"tags"`
}

// rawPricing uses pointers so an absent field is distinguishable from an
// explicit zero.
type rawPricing struct {
	SalePrice *float64 `json:"salePrice"`
	ListPrice *float64 `json:"listPrice"`
	MSRP      *float64 `json:"msrp"`
}

// mapStores converts the stores payload into domain StoreLocations,
// preserving provider order.
func mapStores(payload storesResponse) []domain.StoreLocation {
	stores := make([]domain.StoreLocation, 0, len(payload.Stores))
	for _, raw := range payload.Stores {
		stores = append(stores, domain.StoreLocation{
			LocationID: raw.StoreID,
			Name:       raw.Name,
			Location: domain.Coordinate{
				Latitude:  raw.Latitude,
				Longitude: raw.Longitude,
			},
			PostalCode: raw.PostalCode,
		})
	}
	return stores
}

// mapProduct converts a raw ShopWise product into the canonical domain model.
func mapProduct(raw rawProduct, store domain.StoreLocation) domain.Product {
	loc := store.Location
	product := domain.Product{
		Code:     raw.SKU,
		Name:     raw.Title,
		Brand:    raw.Brand,
		Price:    extractPrice(raw.Pricing),
		ImageURL: raw.ImageURL,
		Organic:  isOrganic(raw),
	}
	if store.Name != "" {
		product.Store = store.Name
		product.Location = &loc
	}
	return product
}

// extractPrice applies the provider's price priority: sale beats list beats
// MSRP; the first present value wins and no usable price coerces to 0.
func extractPrice(pricing rawPricing) float64 {
	if pricing.SalePrice != nil {
		return *pricing.SalePrice
	}
	if pricing.ListPrice != nil {
		return *pricing.ListPrice
	}
	if pricing.MSRP != nil {
		return *pricing.MSRP
	}
	return 0
}

// isOrganic scans descriptive text and attribute tags, case-insensitively,
// for the substring "organic". A heuristic; false positives and negatives
// are expected.
func isOrganic(raw rawProduct) bool {
	if strings.Contains(strings.ToLower(raw.Title), "organic") {
		return true
	}
	if strings.Contains(strings.ToLower(raw.Description), "organic") {
		return true
	}
	for _, tag := range raw.Tags {
		if strings.Contains(strings.ToLower(tag), "organic") {
			return true
		}
	}
	return false
}
