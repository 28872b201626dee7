package shopwise

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealscout/backend/internal/domain"
)

func price(v float64) *float64 { return &v }

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name    string
		pricing rawPricing
		want    float64
	}{
		{"sale wins over list and msrp", rawPricing{SalePrice: price(2.49), ListPrice: price(2.99), MSRP: price(3.49)}, 2.49},
		{"list wins over msrp", rawPricing{ListPrice: price(2.99), MSRP: price(3.49)}, 2.99},
		{"msrp as last resort", rawPricing{MSRP: price(3.49)}, 3.49},
		{"no recognized price field coerces to zero", rawPricing{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPrice(tt.pricing))
		})
	}
}

func TestIsOrganic(t *testing.T) {
	assert.True(t, isOrganic(rawProduct{Title: "Organic Whole Milk"}))
	assert.True(t, isOrganic(rawProduct{Description: "A certified organic dairy product"}))
	assert.True(t, isOrganic(rawProduct{Tags: []string{"dairy", "USDA Organic"}}))
	assert.False(t, isOrganic(rawProduct{Title: "Whole Milk", Tags: []string{"dairy"}}))
}

func TestMapProduct(t *testing.T) {
	raw := rawProduct{
		SKU:      "SW-88213",
		Title:    "Whole Milk Gallon",
		Brand:    "DairyPure",
		ImageURL: "http://img/milk",
		Pricing:  rawPricing{SalePrice: price(3.09)},
	}
	store := domain.StoreLocation{
		LocationID: "st-204",
		Name:       "FoodMart Central",
		Location:   domain.Coordinate{Latitude: 39.1, Longitude: -84.5},
	}

	product := mapProduct(raw, store)

	assert.Equal(t, "SW-88213", product.Code)
	assert.Equal(t, "Whole Milk Gallon", product.Name)
	assert.Equal(t, 3.09, product.Price)
	assert.Equal(t, "FoodMart Central", product.Store)
	assert.NotNil(t, product.Location)
}

func TestMapStores(t *testing.T) {
	payload := storesResponse{Stores: []rawStore{
		{StoreID: "st-204", Name: "FoodMart Central", Latitude: 39.1, Longitude: -84.5, PostalCode: "45202"},
		{StoreID: "st-310", Name: "FoodMart East"},
	}}

	stores := mapStores(payload)

	assert.Len(t, stores, 2)
	assert.Equal(t, "st-204", stores[0].LocationID, "provider order preserved")
	assert.Equal(t, "45202", stores[0].PostalCode)
}
