package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dealscout/backend/config"
	"github.com/dealscout/backend/internal/domain"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// fakeScanService returns canned resolution results and records the
// arguments the handler passed down.
type fakeScanService struct {
	result     domain.ResolveResult
	searchHits []domain.Product
	gotCode    string
	gotTerm    string
	gotRadius  float64
	gotCoord   domain.Coordinate
}

func (f *fakeScanService) Resolve(ctx context.Context, code string, coord domain.Coordinate, radiusMiles float64) domain.ResolveResult {
	f.gotCode = code
	f.gotCoord = coord
	f.gotRadius = radiusMiles
	return f.result
}

func (f *fakeScanService) Search(ctx context.Context, term string, coord domain.Coordinate, radiusMiles float64) []domain.Product {
	f.gotTerm = term
	f.gotCoord = coord
	f.gotRadius = radiusMiles
	return f.searchHits
}

func setupTestRouter(svc ScanService) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}

	handler := NewHandler(svc, 10)
	return SetupRouter(cfg, handler)
}

func postJSON(router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(&fakeScanService{})

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
	if response["service"] != "dealscout-backend" {
		t.Errorf("service = %v, want dealscout-backend", response["service"])
	}
}

func TestResolveScanEndpoint(t *testing.T) {
	t.Run("resolves a scan and returns item with deals", func(t *testing.T) {
		svc := &fakeScanService{
			result: domain.ResolveResult{
				Item: &domain.Product{
					Code:    "041303002537",
					Name:    "Whole Milk",
					Price:   3.29,
					Store:   "Kroger Midtown",
					Verdict: domain.VerdictSoSo,
				},
				Deals: []domain.Recommendation{
					{Code: "041303002537", Name: "Whole Milk", Price: 3.19, Store: "FoodMart Central"},
				},
			},
		}
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/scan/resolve",
			`{"code":"0-41303-00253-7","latitude":39.1,"longitude":-84.5,"radiusMiles":5}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		// Separators stripped before the aggregator sees the code
		if svc.gotCode != "041303002537" {
			t.Errorf("resolved code = %q, want normalized 041303002537", svc.gotCode)
		}
		if svc.gotRadius != 5 {
			t.Errorf("radius = %v, want 5", svc.gotRadius)
		}

		var response domain.ResolveResult
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Item == nil || response.Item.Verdict != domain.VerdictSoSo {
			t.Errorf("Item = %v, want verdict %q", response.Item, domain.VerdictSoSo)
		}
		if len(response.Deals) != 1 {
			t.Errorf("Deals = %v, want one offer", response.Deals)
		}
	})

	t.Run("not found is 200 with null item", func(t *testing.T) {
		svc := &fakeScanService{
			result: domain.ResolveResult{Item: nil, Deals: []domain.Recommendation{}},
		}
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/scan/resolve",
			`{"code":"041303002537","latitude":39.1,"longitude":-84.5}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if string(response["item"]) != "null" {
			t.Errorf("item = %s, want null", response["item"])
		}
	})

	t.Run("missing radius falls back to the configured default", func(t *testing.T) {
		svc := &fakeScanService{}
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/scan/resolve",
			`{"code":"041303002537","latitude":39.1,"longitude":-84.5}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if svc.gotRadius != 10 {
			t.Errorf("radius = %v, want default 10", svc.gotRadius)
		}
	})

	t.Run("invalid body is 400", func(t *testing.T) {
		router := setupTestRouter(&fakeScanService{})

		w := postJSON(router, "/api/v1/scan/resolve", `{"latitude":39.1}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid barcode is 400", func(t *testing.T) {
		router := setupTestRouter(&fakeScanService{})

		w := postJSON(router, "/api/v1/scan/resolve",
			`{"code":"not-a-barcode","latitude":39.1,"longitude":-84.5}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestSearchProductsEndpoint(t *testing.T) {
	t.Run("returns provider-ordered results", func(t *testing.T) {
		svc := &fakeScanService{
			searchHits: []domain.Product{
				{Code: "1", Name: "Whole Milk", Price: 3.29},
				{Code: "2", Name: "Organic Oat Milk", Price: 4.99},
			},
		}
		router := setupTestRouter(svc)

		w := postJSON(router, "/api/v1/scan/search",
			`{"term":"milk","latitude":39.1,"longitude":-84.5}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if svc.gotTerm != "milk" {
			t.Errorf("term = %q, want milk", svc.gotTerm)
		}

		var response struct {
			Results []domain.Product `json:"results"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(response.Results) != 2 {
			t.Errorf("Results = %v, want 2 products", response.Results)
		}
	})

	t.Run("missing term is 400", func(t *testing.T) {
		router := setupTestRouter(&fakeScanService{})

		w := postJSON(router, "/api/v1/scan/search", `{"latitude":39.1}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
