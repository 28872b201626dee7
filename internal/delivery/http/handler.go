package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealscout/backend/internal/domain"
	"github.com/dealscout/backend/internal/usecase"
)

// ScanService is the slice of the aggregator the handlers need.
type ScanService interface {
	Resolve(ctx context.Context, code string, coord domain.Coordinate, radiusMiles float64) domain.ResolveResult
	Search(ctx context.Context, term string, coord domain.Coordinate, radiusMiles float64) []domain.Product
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scanService        ScanService
	defaultRadiusMiles float64
}

// NewHandler creates a new HTTP handler
func NewHandler(scanService ScanService, defaultRadiusMiles float64) *Handler {
	return &Handler{
		scanService:        scanService,
		defaultRadiusMiles: defaultRadiusMiles,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dealscout-backend",
		"version": "1.0.0",
	})
}

// resolveRequest is the inbound body for a scan resolution. Latitude and
// longitude are not tagged required: 0 is a legal coordinate.
type resolveRequest struct {
	Code        string  `json:"code" binding:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	RadiusMiles float64 `json:"radiusMiles"`
}

// searchRequest is the inbound body for a free-text search.
type searchRequest struct {
	Term        string  `json:"term" binding:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	RadiusMiles float64 `json:"radiusMiles"`
}

// ResolveScan resolves a scanned barcode to a canonical item plus the
// sorted competing offers. A code no configured provider carries yields
// 200 with a null item: "not found" is a result here, not a fault.
func (h *Handler) ResolveScan(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	code, err := usecase.NormalizeCode(req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product code"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	coord := domain.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	result := h.scanService.Resolve(c.Request.Context(), code, coord, h.radius(req.RadiusMiles))

	c.JSON(http.StatusOK, result)
}

// SearchProducts runs a free-text search across all configured providers.
func (h *Handler) SearchProducts(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	coord := domain.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	results := h.scanService.Search(c.Request.Context(), req.Term, coord, h.radius(req.RadiusMiles))

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// radius substitutes the configured default when the caller sent none.
func (h *Handler) radius(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	return h.defaultRadiusMiles
}
