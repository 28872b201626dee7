package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/dealscout/backend/config"
	httpDelivery "github.com/dealscout/backend/internal/delivery/http"
	"github.com/dealscout/backend/internal/domain"
	"github.com/dealscout/backend/internal/infrastructure/kroger"
	"github.com/dealscout/backend/internal/infrastructure/logger"
	"github.com/dealscout/backend/internal/infrastructure/shopwise"
	"github.com/dealscout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zlog.Sync()

	zlog.Info("starting dealscout backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	// Providers in precedence order: a provider whose secrets are absent
	// is constructed anyway and skips itself at authentication time, so
	// the set of configured providers is decided per call.
	providers := []domain.ProviderClient{
		kroger.NewClient(cfg.Kroger, zlog),
		shopwise.NewClient(cfg.ShopWise, zlog),
	}
	zlog.Info("providers configured",
		zap.Bool("kroger", cfg.Kroger.Enabled()),
		zap.Bool("shopwise", cfg.ShopWise.Enabled()))

	aggregator := usecase.NewAggregatorService(
		providers,
		usecase.AggregatorConfig{
			DealLookupConcurrency: cfg.Aggregator.DealLookupConcurrency,
		},
		zlog,
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(aggregator, cfg.Aggregator.DefaultRadiusMiles)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
