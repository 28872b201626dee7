package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Kroger     KrogerConfig
	ShopWise   ShopWiseConfig
	Aggregator AggregatorConfig
	Logging    LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// KrogerConfig holds the OAuth provider's secrets and endpoints. ClientID
// and ClientSecret are both optional; leaving either empty disables the
// provider rather than failing configuration load.
type KrogerConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BaseURL      string `mapstructure:"base_url"`
	TokenURL     string `mapstructure:"token_url"`
}

// Enabled reports whether both required secrets are present.
func (c KrogerConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ShopWiseConfig holds the affiliate-key provider's secrets and endpoint.
// PublisherID is the only required secret; APIKey is an optional secondary
// key attached as a request header when present.
type ShopWiseConfig struct {
	PublisherID string `mapstructure:"publisher_id"`
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
}

// Enabled reports whether the required publisher id is present.
func (c ShopWiseConfig) Enabled() bool {
	return c.PublisherID != ""
}

// AggregatorConfig holds resolution pipeline tuning
type AggregatorConfig struct {
	DefaultRadiusMiles float64 `mapstructure:"default_radius_miles"`
	// DealLookupConcurrency bounds concurrent per-store competitor
	// lookups within one provider. 1 preserves the historical strictly
	// sequential behavior.
	DealLookupConcurrency int `mapstructure:"deal_lookup_concurrency"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dealscout/")

	// Environment variable settings
	v.SetEnvPrefix("DEALSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Provider defaults. Secrets default to empty so viper registers the
	// keys for env binding; empty means "provider not configured".
	v.SetDefault("kroger.client_id", "")
	v.SetDefault("kroger.client_secret", "")
	v.SetDefault("kroger.base_url", "https://api.kroger.com")
	v.SetDefault("kroger.token_url", "https://api.kroger.com/v1/connect/oauth2/token")
	v.SetDefault("shopwise.publisher_id", "")
	v.SetDefault("shopwise.api_key", "")
	v.SetDefault("shopwise.base_url", "https://api.shopwise.io")

	// Aggregator defaults
	v.SetDefault("aggregator.default_radius_miles", 10.0)
	v.SetDefault("aggregator.deal_lookup_concurrency", 1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// validate validates the configuration. Missing provider secrets are not an
// error: a provider without secrets is simply not configured for this
// process, and the aggregator skips it.
func validate(config *Config) error {
	if config.Aggregator.DefaultRadiusMiles <= 0 {
		return fmt.Errorf("default radius must be positive, got: %v", config.Aggregator.DefaultRadiusMiles)
	}

	if config.Aggregator.DealLookupConcurrency < 1 {
		return fmt.Errorf("deal lookup concurrency must be >= 1, got: %d", config.Aggregator.DealLookupConcurrency)
	}

	return nil
}
