package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string

	// Market data provider
	UniversalisBaseURL string
	UniversalisWSURL   string
	DataCenter         string
	ListingDepth       int

	// Price cache
	FetchTimeout         time.Duration
	MaxConcurrentFetches int
	CacheSize            int

	// Engine
	TaxRate       float64
	MaxCraftDepth int

	// Watchlist refresher
	WatchRefreshInterval time.Duration

	// Catalog
	CatalogDir string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		Environment:        getEnv("ENVIRONMENT", "dev"),
		ServiceName:        getEnv("SERVICE_NAME", "ff14-tw-market"),
		Version:            getEnv("VERSION", "dev"),
		UniversalisBaseURL: getEnv("UNIVERSALIS_BASE_URL", DefaultUniversalisBaseURL),
		UniversalisWSURL:   getEnv("UNIVERSALIS_WS_URL", DefaultUniversalisWSURL),
		DataCenter:         getEnv("DATA_CENTER", DefaultDataCenter),
		CatalogDir:         getEnv("CATALOG_DIR", DefaultCatalogDir),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ListingDepth, err = getEnvInt("LISTING_DEPTH", DefaultListingDepth); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentFetches, err = getEnvInt("MAX_CONCURRENT_FETCHES", DefaultMaxConcurrentFetches); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = getEnvInt("CACHE_SIZE", DefaultCacheSize); err != nil {
		return nil, err
	}
	if cfg.MaxCraftDepth, err = getEnvInt("MAX_CRAFT_DEPTH", DefaultMaxCraftDepth); err != nil {
		return nil, err
	}
	if cfg.TaxRate, err = getEnvFloat("MARKET_TAX_RATE", DefaultMarketTaxRate); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getEnvDuration("FETCH_TIMEOUT", DefaultFetchTimeout); err != nil {
		return nil, err
	}
	if cfg.WatchRefreshInterval, err = getEnvDuration("WATCH_REFRESH_INTERVAL", DefaultWatchRefreshInterval); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return d, nil
}
