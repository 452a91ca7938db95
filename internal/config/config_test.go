package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DefaultDataCenter, cfg.DataCenter)
	assert.Equal(t, DefaultMarketTaxRate, cfg.TaxRate)
	assert.Equal(t, DefaultMaxConcurrentFetches, cfg.MaxConcurrentFetches)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MARKET_TAX_RATE", "0.05")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("MAX_CONCURRENT_FETCHES", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 0.05, cfg.TaxRate)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2, cfg.MaxConcurrentFetches)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = 0 }, "PORT"},
		{"tax rate at one", func(c *Config) { c.TaxRate = 1.0 }, "MARKET_TAX_RATE"},
		{"negative tax rate", func(c *Config) { c.TaxRate = -0.1 }, "MARKET_TAX_RATE"},
		{"zero fetchers", func(c *Config) { c.MaxConcurrentFetches = 0 }, "MAX_CONCURRENT_FETCHES"},
		{"zero cache", func(c *Config) { c.CacheSize = 0 }, "CACHE_SIZE"},
		{"negative depth", func(c *Config) { c.MaxCraftDepth = -1 }, "MAX_CRAFT_DEPTH"},
		{"empty base url", func(c *Config) { c.UniversalisBaseURL = "" }, "UNIVERSALIS_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:                 8080,
				TaxRate:              0.03,
				MaxConcurrentFetches: 5,
				CacheSize:            100,
				ListingDepth:         20,
				MaxCraftDepth:        3,
				FetchTimeout:         time.Second,
				UniversalisBaseURL:   DefaultUniversalisBaseURL,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWorldIDsSorted(t *testing.T) {
	ids := WorldIDs()
	require.Len(t, ids, len(Worlds))
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}
