package config

import "fmt"

// Validate checks the configuration for values that would break the engine
// at runtime rather than at startup.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in 1-65535, got %d", c.Port)
	}
	if c.TaxRate < 0 || c.TaxRate >= 1 {
		return fmt.Errorf("MARKET_TAX_RATE must be in [0,1), got %v", c.TaxRate)
	}
	if c.MaxConcurrentFetches < 1 {
		return fmt.Errorf("MAX_CONCURRENT_FETCHES must be at least 1, got %d", c.MaxConcurrentFetches)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("CACHE_SIZE must be at least 1, got %d", c.CacheSize)
	}
	if c.ListingDepth < 1 {
		return fmt.Errorf("LISTING_DEPTH must be at least 1, got %d", c.ListingDepth)
	}
	if c.MaxCraftDepth < 0 {
		return fmt.Errorf("MAX_CRAFT_DEPTH must not be negative, got %d", c.MaxCraftDepth)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %v", c.FetchTimeout)
	}
	if c.UniversalisBaseURL == "" {
		return fmt.Errorf("UNIVERSALIS_BASE_URL must not be empty")
	}
	return nil
}
