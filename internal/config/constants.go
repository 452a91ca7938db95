package config

import (
	"sort"
	"time"
)

// DefaultDataCenter is the Traditional-Chinese data center the engine serves.
const DefaultDataCenter = "陸行鳥"

// Worlds maps the data center's world IDs to their display names.
// The roster is fixed per data center and only changes with game patches.
var Worlds = map[int]string{
	4028: "伊弗利特",
	4029: "迦樓羅",
	4030: "利維坦",
	4031: "鳳凰",
	4032: "奧汀",
	4033: "巴哈姆特",
	4034: "拉姆",
	4035: "泰坦",
}

// WorldIDs returns the full roster sorted ascending, the default scope when
// a request names no worlds.
func WorldIDs() []int {
	ids := make([]int, 0, len(Worlds))
	for id := range Worlds {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// API endpoints
const (
	DefaultUniversalisBaseURL = "https://universalis.app/api/v2"
	DefaultUniversalisWSURL   = "wss://universalis.app/api/ws"
)

// Engine defaults
const (
	// DefaultMarketTaxRate is the market board cut at a mid-level retainer.
	DefaultMarketTaxRate = 0.03

	// DefaultMaxCraftDepth bounds recursive craft expansion for API calls.
	DefaultMaxCraftDepth = 3

	// DefaultListingDepth is how many listings per order book are requested
	// upstream; cost resolution reasons only about this much depth.
	DefaultListingDepth = 20

	DefaultFetchTimeout         = 15 * time.Second
	DefaultMaxConcurrentFetches = 5
	DefaultCacheSize            = 4096
	DefaultWatchRefreshInterval = 60 * time.Second
)

// Catalog config paths
const (
	DefaultCatalogDir = "configs/catalog"
	ItemsFileName     = "items.json"
	RecipesFileName   = "recipes.json"
)
