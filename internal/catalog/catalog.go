package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/width"

	"github.com/dan246/ff14-tw-market/internal/domain"
)

// Search result memo TTLs. Catalog data is immutable, so the cache only
// bounds repeated normalization work on hot queries.
const (
	searchCacheTTL     = 10 * time.Minute
	searchCacheCleanup = 30 * time.Minute
)

// Catalog is the immutable item and recipe snapshot loaded at process start.
// It is re-loadable only via full restart; every component shares it by
// reference and none of them mutates it.
type Catalog struct {
	items           map[int]domain.Item
	recipes         map[int]domain.Recipe
	recipesByOutput map[int][]domain.Recipe

	searchCache *gocache.Cache
}

// New builds the catalog indexes and validates cross-references.
func New(items []domain.Item, recipes []domain.Recipe) (*Catalog, error) {
	if len(items) == 0 {
		return nil, domain.ErrCatalogEmpty
	}

	c := &Catalog{
		items:           make(map[int]domain.Item, len(items)),
		recipes:         make(map[int]domain.Recipe, len(recipes)),
		recipesByOutput: make(map[int][]domain.Recipe),
		searchCache:     gocache.New(searchCacheTTL, searchCacheCleanup),
	}

	for _, item := range items {
		if _, exists := c.items[item.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateItemID, item.ID)
		}
		c.items[item.ID] = item
	}

	for _, r := range recipes {
		if _, exists := c.recipes[r.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRecipeID, r.ID)
		}
		if _, known := c.items[r.OutputItemID]; !known {
			return nil, fmt.Errorf("%w: recipe %d output %d", domain.ErrItemUnknown, r.ID, r.OutputItemID)
		}
		for _, ing := range r.Ingredients {
			if _, known := c.items[ing.ItemID]; !known {
				return nil, fmt.Errorf("%w: recipe %d ingredient %d", domain.ErrItemUnknown, r.ID, ing.ItemID)
			}
		}
		c.recipes[r.ID] = r
		c.recipesByOutput[r.OutputItemID] = append(c.recipesByOutput[r.OutputItemID], r)
	}

	// Deterministic recipe order: alternate-recipe ties resolve to the
	// lowest recipe ID.
	for id := range c.recipesByOutput {
		rs := c.recipesByOutput[id]
		sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
	}

	return c, nil
}

// Item returns the catalog item for id.
func (c *Catalog) Item(id int) (domain.Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// RecipesFor returns the recipes producing itemID, sorted by recipe ID.
// Items with no recipe have no craft option.
func (c *Catalog) RecipesFor(itemID int) []domain.Recipe {
	return c.recipesByOutput[itemID]
}

// Len reports the number of catalog items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Ready reports whether the catalog can serve requests.
func (c *Catalog) Ready() error {
	if len(c.items) == 0 {
		return domain.ErrCatalogEmpty
	}
	return nil
}

// Search finds items whose name contains the query, case-insensitively.
// Full-width CJK input is folded to its narrow form first so "ｇｌｕｅ"
// and "glue" match the same items.
func (c *Catalog) Search(query string, limit int) []domain.Item {
	normalized := normalizeQuery(query)
	if normalized == "" || limit <= 0 {
		return nil
	}

	cacheKey := fmt.Sprintf("%s|%d", normalized, limit)
	if cached, found := c.searchCache.Get(cacheKey); found {
		return cached.([]domain.Item)
	}

	var matches []domain.Item
	for _, item := range c.items {
		if strings.Contains(normalizeQuery(item.Name), normalized) {
			matches = append(matches, item)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	if len(matches) > limit {
		matches = matches[:limit]
	}

	c.searchCache.Set(cacheKey, matches, gocache.DefaultExpiration)
	return matches
}

func normalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(width.Narrow.String(s)))
}
