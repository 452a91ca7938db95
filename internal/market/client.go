package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// Client fetches market board data over the provider's REST API.
type Client struct {
	baseURL    string
	listings   int
	httpClient *http.Client
}

// NewClient creates a market data client. listings bounds how many listings
// each order book fetch requests; <= 0 falls back to DefaultListings.
func NewClient(baseURL string, listings int) *Client {
	if listings <= 0 {
		listings = DefaultListings
	}
	return &Client{
		baseURL:  baseURL,
		listings: listings,
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
	}
}

// wireListing is one listing as the provider serializes it.
type wireListing struct {
	ListingID      string `json:"listingId"`
	PricePerUnit   int64  `json:"pricePerUnit"`
	Quantity       int    `json:"quantity"`
	HQ             bool   `json:"hq"`
	RetainerName   string `json:"retainerName"`
	LastReviewTime int64  `json:"lastReviewTime"`
}

// wireBook is the per-world market response.
type wireBook struct {
	ItemID         int           `json:"itemID"`
	WorldID        int           `json:"worldID"`
	LastUploadTime int64         `json:"lastUploadTime"` // unix milliseconds
	Listings       []wireListing `json:"listings"`
}

// FetchOrderBook retrieves the current order book for one item on one world.
// It satisfies the price cache's upstream fetcher contract.
func (c *Client) FetchOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error) {
	url := fmt.Sprintf("%s/%d/%d?listings=%d", c.baseURL, worldID, itemID, c.listings)

	var wire wireBook
	if err := c.getJSON(ctx, url, &wire); err != nil {
		return nil, fmt.Errorf("fetch order book world=%d item=%d: %w", worldID, itemID, err)
	}

	book := &domain.OrderBook{
		WorldID:       worldID,
		ItemID:        itemID,
		Listings:      make([]domain.Listing, 0, len(wire.Listings)),
		LastUpdatedAt: time.UnixMilli(wire.LastUploadTime),
	}
	for _, l := range wire.Listings {
		book.Listings = append(book.Listings, toListing(l, worldID, itemID))
	}
	book.SortListings()

	logger.FromContext(ctx).Debug("Fetched order book",
		"world_id", worldID, "item_id", itemID, "listings", len(book.Listings))

	return book, nil
}

// recentlyUpdated is the provider's recently-updated stats payload.
type recentlyUpdated struct {
	Items []int `json:"items"`
}

// FetchRecentlyUpdated returns item IDs with recent market activity on one
// world, newest first. These feed the profit scan as candidates.
func (c *Client) FetchRecentlyUpdated(ctx context.Context, worldID, limit int) ([]int, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	url := c.baseURL + "/extra/stats/recently-updated?world=" + strconv.Itoa(worldID)

	var wire recentlyUpdated
	if err := c.getJSON(ctx, url, &wire); err != nil {
		return nil, fmt.Errorf("fetch recently updated world=%d: %w", worldID, err)
	}

	if len(wire.Items) > limit {
		wire.Items = wire.Items[:limit]
	}
	return wire.Items, nil
}

// taxRates is the provider's per-city tax payload.
type taxRates map[string]int

// FetchMaxTaxRate returns the highest market tax rate in effect on a world,
// as a fraction. Revenue estimates use the worst case.
func (c *Client) FetchMaxTaxRate(ctx context.Context, worldID int) (float64, error) {
	url := c.baseURL + "/tax-rates?world=" + strconv.Itoa(worldID)

	var wire taxRates
	if err := c.getJSON(ctx, url, &wire); err != nil {
		return 0, fmt.Errorf("fetch tax rates world=%d: %w", worldID, err)
	}

	max := 0
	for _, rate := range wire {
		if rate > max {
			max = rate
		}
	}
	return float64(max) / 100, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func toListing(l wireListing, worldID, itemID int) domain.Listing {
	quality := domain.QualityNQ
	if l.HQ {
		quality = domain.QualityHQ
	}
	return domain.Listing{
		ListingID:  l.ListingID,
		WorldID:    worldID,
		ItemID:     itemID,
		Quality:    quality,
		UnitPrice:  l.PricePerUnit,
		Quantity:   l.Quantity,
		Seller:     l.RetainerName,
		ObservedAt: time.Unix(l.LastReviewTime, 0),
	}
}
