package domain

import (
	"sort"
	"time"
)

// Listing is one active sell offer for an item on one world.
type Listing struct {
	ListingID string    `json:"listing_id"`
	WorldID   int       `json:"world_id"`
	ItemID    int       `json:"item_id"`
	Quality   Quality   `json:"quality"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Seller    string    `json:"seller,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// Freshness is a coarse age-based classification of an order book snapshot.
type Freshness string

const (
	FreshnessFresh   Freshness = "fresh"
	FreshnessRecent  Freshness = "recent"
	FreshnessStale   Freshness = "stale"
	FreshnessExpired Freshness = "expired"
)

// Staleness tier boundaries.
const (
	FreshAge   = 5 * time.Second
	RecentAge  = 30 * time.Second
	ExpiredAge = 120 * time.Second
)

// ClassifyFreshness maps a snapshot age onto its staleness tier.
func ClassifyFreshness(age time.Duration) Freshness {
	switch {
	case age < FreshAge:
		return FreshnessFresh
	case age < RecentAge:
		return FreshnessRecent
	case age < ExpiredAge:
		return FreshnessStale
	default:
		return FreshnessExpired
	}
}

// Degraded reports whether results derived from this tier must be marked
// approximate.
func (f Freshness) Degraded() bool {
	return f == FreshnessStale || f == FreshnessExpired
}

// OrderBook is the snapshot of active listings for one item on one world,
// sorted ascending by unit price. The price cache replaces snapshots
// atomically and never edits them in place, so holders of an *OrderBook
// always see a complete, consistent state.
type OrderBook struct {
	WorldID       int       `json:"world_id"`
	ItemID        int       `json:"item_id"`
	Listings      []Listing `json:"listings"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
	Freshness     Freshness `json:"freshness"`
}

// SortListings orders the book ascending by unit price, breaking ties by
// listing ID so snapshots are deterministic.
func (b *OrderBook) SortListings() {
	sort.Slice(b.Listings, func(i, j int) bool {
		if b.Listings[i].UnitPrice != b.Listings[j].UnitPrice {
			return b.Listings[i].UnitPrice < b.Listings[j].UnitPrice
		}
		return b.Listings[i].ListingID < b.Listings[j].ListingID
	})
}

// CostToFill greedily consumes listings in ascending price order until the
// requested quantity is satisfied or the book is exhausted. Partial listing
// consumption is allowed: taking 3 units of a 10-stack pays for exactly 3.
// It returns the total cost of the consumed units and how many were filled.
func (b *OrderBook) CostToFill(quantity int) (total int64, filled int) {
	remaining := quantity
	for _, l := range b.Listings {
		if remaining <= 0 {
			break
		}
		take := l.Quantity
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}
		total += l.UnitPrice * int64(take)
		remaining -= take
	}
	return total, quantity - remaining
}

// LowestUnitPrice returns the cheapest listed unit price, or 0 when the book
// is empty.
func (b *OrderBook) LowestUnitPrice() int64 {
	if len(b.Listings) == 0 {
		return 0
	}
	return b.Listings[0].UnitPrice
}

// MarketEvent identifies the kind of push update delivered by the market
// data provider.
type MarketEvent string

const (
	EventListingsAdd    MarketEvent = "listings/add"
	EventListingsRemove MarketEvent = "listings/remove"
	EventSnapshot       MarketEvent = "snapshot"
)

// MarketUpdate is one externally-delivered push event for a (world, item)
// order book. The engine consumes these through the price cache regardless
// of the transport that delivered them.
type MarketUpdate struct {
	Event    MarketEvent `json:"event"`
	WorldID  int         `json:"world_id"`
	ItemID   int         `json:"item_id"`
	Listings []Listing   `json:"listings"`
	At       time.Time   `json:"at"`
}
