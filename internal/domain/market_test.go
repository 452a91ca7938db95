package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFreshness(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want Freshness
	}{
		{"zero age is fresh", 0, FreshnessFresh},
		{"just under fresh boundary", FreshAge - time.Millisecond, FreshnessFresh},
		{"fresh boundary is recent", FreshAge, FreshnessRecent},
		{"just under recent boundary", RecentAge - time.Millisecond, FreshnessRecent},
		{"recent boundary is stale", RecentAge, FreshnessStale},
		{"just under expiry", ExpiredAge - time.Millisecond, FreshnessStale},
		{"expiry boundary is expired", ExpiredAge, FreshnessExpired},
		{"ancient snapshot is expired", time.Hour, FreshnessExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFreshness(tt.age))
		})
	}
}

func TestFreshnessDegraded(t *testing.T) {
	assert.False(t, FreshnessFresh.Degraded())
	assert.False(t, FreshnessRecent.Degraded())
	assert.True(t, FreshnessStale.Degraded())
	assert.True(t, FreshnessExpired.Degraded())
}

func TestCostToFillPartialConsumption(t *testing.T) {
	// Buying 4 out of [2@10, 5@15] must consume the cheap stack fully and
	// two units of the next one: 10*2 + 15*2 = 50, not 15*4.
	book := &OrderBook{
		Listings: []Listing{
			{ListingID: "a", UnitPrice: 10, Quantity: 2},
			{ListingID: "b", UnitPrice: 15, Quantity: 5},
		},
	}

	total, filled := book.CostToFill(4)
	assert.Equal(t, int64(50), total)
	assert.Equal(t, 4, filled)
}

func TestCostToFillExhaustsBook(t *testing.T) {
	book := &OrderBook{
		Listings: []Listing{
			{ListingID: "a", UnitPrice: 100, Quantity: 3},
			{ListingID: "b", UnitPrice: 120, Quantity: 1},
		},
	}

	total, filled := book.CostToFill(10)
	assert.Equal(t, int64(100*3+120), total)
	assert.Equal(t, 4, filled, "only 4 units listed, shortfall must be visible to the caller")
}

func TestCostToFillEmptyBook(t *testing.T) {
	book := &OrderBook{}
	total, filled := book.CostToFill(5)
	assert.Zero(t, total)
	assert.Zero(t, filled)
}

func TestSortListingsDeterministic(t *testing.T) {
	book := &OrderBook{
		Listings: []Listing{
			{ListingID: "z", UnitPrice: 20, Quantity: 1},
			{ListingID: "b", UnitPrice: 10, Quantity: 1},
			{ListingID: "a", UnitPrice: 10, Quantity: 1},
		},
	}
	book.SortListings()

	assert.Equal(t, "a", book.Listings[0].ListingID)
	assert.Equal(t, "b", book.Listings[1].ListingID)
	assert.Equal(t, "z", book.Listings[2].ListingID)
	assert.Equal(t, int64(10), book.LowestUnitPrice())
}
