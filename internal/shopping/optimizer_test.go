package shopping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dan246/ff14-tw-market/internal/domain"
)

// fakeBooks serves static order books keyed by (world, item).
type fakeBooks struct {
	books map[[2]int]*domain.OrderBook
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{books: make(map[[2]int]*domain.OrderBook)}
}

func (f *fakeBooks) GetOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error) {
	if book, ok := f.books[[2]int{worldID, itemID}]; ok {
		return book, nil
	}
	return nil, domain.ErrNoSnapshot
}

func (f *fakeBooks) add(worldID, itemID int, freshness domain.Freshness, listings ...domain.Listing) {
	book := &domain.OrderBook{
		WorldID:   worldID,
		ItemID:    itemID,
		Listings:  listings,
		Freshness: freshness,
	}
	book.SortListings()
	f.books[[2]int{worldID, itemID}] = book
}

const (
	worldA = 4028
	worldB = 4029
)

func TestOptimizeValidatesInput(t *testing.T) {
	o := New(newFakeBooks())

	_, err := o.Optimize(context.Background(), []domain.ShoppingLine{{ItemID: 1, Quantity: 1}}, nil, domain.ModeSplit)
	assert.ErrorIs(t, err, domain.ErrEmptyScope)

	_, err = o.Optimize(context.Background(), []domain.ShoppingLine{{ItemID: 1, Quantity: 0}}, []int{worldA}, domain.ModeSplit)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestOptimizeSplitPicksPerLineMinimum(t *testing.T) {
	books := newFakeBooks()
	// Item 1 cheaper on world A, item 2 cheaper on world B.
	books.add(worldA, 1, domain.FreshnessFresh, domain.Listing{ListingID: "a1", UnitPrice: 10, Quantity: 10})
	books.add(worldB, 1, domain.FreshnessFresh, domain.Listing{ListingID: "b1", UnitPrice: 20, Quantity: 10})
	books.add(worldA, 2, domain.FreshnessFresh, domain.Listing{ListingID: "a2", UnitPrice: 30, Quantity: 10})
	books.add(worldB, 2, domain.FreshnessFresh, domain.Listing{ListingID: "b2", UnitPrice: 5, Quantity: 10})

	o := New(books)
	lines := []domain.ShoppingLine{
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 4},
	}

	result, err := o.Optimize(context.Background(), lines, []int{worldA, worldB}, domain.ModeSplit)
	require.NoError(t, err)

	assert.True(t, result.Feasible)
	assert.Equal(t, int64(2*10+4*5), result.Total)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, worldA, result.Lines[0].WorldID)
	assert.Equal(t, worldB, result.Lines[1].WorldID)
	assert.Equal(t, domain.ConfidenceExact, result.Confidence)
}

func TestOptimizeSingleServerPicksCheapestWorld(t *testing.T) {
	books := newFakeBooks()
	books.add(worldA, 1, domain.FreshnessFresh, domain.Listing{ListingID: "a1", UnitPrice: 10, Quantity: 10})
	books.add(worldB, 1, domain.FreshnessFresh, domain.Listing{ListingID: "b1", UnitPrice: 20, Quantity: 10})
	books.add(worldA, 2, domain.FreshnessFresh, domain.Listing{ListingID: "a2", UnitPrice: 30, Quantity: 10})
	books.add(worldB, 2, domain.FreshnessFresh, domain.Listing{ListingID: "b2", UnitPrice: 5, Quantity: 10})

	o := New(books)
	lines := []domain.ShoppingLine{
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 4},
	}

	result, err := o.Optimize(context.Background(), lines, []int{worldA, worldB}, domain.ModeSingleServer)
	require.NoError(t, err)

	// World A: 20+120=140, world B: 40+20=60.
	assert.True(t, result.Feasible)
	assert.Equal(t, worldB, result.BestWorld)
	assert.Equal(t, int64(60), result.Total)
	assert.Equal(t, int64(140), result.WorldTotals[worldA])
	for _, line := range result.Lines {
		assert.Equal(t, worldB, line.WorldID)
	}
}

func TestOptimizeSplitDominatesSingleServer(t *testing.T) {
	books := newFakeBooks()
	books.add(worldA, 1, domain.FreshnessFresh, domain.Listing{ListingID: "a1", UnitPrice: 10, Quantity: 10})
	books.add(worldB, 1, domain.FreshnessFresh, domain.Listing{ListingID: "b1", UnitPrice: 12, Quantity: 10})
	books.add(worldA, 2, domain.FreshnessFresh, domain.Listing{ListingID: "a2", UnitPrice: 50, Quantity: 10})
	books.add(worldB, 2, domain.FreshnessFresh, domain.Listing{ListingID: "b2", UnitPrice: 8, Quantity: 10})
	books.add(worldA, 3, domain.FreshnessFresh, domain.Listing{ListingID: "a3", UnitPrice: 7, Quantity: 10})
	books.add(worldB, 3, domain.FreshnessFresh, domain.Listing{ListingID: "b3", UnitPrice: 9, Quantity: 10})

	o := New(books)
	lines := []domain.ShoppingLine{
		{ItemID: 1, Quantity: 3},
		{ItemID: 2, Quantity: 2},
		{ItemID: 3, Quantity: 5},
	}
	scope := []int{worldA, worldB}

	split, err := o.Optimize(context.Background(), lines, scope, domain.ModeSplit)
	require.NoError(t, err)
	single, err := o.Optimize(context.Background(), lines, scope, domain.ModeSingleServer)
	require.NoError(t, err)

	require.True(t, split.Feasible)
	require.True(t, single.Feasible)
	assert.LessOrEqual(t, split.Total, single.Total,
		"split is the unconstrained per-line minimum and can never lose")
}

func TestOptimizeSplitFlagsUnfulfillableLine(t *testing.T) {
	books := newFakeBooks()
	books.add(worldA, 1, domain.FreshnessFresh, domain.Listing{ListingID: "a1", UnitPrice: 10, Quantity: 10})
	// Item 2: only 4 units listed anywhere against a request of 10.
	books.add(worldA, 2, domain.FreshnessFresh, domain.Listing{ListingID: "a2", UnitPrice: 5, Quantity: 4})
	books.add(worldB, 2, domain.FreshnessFresh, domain.Listing{ListingID: "b2", UnitPrice: 5, Quantity: 1})

	o := New(books)
	lines := []domain.ShoppingLine{
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 10},
	}

	result, err := o.Optimize(context.Background(), lines, []int{worldA, worldB}, domain.ModeSplit)
	require.NoError(t, err)

	assert.False(t, result.Feasible)
	assert.Equal(t, int64(20), result.Total, "unfulfillable lines are excluded from the total")
	require.Len(t, result.Unfulfilled, 1)
	short := result.Unfulfilled[0]
	assert.Equal(t, 2, short.ItemID)
	assert.Equal(t, 6, short.Shortfall)
	assert.Equal(t, worldA, short.WorldID, "deepest partial fill is reported")
}

func TestOptimizeSingleServerNoFeasiblePlan(t *testing.T) {
	books := newFakeBooks()
	// Each world can cover only one of the two lines.
	books.add(worldA, 1, domain.FreshnessFresh, domain.Listing{ListingID: "a1", UnitPrice: 10, Quantity: 10})
	books.add(worldB, 2, domain.FreshnessFresh, domain.Listing{ListingID: "b2", UnitPrice: 10, Quantity: 10})

	o := New(books)
	lines := []domain.ShoppingLine{
		{ItemID: 1, Quantity: 1},
		{ItemID: 2, Quantity: 1},
	}

	result, err := o.Optimize(context.Background(), lines, []int{worldA, worldB}, domain.ModeSingleServer)
	require.NoError(t, err)

	assert.False(t, result.Feasible)
	assert.Zero(t, result.BestWorld)
	require.Len(t, result.Shortfalls, 2)
	for _, s := range result.Shortfalls {
		assert.Equal(t, 1, s.MissingLines)
		assert.Equal(t, 1, s.MissingUnits)
	}
}

func TestOptimizeMissingBookLowersConfidence(t *testing.T) {
	books := newFakeBooks()
	books.add(worldA, 1, domain.FreshnessFresh, domain.Listing{ListingID: "a1", UnitPrice: 10, Quantity: 10})
	// No book at all on world B.

	o := New(books)
	result, err := o.Optimize(context.Background(),
		[]domain.ShoppingLine{{ItemID: 1, Quantity: 1}},
		[]int{worldA, worldB}, domain.ModeSplit)
	require.NoError(t, err)

	assert.True(t, result.Feasible)
	assert.Equal(t, domain.ConfidenceApproximate, result.Confidence)
}

func TestOptimizeEmptyListIsTriviallyFeasible(t *testing.T) {
	o := New(newFakeBooks())
	result, err := o.Optimize(context.Background(), nil, []int{worldA}, domain.ModeSplit)
	require.NoError(t, err)

	assert.True(t, result.Feasible)
	assert.Zero(t, result.Total)
	assert.Empty(t, result.Lines)
}
