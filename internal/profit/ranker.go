package profit

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
	"github.com/dan246/ff14-tw-market/internal/metrics"
)

// workerLimit bounds concurrent candidate evaluations; each one fans out
// into cache lookups of its own.
const workerLimit = 5

// Resolver answers craft-vs-buy for one candidate.
type Resolver interface {
	Resolve(ctx context.Context, itemID, quantity int, scope []int) (*domain.CostNode, error)
}

// BookSource supplies order book snapshots, normally the price cache.
type BookSource interface {
	GetOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error)
}

// Catalog is the immutable item/recipe view.
type Catalog interface {
	Item(id int) (domain.Item, bool)
	RecipesFor(itemID int) []domain.Recipe
}

// Ranker scans candidate items for craft-profit margin under the market tax.
type Ranker struct {
	resolver Resolver
	books    BookSource
	catalog  Catalog
	taxRate  float64
}

// New creates a profit ranker with a fixed market tax rate.
func New(resolver Resolver, books BookSource, catalog Catalog, taxRate float64) *Ranker {
	return &Ranker{
		resolver: resolver,
		books:    books,
		catalog:  catalog,
		taxRate:  taxRate,
	}
}

// Rank evaluates the candidates, typically recently-traded items, and
// returns them ordered by descending margin. Items without a craft option,
// items that cannot be priced, and items with non-positive margin are
// dropped. limit <= 0 means no limit.
func (r *Ranker) Rank(ctx context.Context, candidateIDs []int, scope []int, limit int) ([]domain.ProfitEntry, error) {
	if len(scope) == 0 {
		return nil, domain.ErrEmptyScope
	}

	metrics.ProfitScans.Inc()
	log := logger.FromContext(ctx)

	var mu sync.Mutex
	var entries []domain.ProfitEntry

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit)

	for _, itemID := range candidateIDs {
		g.Go(func() error {
			entry, ok := r.evaluate(gctx, itemID, scope)
			if !ok {
				return nil
			}
			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Margin != entries[j].Margin {
			return entries[i].Margin > entries[j].Margin
		}
		return entries[i].ItemID < entries[j].ItemID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	log.Debug("Profit scan finished",
		"candidates", len(candidateIDs), "ranked", len(entries))

	return entries, nil
}

// evaluate prices one candidate. The margin compares post-tax revenue at
// the current best sell-side price against the resolver's acquisition cost.
func (r *Ranker) evaluate(ctx context.Context, itemID int, scope []int) (domain.ProfitEntry, bool) {
	item, known := r.catalog.Item(itemID)
	if !known {
		return domain.ProfitEntry{}, false
	}
	if len(r.catalog.RecipesFor(itemID)) == 0 {
		// No craft option, nothing to rank.
		return domain.ProfitEntry{}, false
	}

	node, err := r.resolver.Resolve(ctx, itemID, 1, scope)
	if err != nil || !node.Feasible() {
		return domain.ProfitEntry{}, false
	}

	sellPrice, degraded, ok := r.bestSellPrice(ctx, itemID, scope)
	if !ok {
		return domain.ProfitEntry{}, false
	}

	revenue := int64(float64(sellPrice) * (1 - r.taxRate))
	margin := revenue - node.TotalCost
	if margin <= 0 {
		return domain.ProfitEntry{}, false
	}

	entry := domain.ProfitEntry{
		ItemID:     itemID,
		Name:       item.Name,
		CraftJob:   item.JobCategory,
		CraftCost:  node.TotalCost,
		SellPrice:  sellPrice,
		Revenue:    revenue,
		Margin:     margin,
		Confidence: node.Confidence,
	}
	if node.TotalCost > 0 {
		entry.MarginRate = float64(margin) / float64(node.TotalCost) * 100
	}
	if degraded {
		entry.Confidence = domain.ConfidenceApproximate
	}
	return entry, true
}

// bestSellPrice is the lowest listed unit price across the scope, the
// price a crafter would undercut to sell.
func (r *Ranker) bestSellPrice(ctx context.Context, itemID int, scope []int) (price int64, degraded, ok bool) {
	for _, worldID := range scope {
		book, err := r.books.GetOrderBook(ctx, worldID, itemID)
		if err != nil {
			degraded = true
			continue
		}
		if book.Freshness.Degraded() {
			degraded = true
		}
		lowest := book.LowestUnitPrice()
		if lowest == 0 {
			continue
		}
		if !ok || lowest < price {
			price = lowest
			ok = true
		}
	}
	return price, degraded, ok
}
