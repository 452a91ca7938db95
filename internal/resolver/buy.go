package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// buyOutcome is the cheapest full purchase across the scope, or the
// best-effort partial fill when no world has enough depth.
type buyOutcome struct {
	worldID  int
	total    int64
	filled   int
	feasible bool
	degraded bool
}

// evaluateBuy prices a direct market purchase of quantity units on every
// scoped world. Books are fetched concurrently; the outcome is computed
// only after every fetch has settled, so the decision never mixes one fresh
// and one not-yet-attempted world.
//
// A world that cannot fully satisfy the quantity is unusable (infinite)
// for the feasible comparison; ties between equal totals go to the lowest
// world ID. A fetch failure counts as an empty book and lowers confidence
// instead of failing the resolution.
func (r *Resolver) evaluateBuy(ctx context.Context, st *state, itemID, quantity int) buyOutcome {
	books := make([]*domain.OrderBook, len(st.scope))

	g, gctx := errgroup.WithContext(ctx)
	for i, worldID := range st.scope {
		g.Go(func() error {
			book, err := r.books.GetOrderBook(gctx, worldID, itemID)
			if err != nil {
				logger.FromContext(ctx).Warn("Order book unavailable",
					"world_id", worldID, "item_id", itemID, "error", err)
				return nil
			}
			books[i] = book
			return nil
		})
	}
	// Fetch closures never return errors; Wait is a barrier.
	_ = g.Wait()

	outcome := buyOutcome{}
	bestPartialFilled := -1

	for i, worldID := range st.scope {
		book := books[i]
		if book == nil {
			// Missing snapshot: unusable world, degraded answer.
			outcome.degraded = true
			continue
		}
		if book.Freshness.Degraded() {
			outcome.degraded = true
		}

		total, filled := book.CostToFill(quantity)
		if filled == quantity {
			if !outcome.feasible || total < outcome.total {
				outcome.feasible = true
				outcome.worldID = worldID
				outcome.total = total
				outcome.filled = filled
			}
			continue
		}
		if !outcome.feasible && filled > bestPartialFilled {
			bestPartialFilled = filled
			outcome.worldID = worldID
			outcome.total = total
			outcome.filled = filled
		}
	}

	return outcome
}

// prefetchIngredients warms the cache for every (ingredient, world) pair of
// a recipe in one concurrent fan-out. Failures are ignored here; the
// per-node buy evaluation deals with missing books.
func (r *Resolver) prefetchIngredients(ctx context.Context, st *state, recipe *domain.Recipe) {
	g, gctx := errgroup.WithContext(ctx)
	for _, ing := range recipe.Ingredients {
		for _, worldID := range st.scope {
			g.Go(func() error {
				_, _ = r.books.GetOrderBook(gctx, worldID, ing.ItemID)
				return nil
			})
		}
	}
	_ = g.Wait()
}
