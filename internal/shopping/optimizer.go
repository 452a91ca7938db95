package shopping

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
	"github.com/dan246/ff14-tw-market/internal/metrics"
)

// BookSource supplies order book snapshots, normally the price cache.
type BookSource interface {
	GetOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error)
}

// Optimizer computes the cheapest fulfillment of a multi-item shopping list
// across a world scope.
type Optimizer struct {
	books BookSource
}

// New creates a shopping list optimizer over the given book source.
func New(books BookSource) *Optimizer {
	return &Optimizer{books: books}
}

// lineCost is the greedy fill of one line on one world.
type lineCost struct {
	total    int64
	filled   int
	hasBook  bool
	degraded bool
}

// Optimize prices the list under the requested fulfillment mode.
//
// Split mode picks the cheapest world per line independently; single-server
// mode buys everything on the one world with the lowest feasible total.
// Whenever both are feasible the split total cannot exceed the
// single-server total, since split is the unconstrained per-line minimum.
func (o *Optimizer) Optimize(ctx context.Context, lines []domain.ShoppingLine, scope []int, mode domain.FulfillmentMode) (*domain.ShoppingResult, error) {
	if len(scope) == 0 {
		return nil, domain.ErrEmptyScope
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	sortedScope := sortedCopy(scope)
	costs, degraded := o.collectCosts(ctx, lines, sortedScope)

	var result *domain.ShoppingResult
	switch mode {
	case domain.ModeSingleServer:
		result = singleServerPlan(lines, sortedScope, costs)
	default:
		result = splitPlan(lines, sortedScope, costs)
	}

	if degraded {
		result.Confidence = domain.ConfidenceApproximate
	} else {
		result.Confidence = domain.ConfidenceExact
	}

	outcome := "ok"
	if !result.Feasible {
		outcome = "infeasible"
	}
	metrics.Optimizations.WithLabelValues(string(result.Mode), outcome).Inc()

	logger.FromContext(ctx).Debug("Shopping list optimized",
		"mode", result.Mode, "lines", len(lines),
		"feasible", result.Feasible, "total", result.Total)

	return result, nil
}

// collectCosts fills the (line, world) cost matrix with one concurrent
// fan-out; totals are only read after every fetch has settled. A missing
// book marks the pair unusable and the whole answer approximate.
func (o *Optimizer) collectCosts(ctx context.Context, lines []domain.ShoppingLine, scope []int) ([][]lineCost, bool) {
	costs := make([][]lineCost, len(lines))
	for i := range costs {
		costs[i] = make([]lineCost, len(scope))
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, line := range lines {
		for j, worldID := range scope {
			g.Go(func() error {
				book, err := o.books.GetOrderBook(gctx, worldID, line.ItemID)
				if err != nil {
					return nil
				}
				total, filled := book.CostToFill(line.Quantity)
				costs[i][j] = lineCost{
					total:    total,
					filled:   filled,
					hasBook:  true,
					degraded: book.Freshness.Degraded(),
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	degraded := false
	for i := range costs {
		for j := range costs[i] {
			if !costs[i][j].hasBook || costs[i][j].degraded {
				degraded = true
			}
		}
	}
	return costs, degraded
}

// splitPlan picks the cheapest world per line. Unfulfillable lines are
// flagged and excluded from the total, never silently dropped into it.
func splitPlan(lines []domain.ShoppingLine, scope []int, costs [][]lineCost) *domain.ShoppingResult {
	result := &domain.ShoppingResult{
		Mode:     domain.ModeSplit,
		Feasible: true,
	}

	for i, line := range lines {
		best, bestWorld, found := bestFullFill(line.Quantity, scope, costs[i])
		if found {
			result.Lines = append(result.Lines, domain.LineResult{
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
				WorldID:  bestWorld,
				Cost:     best.total,
				Filled:   best.filled,
			})
			result.Total += best.total
			continue
		}

		partial, partialWorld := bestPartialFill(scope, costs[i])
		result.Feasible = false
		result.Unfulfilled = append(result.Unfulfilled, domain.LineResult{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			WorldID:   partialWorld,
			Cost:      partial.total,
			Filled:    partial.filled,
			Shortfall: line.Quantity - partial.filled,
		})
	}

	return result
}

// singleServerPlan sums each world's line costs, treating any unfulfillable
// line as making that world's total infinite, and picks the cheapest
// feasible world. With no feasible world the result carries the per-world
// shortfalls instead of a plan.
func singleServerPlan(lines []domain.ShoppingLine, scope []int, costs [][]lineCost) *domain.ShoppingResult {
	result := &domain.ShoppingResult{
		Mode:        domain.ModeSingleServer,
		WorldTotals: make(map[int]int64),
	}

	bestWorld := -1
	var bestTotal int64

	for j, worldID := range scope {
		var total int64
		missingLines := 0
		missingUnits := 0
		for i, line := range lines {
			c := costs[i][j]
			if c.filled == line.Quantity {
				total += c.total
				continue
			}
			missingLines++
			missingUnits += line.Quantity - c.filled
		}

		if missingLines > 0 {
			result.Shortfalls = append(result.Shortfalls, domain.WorldShortfall{
				WorldID:      worldID,
				MissingLines: missingLines,
				MissingUnits: missingUnits,
			})
			continue
		}

		result.WorldTotals[worldID] = total
		// Scope is sorted ascending, so a strict comparison keeps the
		// lowest world ID on ties.
		if bestWorld == -1 || total < bestTotal {
			bestWorld = worldID
			bestTotal = total
		}
	}

	if bestWorld == -1 {
		return result
	}

	result.Feasible = true
	result.BestWorld = bestWorld
	result.Total = bestTotal
	for i, line := range lines {
		c := costs[i][indexOf(scope, bestWorld)]
		result.Lines = append(result.Lines, domain.LineResult{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			WorldID:  bestWorld,
			Cost:     c.total,
			Filled:   c.filled,
		})
	}
	return result
}

// bestFullFill returns the cheapest world that fills the full quantity.
func bestFullFill(quantity int, scope []int, row []lineCost) (lineCost, int, bool) {
	var best lineCost
	bestWorld := -1
	for j, worldID := range scope {
		c := row[j]
		if c.filled != quantity {
			continue
		}
		if bestWorld == -1 || c.total < best.total {
			best = c
			bestWorld = worldID
		}
	}
	return best, bestWorld, bestWorld != -1
}

// bestPartialFill returns the deepest partial fill for shortfall reporting.
func bestPartialFill(scope []int, row []lineCost) (lineCost, int) {
	var best lineCost
	bestWorld := 0
	bestFilled := -1
	for j, worldID := range scope {
		if row[j].filled > bestFilled {
			best = row[j]
			bestFilled = row[j].filled
			bestWorld = worldID
		}
	}
	return best, bestWorld
}

func sortedCopy(scope []int) []int {
	out := append([]int(nil), scope...)
	sort.Ints(out)
	return out
}

func indexOf(scope []int, worldID int) int {
	for i, id := range scope {
		if id == worldID {
			return i
		}
	}
	return -1
}
