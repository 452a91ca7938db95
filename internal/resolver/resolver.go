package resolver

import (
	"context"
	"sort"
	"time"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
	"github.com/dan246/ff14-tw-market/internal/metrics"
)

// Catalog is the immutable item/recipe view the resolver walks.
type Catalog interface {
	Item(id int) (domain.Item, bool)
	RecipesFor(itemID int) []domain.Recipe
}

// BookSource supplies order book snapshots, normally the price cache.
type BookSource interface {
	GetOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error)
}

// Options tunes a resolver instance.
type Options struct {
	// MaxDepth bounds recursive craft expansion; 0 means unbounded.
	// Termination over cyclic recipe graphs does not depend on it, the
	// active-path check handles that.
	MaxDepth int
}

// Resolver answers the craft-vs-buy question over the recipe graph.
type Resolver struct {
	catalog  Catalog
	books    BookSource
	maxDepth int
}

// New creates a resolver over the given catalog and book source.
func New(catalog Catalog, books BookSource, opts Options) *Resolver {
	return &Resolver{
		catalog:  catalog,
		books:    books,
		maxDepth: opts.MaxDepth,
	}
}

// memoKey scopes memoized sub-results to one top-level Resolve call.
type memoKey struct {
	itemID   int
	quantity int
}

// state is owned by a single top-level Resolve call and never shared across
// concurrent calls; redundant work between simultaneous resolutions is the
// accepted price for not corrupting each other's partial results.
type state struct {
	memo  map[memoKey]*domain.CostNode
	scope []int
}

// Resolve computes the cheapest way to acquire quantity units of itemID
// across the scoped worlds: buy them outright or craft them from
// sub-components, recursively.
//
// Two calls with no intervening cache ingest return identical trees. An
// unknown item or exhausted market depth yields an unavailable node with an
// explicit shortfall, never an error.
func (r *Resolver) Resolve(ctx context.Context, itemID, quantity int, scope []int) (*domain.CostNode, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if len(scope) == 0 {
		return nil, domain.ErrEmptyScope
	}

	start := time.Now()

	// Sorted copy so tie-breaks are deterministic regardless of caller order.
	sortedScope := append([]int(nil), scope...)
	sort.Ints(sortedScope)

	st := &state{
		memo:  make(map[memoKey]*domain.CostNode),
		scope: sortedScope,
	}

	node := r.resolve(ctx, st, itemID, quantity, map[int]bool{}, 0)

	metrics.Resolutions.WithLabelValues(string(node.Strategy)).Inc()
	metrics.ResolutionDuration.Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Debug("Resolution finished",
		"item_id", itemID, "quantity", quantity,
		"strategy", node.Strategy, "total_cost", node.TotalCost,
		"confidence", node.Confidence)

	return node, nil
}

// resolve handles one (item, quantity) node. path is the set of item IDs on
// the active recursion path, passed explicitly; an item already on it keeps
// its buy option but loses its craft branch for this resolution, which
// guarantees termination over cyclic recipe graphs at the cost of
// under-exploring legitimately cyclic chains.
func (r *Resolver) resolve(ctx context.Context, st *state, itemID, quantity int, path map[int]bool, depth int) *domain.CostNode {
	if _, known := r.catalog.Item(itemID); !known {
		return &domain.CostNode{
			ItemID:     itemID,
			Quantity:   quantity,
			Strategy:   domain.StrategyUnavailable,
			Shortfall:  quantity,
			Confidence: domain.ConfidenceExact,
		}
	}

	recipes := r.catalog.RecipesFor(itemID)
	onPath := path[itemID]
	depthExceeded := r.maxDepth > 0 && depth >= r.maxDepth
	craftAllowed := len(recipes) > 0 && !onPath && !depthExceeded

	// Memoized sub-results are only reused for nodes resolved with their
	// craft branch intact; a buy-only result computed under a cycle must
	// not leak into positions where crafting is allowed.
	k := memoKey{itemID: itemID, quantity: quantity}
	if craftAllowed || len(recipes) == 0 {
		if cached, ok := st.memo[k]; ok {
			return cached
		}
	}

	buy := r.evaluateBuy(ctx, st, itemID, quantity)

	node := &domain.CostNode{
		ItemID:     itemID,
		Quantity:   quantity,
		Confidence: domain.ConfidenceExact,
	}

	cycleDiscarded := onPath && len(recipes) > 0

	var craftTotal int64
	var craftRecipe *domain.Recipe
	var craftChildren []*domain.CostNode
	craftDegraded := false
	craftFeasible := false

	if craftAllowed {
		childPath := clonePath(path)
		childPath[itemID] = true

		for i := range recipes {
			recipe := recipes[i]
			children, total, degraded, feasible := r.evaluateRecipe(ctx, st, &recipe, quantity, childPath, depth+1)
			if !feasible {
				continue
			}
			// Strict comparison keeps the lowest recipe ID on equal cost;
			// RecipesFor returns recipes already sorted by ID.
			if !craftFeasible || total < craftTotal {
				craftFeasible = true
				craftTotal = total
				craftRecipe = &recipes[i]
				craftChildren = children
				craftDegraded = degraded
			}
		}
	}

	switch {
	case craftFeasible && (!buy.feasible || craftTotal < buy.total):
		node.Strategy = domain.StrategyCraft
		node.TotalCost = craftTotal
		node.RecipeID = craftRecipe.ID
		node.Children = craftChildren
		if craftDegraded || buy.degraded {
			node.Confidence = domain.ConfidenceApproximate
		}

	case buy.feasible:
		node.Strategy = domain.StrategyBuy
		node.TotalCost = buy.total
		node.SourceWorld = buy.worldID
		if buy.degraded {
			node.Confidence = domain.ConfidenceApproximate
		}

	default:
		// Neither full purchase nor craft is possible anywhere in scope:
		// report the best-effort partial fill and the explicit shortfall
		// instead of a silently truncated success.
		node.Strategy = domain.StrategyUnavailable
		node.TotalCost = buy.total
		node.SourceWorld = buy.worldID
		node.Shortfall = quantity - buy.filled
		if buy.degraded {
			node.Confidence = domain.ConfidenceApproximate
		}
	}

	node.UnitCost = node.TotalCost / int64(quantity)

	// A discarded craft branch lowers confidence: the true optimum may sit
	// in the part of the graph this resolution refused to revisit.
	if cycleDiscarded {
		node.Confidence = domain.ConfidenceApproximate
	}

	if craftAllowed || len(recipes) == 0 {
		st.memo[k] = node
	}
	return node
}

// evaluateRecipe resolves every ingredient of one recipe and sums their
// total costs. Ingredient order books are prefetched concurrently so a
// parent never waits on cold fetches one ingredient at a time; the children
// themselves are resolved after all fetches settle.
func (r *Resolver) evaluateRecipe(ctx context.Context, st *state, recipe *domain.Recipe, quantity int, path map[int]bool, depth int) (children []*domain.CostNode, total int64, degraded, feasible bool) {
	r.prefetchIngredients(ctx, st, recipe)

	children = make([]*domain.CostNode, 0, len(recipe.Ingredients))
	feasible = true

	for _, ing := range recipe.Ingredients {
		needed := ceilDiv(quantity*ing.Quantity, recipe.OutputQuantity)
		child := r.resolve(ctx, st, ing.ItemID, needed, path, depth)
		children = append(children, child)

		if !child.Feasible() {
			feasible = false
		}
		total += child.TotalCost
		if child.Confidence == domain.ConfidenceApproximate {
			degraded = true
		}
	}

	return children, total, degraded, feasible
}

func clonePath(path map[int]bool) map[int]bool {
	next := make(map[int]bool, len(path)+1)
	for id := range path {
		next[id] = true
	}
	return next
}

// ceilDiv returns ceil(a/b) for positive integers.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
