package domain

// Strategy is the acquisition decision for one resolved (item, quantity) node.
type Strategy string

const (
	StrategyBuy   Strategy = "buy"
	StrategyCraft Strategy = "craft"
	// StrategyUnavailable marks a node that could be neither bought in full
	// nor crafted: unknown item, empty books, or market depth short of the
	// requested quantity everywhere.
	StrategyUnavailable Strategy = "unavailable"
)

// Confidence qualifies a resolved cost.
type Confidence string

const (
	// ConfidenceExact means every order book consulted in the subtree was
	// fresh or recent.
	ConfidenceExact Confidence = "exact"
	// ConfidenceApproximate means at least one consulted book was stale or
	// expired, or a cycle forced a craft branch to be discarded.
	ConfidenceApproximate Confidence = "approximate"
)

// CostNode is the result of resolving one (item, quantity) pair. Craft nodes
// carry one child per recipe ingredient; buy nodes carry the world the units
// would be bought from. CostNode trees are acyclic by construction.
type CostNode struct {
	ItemID   int      `json:"item_id"`
	Quantity int      `json:"quantity"`
	Strategy Strategy `json:"strategy"`

	UnitCost  int64 `json:"unit_cost"`
	TotalCost int64 `json:"total_cost"`

	// SourceWorld is set for buy nodes.
	SourceWorld int `json:"source_world,omitempty"`
	// RecipeID is set for craft nodes.
	RecipeID int `json:"recipe_id,omitempty"`

	Children []*CostNode `json:"children,omitempty"`

	Confidence Confidence `json:"confidence"`

	// Shortfall is the number of units that could not be covered anywhere
	// when the node is unavailable. TotalCost then reflects the partially
	// fillable portion on the best-effort world.
	Shortfall int `json:"shortfall,omitempty"`
}

// Feasible reports whether the node resolved to a usable acquisition plan.
func (n *CostNode) Feasible() bool {
	return n.Strategy != StrategyUnavailable
}
