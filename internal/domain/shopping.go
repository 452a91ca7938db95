package domain

// FulfillmentMode selects how a shopping list may be spread across worlds.
type FulfillmentMode string

const (
	// ModeSplit picks the cheapest world independently for every line.
	ModeSplit FulfillmentMode = "split"
	// ModeSingleServer buys the entire list on the one world with the
	// lowest feasible total.
	ModeSingleServer FulfillmentMode = "single_server"
)

// ShoppingLine is one requested (item, quantity) pair of a shopping list.
type ShoppingLine struct {
	ItemID   int `json:"item_id" validate:"required,min=1"`
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// LineResult is the per-line outcome of an optimization pass.
type LineResult struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`

	// WorldID is the world the line should be bought on. In single-server
	// mode every fulfillable line shares the winning world.
	WorldID int   `json:"world_id,omitempty"`
	Cost    int64 `json:"cost"`
	Filled  int   `json:"filled"`

	// Shortfall is the unmet quantity when no scoped world can fully cover
	// the line. Shortfall lines are excluded from totals, never silently
	// truncated into them.
	Shortfall  int        `json:"shortfall,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// Fulfillable reports whether the line can be bought in full.
func (l LineResult) Fulfillable() bool {
	return l.Shortfall == 0
}

// WorldShortfall describes how far one world falls short of covering a list.
type WorldShortfall struct {
	WorldID       int `json:"world_id"`
	MissingLines  int `json:"missing_lines"`
	MissingUnits  int `json:"missing_units"`
}

// ShoppingResult aggregates an optimization pass. Feasible is false when no
// plan covers every line; callers then read Unfulfilled (split mode) or
// Shortfalls (single-server mode) instead of Total.
type ShoppingResult struct {
	Mode     FulfillmentMode `json:"mode"`
	Feasible bool            `json:"feasible"`
	Total    int64           `json:"total"`

	Lines       []LineResult `json:"lines"`
	Unfulfilled []LineResult `json:"unfulfilled,omitempty"`

	// BestWorld and WorldTotals are populated in single-server mode.
	BestWorld   int             `json:"best_world,omitempty"`
	WorldTotals map[int]int64   `json:"world_totals,omitempty"`
	Shortfalls  []WorldShortfall `json:"shortfalls,omitempty"`

	Confidence Confidence `json:"confidence"`
}

// ProfitEntry is one row of the craft-profit ranking.
type ProfitEntry struct {
	ItemID     int        `json:"item_id"`
	Name       string     `json:"name"`
	CraftJob   string     `json:"craft_job,omitempty"`
	CraftCost  int64      `json:"craft_cost"`
	SellPrice  int64      `json:"sell_price"`
	Revenue    int64      `json:"revenue"`
	Margin     int64      `json:"margin"`
	MarginRate float64    `json:"margin_rate"`
	Confidence Confidence `json:"confidence"`
}
