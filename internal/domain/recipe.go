package domain

// RecipeIngredient represents a single material requirement for a recipe
type RecipeIngredient struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// Recipe represents one way to craft an item. An item may have zero or more
// recipes (alternate recipes). Recipes are immutable after catalog load and
// shared by reference.
//
// A recipe never lists its own output as a direct ingredient (rejected at
// load time), but multi-hop cycles through other items are possible and the
// resolver must handle them.
type Recipe struct {
	ID             int                `json:"recipe_id"`
	OutputItemID   int                `json:"output_item_id"`
	OutputQuantity int                `json:"output_quantity"`
	CraftJob       string             `json:"craft_job"`
	Ingredients    []RecipeIngredient `json:"ingredients"`
}
