package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dan246/ff14-tw-market/internal/config"
	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/validation"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateItemID   = errors.New("duplicate item id")
	ErrDuplicateRecipeID = errors.New("duplicate recipe id")
	ErrSelfReference     = errors.New("recipe lists its own output as ingredient")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Config file schemas, embedded so a deployed binary always validates against
// the shape it was built for.
var (
	//go:embed schema/items.schema.json
	itemsSchema []byte

	//go:embed schema/recipes.schema.json
	recipesSchema []byte
)

// ItemsConfig represents the JSON configuration for items
type ItemsConfig struct {
	Version     string        `json:"version"`
	Description string        `json:"description,omitempty"`
	Items       []domain.Item `json:"items"`
}

// RecipesConfig represents the JSON configuration for recipes
type RecipesConfig struct {
	Version     string          `json:"version"`
	Description string          `json:"description,omitempty"`
	Recipes     []domain.Recipe `json:"recipes"`
}

// LoadDir reads items and recipes from the catalog config directory and
// builds the immutable in-memory catalog. Each file is schema-validated
// before decoding. Catalog data being entirely absent is the one fatal
// startup condition of the engine.
func LoadDir(dir string) (*Catalog, error) {
	schemaValidator := validation.NewSchemaValidator()

	items, err := loadItems(filepath.Join(dir, config.ItemsFileName), schemaValidator)
	if err != nil {
		return nil, err
	}
	recipes, err := loadRecipes(filepath.Join(dir, config.RecipesFileName), schemaValidator)
	if err != nil {
		return nil, err
	}
	return New(items, recipes)
}

func loadItems(path string, schemaValidator validation.SchemaValidator) ([]domain.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items config: %w", err)
	}

	if err := schemaValidator.ValidateBytes(data, config.ItemsFileName, itemsSchema); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, err)
	}

	var cfg ItemsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse items config: %w", err)
	}

	return cfg.Items, nil
}

func loadRecipes(path string, schemaValidator validation.SchemaValidator) ([]domain.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes config: %w", err)
	}

	if err := schemaValidator.ValidateBytes(data, config.RecipesFileName, recipesSchema); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, err)
	}

	var cfg RecipesConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse recipes config: %w", err)
	}

	for _, r := range cfg.Recipes {
		for _, ing := range r.Ingredients {
			// Direct self-loops are rejected here; multi-hop cycles are the
			// resolver's problem.
			if ing.ItemID == r.OutputItemID {
				return nil, fmt.Errorf("%w: recipe %d", ErrSelfReference, r.ID)
			}
		}
	}

	return cfg.Recipes, nil
}
