package handler

import (
	"context"
	"net/http"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// Resolver answers the craft-vs-buy question for one item.
type Resolver interface {
	Resolve(ctx context.Context, itemID, quantity int, scope []int) (*domain.CostNode, error)
}

// ResolveRequest asks for the cheapest acquisition plan for one item.
// Worlds defaults to the full data-center roster when omitted.
type ResolveRequest struct {
	ItemID   int   `json:"item_id" validate:"required,min=1"`
	Quantity int   `json:"quantity" validate:"required,min=1"`
	Worlds   []int `json:"worlds,omitempty" validate:"omitempty,dive,min=1"`
}

// ResolveResponse carries the resolved cost tree.
type ResolveResponse struct {
	Plan *domain.CostNode `json:"plan"`
}

// HandleResolve resolves craft-vs-buy for an item
// @Summary Resolve acquisition cost
// @Description Computes the cheapest way to acquire an item: buy it outright or craft it from recursively resolved ingredients
// @Tags engine
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "Resolution request"
// @Success 200 {object} ResolveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Market data unavailable"
// @Router /resolve [post]
func HandleResolve(resolver Resolver, defaultScope []int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ResolveRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Resolve"); err != nil {
			return
		}

		scope := req.Worlds
		if len(scope) == 0 {
			scope = defaultScope
		}

		plan, err := resolver.Resolve(r.Context(), req.ItemID, req.Quantity, scope)
		if err != nil {
			respondServiceError(w, r, "resolve", err)
			return
		}

		log.Info("Resolution completed",
			"item_id", req.ItemID, "quantity", req.Quantity,
			"strategy", plan.Strategy, "total_cost", plan.TotalCost)

		respondJSON(w, http.StatusOK, ResolveResponse{Plan: plan})
	}
}
