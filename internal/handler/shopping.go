package handler

import (
	"context"
	"net/http"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// Optimizer prices a multi-item shopping list across a world scope.
type Optimizer interface {
	Optimize(ctx context.Context, lines []domain.ShoppingLine, scope []int, mode domain.FulfillmentMode) (*domain.ShoppingResult, error)
}

// ShoppingRequest prices a shopping list. Mode defaults to split.
type ShoppingRequest struct {
	Lines  []domain.ShoppingLine `json:"lines" validate:"required,min=1,dive"`
	Worlds []int                 `json:"worlds,omitempty" validate:"omitempty,dive,min=1"`
	Mode   string                `json:"mode,omitempty" validate:"fulfillment_mode"`
}

// HandleShopping optimizes a shopping list
// @Summary Optimize a shopping list
// @Description Finds the cheapest fulfillment of a multi-item list, either per-line across worlds (split) or on one world (single_server)
// @Tags engine
// @Accept json
// @Produce json
// @Param request body ShoppingRequest true "Shopping list"
// @Success 200 {object} domain.ShoppingResult
// @Failure 400 {object} ErrorResponse
// @Router /shopping [post]
func HandleShopping(optimizer Optimizer, defaultScope []int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ShoppingRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Shopping"); err != nil {
			return
		}

		scope := req.Worlds
		if len(scope) == 0 {
			scope = defaultScope
		}
		mode := domain.FulfillmentMode(req.Mode)
		if mode == "" {
			mode = domain.ModeSplit
		}

		result, err := optimizer.Optimize(r.Context(), req.Lines, scope, mode)
		if err != nil {
			respondServiceError(w, r, "shopping", err)
			return
		}

		log.Info("Shopping list optimized",
			"lines", len(req.Lines), "mode", result.Mode,
			"feasible", result.Feasible, "total", result.Total)

		respondJSON(w, http.StatusOK, result)
	}
}
