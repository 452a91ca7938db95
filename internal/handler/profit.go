package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// ProfitRanker scans candidate items for craft-profit margin.
type ProfitRanker interface {
	Rank(ctx context.Context, candidateIDs []int, scope []int, limit int) ([]domain.ProfitEntry, error)
}

// RecentFeed supplies recently-traded item IDs as profit candidates.
type RecentFeed interface {
	FetchRecentlyUpdated(ctx context.Context, worldID, limit int) ([]int, error)
}

// ProfitResponse carries the ranked craft-profit entries.
type ProfitResponse struct {
	World   int                  `json:"world"`
	Entries []domain.ProfitEntry `json:"entries"`
}

const (
	defaultProfitLimit    = 15
	profitCandidateFactor = 3
)

// HandleProfit ranks profitable crafts
// @Summary Rank profitable crafts
// @Description Scans recently-traded items on a world and ranks them by craft-profit margin after market tax
// @Tags engine
// @Produce json
// @Param world query int true "World whose market activity seeds the scan"
// @Param limit query int false "Maximum entries to return (default 15)"
// @Success 200 {object} ProfitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Market data unavailable"
// @Router /profit [get]
func HandleProfit(ranker ProfitRanker, feed RecentFeed, scope []int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		worldParam, ok := GetQueryParam(r, w, "world")
		if !ok {
			return
		}
		worldID, err := strconv.Atoi(worldParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidWorldParam)
			return
		}

		limit, err := GetOptionalIntParam(r, "limit", defaultProfitLimit)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}

		// Over-fetch candidates: unprofitable and uncraftable ones drop out.
		candidates, err := feed.FetchRecentlyUpdated(r.Context(), worldID, limit*profitCandidateFactor)
		if err != nil {
			respondServiceError(w, r, "profit candidates", err)
			return
		}
		if len(candidates) == 0 {
			respondJSON(w, http.StatusOK, ProfitResponse{World: worldID, Entries: []domain.ProfitEntry{}})
			return
		}

		entries, err := ranker.Rank(r.Context(), candidates, scope, limit)
		if err != nil {
			respondServiceError(w, r, "profit", err)
			return
		}
		if entries == nil {
			entries = []domain.ProfitEntry{}
		}

		log.Info("Profit scan completed",
			"world_id", worldID, "candidates", len(candidates), "ranked", len(entries))

		respondJSON(w, http.StatusOK, ProfitResponse{World: worldID, Entries: entries})
	}
}
