package handler

import (
	"net/http"

	"github.com/dan246/ff14-tw-market/internal/logger"
	"github.com/dan246/ff14-tw-market/internal/watchlist"
)

// WatchRequest identifies one (world, item) order book.
type WatchRequest struct {
	WorldID int `json:"world_id" validate:"required,min=1"`
	ItemID  int `json:"item_id" validate:"required,min=1"`
}

// WatchlistResponse carries the watched order books.
type WatchlistResponse struct {
	Entries []watchlist.Entry `json:"entries"`
}

// HandleGetWatchlist lists watched order books
// @Summary List the watchlist
// @Description Returns all watched (world, item) pairs kept warm by the background refresher
// @Tags watchlist
// @Produce json
// @Success 200 {object} WatchlistResponse
// @Router /watchlist [get]
func HandleGetWatchlist(svc watchlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := svc.List()
		if entries == nil {
			entries = []watchlist.Entry{}
		}
		respondJSON(w, http.StatusOK, WatchlistResponse{Entries: entries})
	}
}

// HandleWatch adds an order book to the watchlist
// @Summary Watch an order book
// @Description Adds a (world, item) pair to the refresh rotation
// @Tags watchlist
// @Accept json
// @Produce json
// @Param request body WatchRequest true "Order book to watch"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /watchlist [post]
func HandleWatch(svc watchlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req WatchRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Watch"); err != nil {
			return
		}

		if err := svc.Watch(r.Context(), req.WorldID, req.ItemID); err != nil {
			respondServiceError(w, r, "watch", err)
			return
		}

		log.Info("Watchlist entry added", "world_id", req.WorldID, "item_id", req.ItemID)
		respondJSON(w, http.StatusCreated, SuccessResponse{Message: MsgWatchAddedSuccess})
	}
}

// HandleUnwatch removes an order book from the watchlist
// @Summary Unwatch an order book
// @Description Removes a (world, item) pair from the refresh rotation
// @Tags watchlist
// @Accept json
// @Produce json
// @Param request body WatchRequest true "Order book to unwatch"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Not watched"
// @Router /watchlist [delete]
func HandleUnwatch(svc watchlist.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req WatchRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Unwatch"); err != nil {
			return
		}

		if err := svc.Unwatch(r.Context(), req.WorldID, req.ItemID); err != nil {
			respondServiceError(w, r, "unwatch", err)
			return
		}

		log.Info("Watchlist entry removed", "world_id", req.WorldID, "item_id", req.ItemID)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgWatchRemovedSuccess})
	}
}
