package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// BookSource supplies order book snapshots, normally the price cache.
type BookSource interface {
	GetOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error)
}

// HandleGetOrderBook returns the current order book for one item on one world
// @Summary Get an order book
// @Description Returns the cached order book snapshot, stamped with its staleness tier; a cold miss fetches upstream
// @Tags market
// @Produce json
// @Param world path int true "World ID"
// @Param item path int true "Item ID"
// @Success 200 {object} domain.OrderBook
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "No snapshot and upstream unavailable"
// @Router /market/{world}/{item} [get]
func HandleGetOrderBook(books BookSource, worlds map[int]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		worldID, err := strconv.Atoi(chi.URLParam(r, "world"))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidWorldParam)
			return
		}
		if _, ok := worlds[worldID]; !ok {
			respondError(w, http.StatusBadRequest, ErrMsgUnknownWorldError)
			return
		}

		itemID, err := strconv.Atoi(chi.URLParam(r, "item"))
		if err != nil || itemID <= 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidItemParam)
			return
		}

		book, err := books.GetOrderBook(r.Context(), worldID, itemID)
		if err != nil {
			respondServiceError(w, r, "order book", err)
			return
		}

		log.Debug("Order book served",
			"world_id", worldID, "item_id", itemID,
			"listings", len(book.Listings), "freshness", book.Freshness)

		respondJSON(w, http.StatusOK, book)
	}
}
