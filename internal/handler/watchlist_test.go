package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dan246/ff14-tw-market/internal/watchlist"
)

func TestWatchlistHandlers(t *testing.T) {
	InitValidator()
	svc := watchlist.NewService([]int{4028, 4029})

	t.Run("Watch", func(t *testing.T) {
		body, _ := json.Marshal(WatchRequest{WorldID: 4028, ItemID: 5506})
		req := httptest.NewRequest("POST", "/api/v1/watchlist", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		HandleWatch(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), MsgWatchAddedSuccess)
		assert.True(t, svc.IsWatched(4028, 5506))
	})

	t.Run("List", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/watchlist", nil)
		w := httptest.NewRecorder()

		HandleGetWatchlist(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"item_id":5506`)
	})

	t.Run("Watch unknown world", func(t *testing.T) {
		body, _ := json.Marshal(WatchRequest{WorldID: 9999, ItemID: 5506})
		req := httptest.NewRequest("POST", "/api/v1/watchlist", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		HandleWatch(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgUnknownWorldError)
	})

	t.Run("Unwatch", func(t *testing.T) {
		body, _ := json.Marshal(WatchRequest{WorldID: 4028, ItemID: 5506})
		req := httptest.NewRequest("DELETE", "/api/v1/watchlist", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		HandleUnwatch(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, svc.IsWatched(4028, 5506))
	})

	t.Run("Unwatch missing entry", func(t *testing.T) {
		body, _ := json.Marshal(WatchRequest{WorldID: 4029, ItemID: 42})
		req := httptest.NewRequest("DELETE", "/api/v1/watchlist", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		HandleUnwatch(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgNotWatchedError)
	})
}
