package handler

import (
	"net/http"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// CatalogSearcher is the item name lookup over the loaded catalog.
type CatalogSearcher interface {
	Search(query string, limit int) []domain.Item
}

// SearchResponse carries matching catalog items.
type SearchResponse struct {
	Query string        `json:"query"`
	Items []domain.Item `json:"items"`
}

const defaultSearchLimit = 20

// HandleItemSearch searches the item catalog by name
// @Summary Search items
// @Description Searches catalog items by name; full-width characters are normalized so CJK queries match either form
// @Tags catalog
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum items to return (default 20)"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} ErrorResponse
// @Router /items/search [get]
func HandleItemSearch(catalog CatalogSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		query, ok := GetQueryParam(r, w, "q")
		if !ok {
			return
		}

		limit, err := GetOptionalIntParam(r, "limit", defaultSearchLimit)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}

		items := catalog.Search(query, limit)
		if items == nil {
			items = []domain.Item{}
		}

		log.Debug("Item search completed", "query", query, "matches", len(items))

		respondJSON(w, http.StatusOK, SearchResponse{Query: query, Items: items})
	}
}
