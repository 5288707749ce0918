package handlers

import (
	"net/http"
	"strconv"

	"smartchunk/internal/indexer"
	"smartchunk/internal/service"
)

// SearchHandler handles similarity search over indexed chunks.
type SearchHandler struct {
	indexService service.IndexService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(indexService service.IndexService) *SearchHandler {
	return &SearchHandler{indexService: indexService}
}

// SearchResponse represents the HTTP response payload for search.
type SearchResponse struct {
	Query string              `json:"query"`
	Hits  []indexer.SearchHit `json:"hits"`
}

// ServeHTTP handles GET /api/search?q=...&k=...&path=...
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	k := 0
	if raw := query.Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "k must be an integer")
			return
		}
		k = parsed
	}

	hits, err := h.indexService.Search(ctx, query.Get("q"), k, query.Get("path"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to search")
		return
	}
	if hits == nil {
		hits = []indexer.SearchHit{}
	}

	writeJSON(ctx, w, http.StatusOK, SearchResponse{Query: query.Get("q"), Hits: hits})
}
