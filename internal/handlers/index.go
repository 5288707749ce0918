package handlers

import (
	"context"
	"errors"
	"net/http"

	"smartchunk/internal/contextutil"
	"smartchunk/internal/indexer"
	"smartchunk/internal/service"
)

// IndexHandler handles HTTP requests for triggering re-indexing.
type IndexHandler struct {
	indexService service.IndexService
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(indexService service.IndexService) *IndexHandler {
	return &IndexHandler{indexService: indexService}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string               `json:"message"`
	Status  string               `json:"status"`
	Result  *indexer.IndexResult `json:"result,omitempty"`
}

// ServeHTTP handles POST /api/index. With force=true the index is cleared
// and rebuilt. By default the run happens in the background and the handler
// answers 202; wait=true runs it inline and returns the result.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	wait := r.URL.Query().Get("wait") == "true"

	if force {
		logger.InfoContext(ctx, "force re-indexing triggered via API")
	} else {
		logger.InfoContext(ctx, "re-indexing triggered via API")
	}

	if wait {
		result, err := h.indexService.Reindex(ctx, force)
		if err != nil && !errors.Is(err, indexer.ErrIndexIncomplete) {
			handleServiceError(ctx, w, err, "Failed to index documents")
			return
		}
		resp := IndexResponse{Message: "Indexing completed.", Status: "completed", Result: result}
		if err != nil {
			resp.Message = err.Error()
			resp.Status = "completed_with_errors"
		}
		writeJSON(ctx, w, http.StatusOK, resp)
		return
	}

	// Detach from the request so indexing continues after the response;
	// the request logger stays attached.
	if err := h.indexService.StartReindex(context.WithoutCancel(ctx), force); err != nil {
		handleServiceError(ctx, w, err, "Failed to start indexing")
		return
	}

	message := "Indexing started. Check server logs for progress."
	if force {
		message = "Force re-indexing started (all existing data cleared). Check server logs for progress."
	}
	writeJSON(ctx, w, http.StatusAccepted, IndexResponse{
		Message: message,
		Status:  "accepted",
	})
}

// IndexStatsHandler serves index coverage statistics.
type IndexStatsHandler struct {
	indexService service.IndexService
}

// NewIndexStatsHandler creates a new IndexStatsHandler.
func NewIndexStatsHandler(indexService service.IndexService) *IndexStatsHandler {
	return &IndexStatsHandler{indexService: indexService}
}

// ServeHTTP handles GET /api/index/stats.
func (h *IndexStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.indexService.Stats(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to compute index stats")
		return
	}
	writeJSON(ctx, w, http.StatusOK, stats)
}
