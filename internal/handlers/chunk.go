package handlers

import (
	"encoding/json"
	"net/http"

	"smartchunk/internal/chunker"
	"smartchunk/internal/contextutil"
	"smartchunk/internal/service"
)

// ChunkRequest represents the HTTP request payload for chunk and compare.
// Omitted budgets use the server defaults.
type ChunkRequest struct {
	Text              string   `json:"text"`
	Format            string   `json:"format,omitempty"`
	MaxChars          *int     `json:"max_chars,omitempty"`
	MaxTokens         *int     `json:"max_tokens,omitempty"`
	OverlapChars      *int     `json:"overlap_chars,omitempty"`
	Semantic          bool     `json:"semantic,omitempty"`
	SemanticThreshold *float64 `json:"semantic_threshold,omitempty"`
	ModelID           string   `json:"model_id,omitempty"`
}

func (r ChunkRequest) toService() service.ChunkRequest {
	return service.ChunkRequest{
		Text:              r.Text,
		Format:            r.Format,
		MaxChars:          r.MaxChars,
		MaxTokens:         r.MaxTokens,
		OverlapChars:      r.OverlapChars,
		Semantic:          r.Semantic,
		SemanticThreshold: r.SemanticThreshold,
		ModelID:           r.ModelID,
	}
}

// ChunkResponse represents the HTTP response payload for chunk.
type ChunkResponse struct {
	Chunks []chunker.Chunk    `json:"chunks"`
	Stats  chunker.TokenStats `json:"stats"`
}

func newChunkResponse(res service.ChunkResult) ChunkResponse {
	chunks := res.Chunks
	if chunks == nil {
		chunks = []chunker.Chunk{}
	}
	return ChunkResponse{Chunks: chunks, Stats: res.Stats}
}

// CompareResponse represents the HTTP response payload for compare.
type CompareResponse struct {
	Smart ChunkResponse `json:"smart"`
	Naive ChunkResponse `json:"naive"`
}

// ChunkHandler handles HTTP requests for chunking.
type ChunkHandler struct {
	chunkService service.ChunkService
}

// NewChunkHandler creates a new ChunkHandler.
func NewChunkHandler(chunkService service.ChunkService) *ChunkHandler {
	return &ChunkHandler{chunkService: chunkService}
}

// ServeHTTP handles POST /api/chunk.
func (h *ChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeChunkRequest(w, r)
	if !ok {
		return
	}

	res, err := h.chunkService.Chunk(ctx, req.toService())
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to chunk text")
		return
	}

	writeJSON(ctx, w, http.StatusOK, newChunkResponse(res))
}

// CompareHandler handles HTTP requests comparing smart and naive chunking.
type CompareHandler struct {
	chunkService service.ChunkService
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(chunkService service.ChunkService) *CompareHandler {
	return &CompareHandler{chunkService: chunkService}
}

// ServeHTTP handles POST /api/compare.
func (h *CompareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeChunkRequest(w, r)
	if !ok {
		return
	}

	res, err := h.chunkService.Compare(ctx, req.toService())
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to compare chunkers")
		return
	}

	writeJSON(ctx, w, http.StatusOK, CompareResponse{
		Smart: newChunkResponse(res.Smart),
		Naive: newChunkResponse(res.Naive),
	})
}

// decodeChunkRequest reads the JSON body, writing the error response itself
// when the request is unusable.
func decodeChunkRequest(w http.ResponseWriter, r *http.Request) (ChunkRequest, bool) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return ChunkRequest{}, false
	}

	var req ChunkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return ChunkRequest{}, false
	}
	return req, true
}
