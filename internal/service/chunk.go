package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_service.go -package=mocks smartchunk/internal/service ChunkService

import (
	"context"
	"errors"
	"fmt"

	"smartchunk/internal/chunker"
	"smartchunk/internal/contextutil"
	"smartchunk/internal/parsers"
)

// ChunkRequest represents a chunking request in the domain layer.
// Nil budget fields fall back to the service defaults.
type ChunkRequest struct {
	Text              string
	Format            string // markdown (default), text or html
	MaxChars          *int
	MaxTokens         *int
	OverlapChars      *int
	Semantic          bool
	SemanticThreshold *float64
	ModelID           string // empty selects the default embedding model
}

// ChunkResult holds one chunk set and its token statistics.
type ChunkResult struct {
	Chunks []chunker.Chunk
	Stats  chunker.TokenStats
}

// CompareResult holds the structure-aware and naive chunkings of the same text.
type CompareResult struct {
	Smart ChunkResult
	Naive ChunkResult
}

// ChunkService provides chunking functionality.
type ChunkService interface {
	// Chunk splits the request text with the structure-aware chunker.
	Chunk(ctx context.Context, req ChunkRequest) (ChunkResult, error)
	// Compare chunks the text with both the structure-aware and the naive
	// chunker using the same character budget.
	Compare(ctx context.Context, req ChunkRequest) (CompareResult, error)
}

// chunkService implements ChunkService.
type chunkService struct {
	chunker      *chunker.Chunker
	defaults     chunker.Config
	defaultModel string
}

// NewChunkService creates a new ChunkService. defaults supplies every
// budget the request leaves unset.
func NewChunkService(ch *chunker.Chunker, defaults chunker.Config, defaultModel string) ChunkService {
	return &chunkService{
		chunker:      ch,
		defaults:     defaults,
		defaultModel: defaultModel,
	}
}

// Chunk processes a chunk request.
func (s *chunkService) Chunk(ctx context.Context, req ChunkRequest) (ChunkResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	text, cfg, err := s.prepare(req)
	if err != nil {
		logger.WarnContext(ctx, "invalid chunk request", "error", err)
		return ChunkResult{}, err
	}

	chunks, err := s.chunker.Chunk(ctx, text, cfg)
	if err != nil {
		logger.ErrorContext(ctx, "chunking failed", "error", err)
		return ChunkResult{}, mapChunkerError(err)
	}

	result := s.result(chunks)
	logger.InfoContext(ctx, "chunk request processed successfully",
		"text_length", len(req.Text),
		"chunks", len(chunks),
		"semantic", cfg.SemanticEnabled,
	)
	return result, nil
}

// Compare processes a compare request.
func (s *chunkService) Compare(ctx context.Context, req ChunkRequest) (CompareResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	text, cfg, err := s.prepare(req)
	if err != nil {
		logger.WarnContext(ctx, "invalid compare request", "error", err)
		return CompareResult{}, err
	}

	smart, err := s.chunker.Chunk(ctx, text, cfg)
	if err != nil {
		logger.ErrorContext(ctx, "chunking failed", "error", err)
		return CompareResult{}, mapChunkerError(err)
	}

	// prepare guarantees MaxChars > 0 at this point.
	naive, err := chunker.Naive(text, cfg.MaxChars)
	if err != nil {
		return CompareResult{}, mapChunkerError(err)
	}

	result := CompareResult{Smart: s.result(smart), Naive: s.result(naive)}
	logger.InfoContext(ctx, "compare request processed successfully",
		"smart_chunks", result.Smart.Stats.Count,
		"naive_chunks", result.Naive.Stats.Count,
	)
	return result, nil
}

// prepare validates the request, normalises the text and resolves the config.
func (s *chunkService) prepare(req ChunkRequest) (string, chunker.Config, error) {
	format, err := parsers.ParseFormat(req.Format)
	if err != nil {
		return "", chunker.Config{}, &ValidationError{Field: "format", Message: "must be markdown, text or html"}
	}

	text, err := parsers.Normalise(format, req.Text)
	if err != nil {
		return "", chunker.Config{}, &ValidationError{Field: "text", Message: err.Error()}
	}

	cfg := s.defaults
	if req.MaxChars != nil {
		if *req.MaxChars <= 0 {
			return "", chunker.Config{}, &ValidationError{Field: "max_chars", Message: "must be greater than 0"}
		}
		cfg.MaxChars = *req.MaxChars
	}
	if cfg.MaxChars == 0 {
		cfg.MaxChars = chunker.DefaultMaxChars
	}
	if req.MaxTokens != nil {
		cfg.MaxTokens = *req.MaxTokens
	}
	if req.OverlapChars != nil {
		cfg.OverlapChars = *req.OverlapChars
	}
	if req.SemanticThreshold != nil {
		cfg.SemanticThreshold = *req.SemanticThreshold
	}
	cfg.SemanticEnabled = req.Semantic
	cfg.SemanticModelID = req.ModelID
	if cfg.SemanticModelID == "" {
		cfg.SemanticModelID = s.defaultModel
	}

	return text, cfg, nil
}

func (s *chunkService) result(chunks []chunker.Chunk) ChunkResult {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return ChunkResult{
		Chunks: chunks,
		Stats:  chunker.SummarizeTokens(s.chunker, texts),
	}
}

// mapChunkerError translates chunker failures into service errors.
func mapChunkerError(err error) error {
	var cfgErr *chunker.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return &ValidationError{Field: cfgErr.Field, Message: cfgErr.Message}
	case errors.Is(err, chunker.ErrEmbedderUnavailable):
		return fmt.Errorf("%w: semantic splitting is not available: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	}
}
