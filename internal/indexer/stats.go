package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"smartchunk/internal/chunker"
	"smartchunk/internal/contextutil"
)

// ChunkerVersion identifies the chunking algorithm in IndexVersion.
// Update this when chunk boundaries change for the same input.
const ChunkerVersion = "structure-v1"

// CoverageStats describes the current state of the index.
type CoverageStats struct {
	// DocsIndexed is the number of documents stored.
	DocsIndexed int `json:"docs_indexed"`
	// DocsWith0Chunks is the number of documents that produced no chunks.
	DocsWith0Chunks int `json:"docs_with_0_chunks"`
	// ChunksStored is the number of chunk rows in SQLite.
	ChunksStored int `json:"chunks_stored"`
	// PointsStored is the number of points in the Qdrant collection, -1 if unavailable.
	PointsStored int `json:"points_stored"`
	// ChunkTokenStats summarises the estimated tokens per stored chunk.
	ChunkTokenStats chunker.TokenStats `json:"chunk_token_stats"`
	ChunkerVersion  string             `json:"chunker_version"`
	// IndexVersion is a hash of the chunker version, embedding model and chunking parameters.
	IndexVersion string `json:"index_version"`
	// EmbeddingCache is set when the pipeline embeds through a cache.
	EmbeddingCache *EmbeddingCacheStats `json:"embedding_cache,omitempty"`
}

// EmbeddingCacheStats reports the embedding cache in front of the backend.
type EmbeddingCacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// cacheReporter is implemented by caching embedders.
type cacheReporter interface {
	Stats() (hits, misses int64)
	Len() int
}

// CoverageStats computes index statistics from SQLite and Qdrant.
func (p *Pipeline) CoverageStats(ctx context.Context) (*CoverageStats, error) {
	stats := &CoverageStats{
		ChunkerVersion: ChunkerVersion,
		IndexVersion:   p.IndexVersion(),
		PointsStored:   -1,
	}

	docs, err := p.docRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	stats.DocsIndexed = docs

	empty, err := p.docRepo.CountWithoutChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents with 0 chunks: %w", err)
	}
	stats.DocsWith0Chunks = empty

	texts, err := p.chunkRepo.ListTexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	stats.ChunksStored = len(texts)
	stats.ChunkTokenStats = chunker.SummarizeTokens(p.chunker, texts)

	if cache, ok := p.embedder.(cacheReporter); ok {
		hits, misses := cache.Stats()
		stats.EmbeddingCache = &EmbeddingCacheStats{Entries: cache.Len(), Hits: hits, Misses: misses}
	}

	info, err := p.vectorStore.GetCollectionInfo(ctx, p.opts.Collection)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to get collection info", "collection", p.opts.Collection, "error", err)
	} else {
		stats.PointsStored = info.PointsCount
	}

	return stats, nil
}

// IndexVersion hashes everything that changes chunk boundaries or vectors.
// Two indexes with the same version were built the same way.
func (p *Pipeline) IndexVersion() string {
	cfg := p.opts.ChunkConfig
	input := fmt.Sprintf("%s|%s|max_chars=%d|max_tokens=%d|overlap=%d|semantic=%t|threshold=%g|semantic_model=%s",
		ChunkerVersion, p.opts.ModelName,
		cfg.MaxChars, cfg.MaxTokens, cfg.OverlapChars,
		cfg.SemanticEnabled, cfg.SemanticThreshold, cfg.SemanticModelID,
	)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16] // 16 hex chars = 64 bits
}

// documentHash identifies a file's content as indexed under the current
// IndexVersion.
func (p *Pipeline) documentHash(content []byte) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte(p.IndexVersion()))
	return hex.EncodeToString(h.Sum(nil))
}
