// Package chunker splits Markdown-like text into bounded passages that keep
// their heading context. The pipeline is: sections by heading, segments by
// blank line / list item / code fence, greedy packing under a size budget,
// optional semantic sub-splitting, then overlap injection.
package chunker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"smartchunk/internal/contextutil"
)

// Chunker is safe for concurrent use. It holds no per-document state; the
// only thing it remembers between calls is the embedding backend per model id.
type Chunker struct {
	estimator TokenEstimator
	factory   EmbedderFactory

	mu        sync.Mutex
	embedders map[string]Embedder
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithEmbedder uses e for every semantic split regardless of model id.
func WithEmbedder(e Embedder) Option {
	return func(c *Chunker) {
		if e != nil {
			c.factory = func(string) (Embedder, error) { return e, nil }
		}
	}
}

// WithEmbedderFactory builds embedders lazily, once per model id.
func WithEmbedderFactory(f EmbedderFactory) Option {
	return func(c *Chunker) {
		c.factory = f
	}
}

// WithTokenEstimator replaces the default rune-based token estimate.
func WithTokenEstimator(est TokenEstimator) Option {
	return func(c *Chunker) {
		if est != nil {
			c.estimator = est
		}
	}
}

// New creates a chunker. Without an embedder option, semantic splitting is
// unavailable and requesting it fails with ErrEmbedderUnavailable.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		estimator: HeuristicEstimator{},
		embedders: make(map[string]Embedder),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EstimateTokens exposes the chunker's token estimate.
func (c *Chunker) EstimateTokens(text string) int {
	return c.estimator.EstimateTokens(text)
}

// Chunk splits text into ordered chunks. Identical text and config always
// yield identical chunks. Empty or whitespace-only text yields no chunks.
// Any embedding failure fails the whole call.
func (c *Chunker) Chunk(ctx context.Context, text string, cfg Config) ([]Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	p := &packer{cfg: cfg, est: c.estimator}
	if cfg.SemanticEnabled {
		embedder, err := c.embedder(cfg.SemanticModelID)
		if err != nil {
			return nil, err
		}
		p.splitter = &semanticSplitter{embedder: embedder, threshold: cfg.SemanticThreshold}
	}

	if strings.TrimSpace(text) == "" {
		return []Chunk{}, nil
	}

	lines := splitLines(text)
	sections := findSections(lines)

	var packs []sectionPack
	for _, sec := range sections {
		segs := segmentLines(lines[sec.start:sec.end], sec.start)
		secPacks, err := p.pack(ctx, segs)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sec.headerPath, err)
		}
		for _, pk := range secPacks {
			packs = append(packs, sectionPack{headerPath: sec.headerPath, pack: pk})
		}
	}

	chunks := injectOverlap(packs, cfg.OverlapChars)

	logger.DebugContext(ctx, "chunked text",
		"lines", len(lines),
		"sections", len(sections),
		"chunks", len(chunks),
		"max_chars", cfg.MaxChars,
		"max_tokens", cfg.MaxTokens,
		"semantic", cfg.SemanticEnabled,
	)

	return chunks, nil
}

// embedder returns the memoised backend for modelID, building it on first use.
func (c *Chunker) embedder(modelID string) (Embedder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.embedders[modelID]; ok {
		return e, nil
	}
	if c.factory == nil {
		return nil, fmt.Errorf("semantic splitting requested for model %q: %w", modelID, ErrEmbedderUnavailable)
	}

	e, err := c.factory(modelID)
	if err != nil {
		return nil, fmt.Errorf("create embedder for model %q: %w", modelID, err)
	}
	if e == nil {
		return nil, fmt.Errorf("semantic splitting requested for model %q: %w", modelID, ErrEmbedderUnavailable)
	}
	c.embedders[modelID] = e

	return e, nil
}

// splitLines splits on newlines, treating CRLF as LF. A trailing newline
// does not produce an extra empty line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
