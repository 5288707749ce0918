package indexer

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"smartchunk/internal/chunker"
	"smartchunk/internal/llm"
	"smartchunk/internal/vectorstore"
)

func TestPipeline_CoverageStats(t *testing.T) {
	tp := newTestPipeline(t)
	ctx := context.Background()

	// Empty index
	tp.vectors.EXPECT().GetCollectionInfo(gomock.Any(), testCollection).Return(&vectorstore.CollectionInfo{VectorSize: 4}, nil)

	stats, err := tp.CoverageStats(ctx)
	if err != nil {
		t.Fatalf("CoverageStats() error = %v", err)
	}
	if stats.DocsIndexed != 0 || stats.DocsWith0Chunks != 0 || stats.ChunksStored != 0 || stats.PointsStored != 0 {
		t.Errorf("CoverageStats() on empty index = %+v", stats)
	}
	if stats.ChunkTokenStats != (chunker.TokenStats{}) {
		t.Errorf("ChunkTokenStats = %+v, want zero", stats.ChunkTokenStats)
	}
	if stats.ChunkerVersion != ChunkerVersion {
		t.Errorf("ChunkerVersion = %s, want %s", stats.ChunkerVersion, ChunkerVersion)
	}
	if len(stats.IndexVersion) != 16 {
		t.Errorf("IndexVersion = %q, want 16 hex chars", stats.IndexVersion)
	}

	// One document with chunks, one without.
	tp.embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).DoAndReturn(fakeVectors)
	tp.vectors.EXPECT().Upsert(gomock.Any(), testCollection, gomock.Any()).Return(nil).Times(2)
	if _, err := tp.IndexDocument(ctx, tp.file(t, "guide.md", guideDoc), false); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}
	if _, err := tp.IndexDocument(ctx, tp.file(t, "blank.txt", "\n"), false); err != nil {
		t.Fatalf("IndexDocument() error = %v", err)
	}

	texts, _ := tp.chunks.ListTexts(ctx)
	tp.vectors.EXPECT().GetCollectionInfo(gomock.Any(), testCollection).Return(&vectorstore.CollectionInfo{VectorSize: 4, PointsCount: len(texts)}, nil)

	stats, err = tp.CoverageStats(ctx)
	if err != nil {
		t.Fatalf("CoverageStats() error = %v", err)
	}
	if stats.DocsIndexed != 2 {
		t.Errorf("DocsIndexed = %d, want 2", stats.DocsIndexed)
	}
	if stats.DocsWith0Chunks != 1 {
		t.Errorf("DocsWith0Chunks = %d, want 1", stats.DocsWith0Chunks)
	}
	if stats.ChunksStored != len(texts) || stats.PointsStored != len(texts) {
		t.Errorf("ChunksStored = %d, PointsStored = %d, want %d", stats.ChunksStored, stats.PointsStored, len(texts))
	}
	if want := chunker.SummarizeTokens(chunker.HeuristicEstimator{}, texts); stats.ChunkTokenStats != want {
		t.Errorf("ChunkTokenStats = %+v, want %+v", stats.ChunkTokenStats, want)
	}
	if stats.ChunkTokenStats.Min <= 0 || stats.ChunkTokenStats.Max < stats.ChunkTokenStats.Min {
		t.Errorf("ChunkTokenStats = %+v", stats.ChunkTokenStats)
	}
	if stats.EmbeddingCache != nil {
		t.Errorf("EmbeddingCache = %+v, want nil without a caching embedder", stats.EmbeddingCache)
	}
}

func TestPipeline_CoverageStats_EmbeddingCache(t *testing.T) {
	tp := newTestPipeline(t)
	ctx := context.Background()

	cached, err := llm.NewCachedEmbedder(tp.embedder, 16)
	if err != nil {
		t.Fatalf("NewCachedEmbedder() error = %v", err)
	}
	p := NewPipeline(tp.docs, tp.chunks, chunker.New(), cached, tp.vectors, tp.opts)

	tp.embedder.EXPECT().Embed(gomock.Any(), []string{"setup"}).DoAndReturn(fakeVectors)
	tp.vectors.EXPECT().Search(gomock.Any(), testCollection, gomock.Any(), 5, gomock.Nil()).Return(nil, nil).Times(2)
	for range 2 {
		if _, err := p.Search(ctx, "setup", 5, ""); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}

	tp.vectors.EXPECT().GetCollectionInfo(gomock.Any(), testCollection).Return(&vectorstore.CollectionInfo{}, nil)
	stats, err := p.CoverageStats(ctx)
	if err != nil {
		t.Fatalf("CoverageStats() error = %v", err)
	}
	want := EmbeddingCacheStats{Entries: 1, Hits: 1, Misses: 1}
	if stats.EmbeddingCache == nil || *stats.EmbeddingCache != want {
		t.Errorf("EmbeddingCache = %+v, want %+v", stats.EmbeddingCache, want)
	}
}

func TestPipeline_CoverageStats_CollectionUnavailable(t *testing.T) {
	tp := newTestPipeline(t)
	tp.vectors.EXPECT().GetCollectionInfo(gomock.Any(), testCollection).Return(nil, errors.New("unreachable"))

	stats, err := tp.CoverageStats(context.Background())
	if err != nil {
		t.Fatalf("CoverageStats() error = %v", err)
	}
	if stats.PointsStored != -1 {
		t.Errorf("PointsStored = %d, want -1", stats.PointsStored)
	}
}

func TestPipeline_IndexVersion(t *testing.T) {
	base := Options{ModelName: "m", ChunkConfig: chunker.Config{MaxChars: 1200, OverlapChars: 120}}
	version := NewPipeline(nil, nil, chunker.New(), nil, nil, base).IndexVersion()

	if again := NewPipeline(nil, nil, chunker.New(), nil, nil, base).IndexVersion(); again != version {
		t.Errorf("IndexVersion() not stable: %s vs %s", version, again)
	}

	changes := map[string]func(o *Options){
		"model":     func(o *Options) { o.ModelName = "other" },
		"max chars": func(o *Options) { o.ChunkConfig.MaxChars = 800 },
		"overlap":   func(o *Options) { o.ChunkConfig.OverlapChars = 0 },
		"semantic":  func(o *Options) { o.ChunkConfig.SemanticEnabled = true },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			opts := base
			change(&opts)
			if got := NewPipeline(nil, nil, chunker.New(), nil, nil, opts).IndexVersion(); got == version {
				t.Errorf("IndexVersion() unchanged after %s change", name)
			}
		})
	}

	// Workers and paths do not affect the chunks.
	opts := base
	opts.Workers = 8
	opts.Root = "/elsewhere"
	if got := NewPipeline(nil, nil, chunker.New(), nil, nil, opts).IndexVersion(); got != version {
		t.Errorf("IndexVersion() changed with workers/root")
	}
}
