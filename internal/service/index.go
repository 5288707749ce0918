package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index_service.go -package=mocks smartchunk/internal/service IndexService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_indexer.go -package=mocks smartchunk/internal/service DocumentIndexer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"smartchunk/internal/contextutil"
	"smartchunk/internal/indexer"
)

const (
	// DefaultSearchK is the number of hits returned when k is unset.
	DefaultSearchK = 5
	// MaxSearchK caps k on search requests.
	MaxSearchK = 50
)

// ErrIndexBusy is returned when an index run is already in progress.
var ErrIndexBusy = errors.New("indexing already in progress")

// DocumentIndexer is the subset of the indexing pipeline used by the service.
// This interface is defined from the service layer's perspective (consumer-first).
type DocumentIndexer interface {
	IndexAll(ctx context.Context, force bool) (*indexer.IndexResult, error)
	ClearAll(ctx context.Context) error
	Search(ctx context.Context, query string, k int, relPath string) ([]indexer.SearchHit, error)
	CoverageStats(ctx context.Context) (*indexer.CoverageStats, error)
}

// IndexService provides document indexing and search.
type IndexService interface {
	// Reindex runs a full index pass. With force, the index is cleared first
	// and every file is re-chunked. Only one run may be active at a time.
	Reindex(ctx context.Context, force bool) (*indexer.IndexResult, error)
	// StartReindex claims the run and indexes in the background, logging the
	// outcome. It returns ErrIndexBusy without starting when a run is active.
	// ctx must outlive the call; pass a context detached from the request.
	StartReindex(ctx context.Context, force bool) error
	// Search returns up to k chunks similar to query, optionally within one document.
	Search(ctx context.Context, query string, k int, relPath string) ([]indexer.SearchHit, error)
	// Stats reports index coverage.
	Stats(ctx context.Context) (*indexer.CoverageStats, error)
}

// indexService implements IndexService.
type indexService struct {
	indexer DocumentIndexer
	running atomic.Bool
}

// NewIndexService creates a new IndexService.
func NewIndexService(idx DocumentIndexer) IndexService {
	return &indexService{indexer: idx}
}

// Reindex runs the indexing pipeline. A partial failure still returns the
// result alongside the error.
func (s *indexService) Reindex(ctx context.Context, force bool) (*indexer.IndexResult, error) {
	if err := s.claim(ctx); err != nil {
		return nil, err
	}
	defer s.running.Store(false)

	return s.run(ctx, force)
}

// StartReindex runs Reindex in a goroutine once the run is claimed.
func (s *indexService) StartReindex(ctx context.Context, force bool) error {
	if err := s.claim(ctx); err != nil {
		return err
	}

	go func() {
		defer s.running.Store(false)

		logger := contextutil.LoggerFromContext(ctx)
		result, err := s.run(ctx, force)
		switch {
		case errors.Is(err, indexer.ErrIndexIncomplete):
			logger.WarnContext(ctx, "re-indexing completed with errors", "failed", result.Failed, "files", result.Files)
		case err != nil:
			logger.ErrorContext(ctx, "re-indexing failed", "error", err)
		default:
			logger.InfoContext(ctx, "re-indexing completed", "indexed", result.Indexed, "skipped", result.Skipped)
		}
	}()
	return nil
}

func (s *indexService) claim(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "index run rejected, another run is active")
		return ErrIndexBusy
	}
	return nil
}

func (s *indexService) run(ctx context.Context, force bool) (*indexer.IndexResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if force {
		if err := s.indexer.ClearAll(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to clear existing data", "error", err)
			return nil, WrapError(err, "failed to clear index")
		}
		logger.InfoContext(ctx, "cleared all existing indexed data")
	}

	result, err := s.indexer.IndexAll(ctx, force)
	if err != nil {
		if errors.Is(err, indexer.ErrIndexIncomplete) {
			return result, err
		}
		return nil, WrapError(err, "failed to index documents")
	}
	return result, nil
}

// Search validates the query and delegates to the pipeline.
func (s *indexService) Search(ctx context.Context, query string, k int, relPath string) ([]indexer.SearchHit, error) {
	if k == 0 {
		k = DefaultSearchK
	}
	if k < 0 || k > MaxSearchK {
		return nil, &ValidationError{Field: "k", Message: "must be between 1 and 50"}
	}

	hits, err := s.indexer.Search(ctx, query, k, relPath)
	if errors.Is(err, indexer.ErrEmptyQuery) {
		return nil, &ValidationError{Field: "q", Message: "cannot be empty"}
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "search failed", "error", err)
		return nil, fmt.Errorf("search failed: %w: %w", ErrExternalService, err)
	}
	return hits, nil
}

// Stats returns index coverage statistics.
func (s *indexService) Stats(ctx context.Context) (*indexer.CoverageStats, error) {
	stats, err := s.indexer.CoverageStats(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to compute index stats")
	}
	return stats, nil
}
