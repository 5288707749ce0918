// Package indexer chunks a directory of documents and keeps SQLite and
// Qdrant in sync with it.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"smartchunk/internal/chunker"
	"smartchunk/internal/contextutil"
	"smartchunk/internal/parsers"
	"smartchunk/internal/storage"
	"smartchunk/internal/vectorstore"
)

var (
	// ErrIndexIncomplete is returned by IndexAll when some files failed.
	// The accompanying IndexResult lists them.
	ErrIndexIncomplete = errors.New("indexing completed with errors")
	// ErrEmptyQuery is returned by Search for a blank query.
	ErrEmptyQuery = errors.New("query is empty")
)

// Options configures a Pipeline.
type Options struct {
	Root        string // Documents root directory
	Collection  string // Qdrant collection name
	VectorSize  int
	ModelName   string // Embedding model, part of the index version
	ChunkConfig chunker.Config
	Workers     int // Concurrent documents in IndexAll, minimum 1
}

// Pipeline orchestrates the indexing of documents into SQLite and Qdrant.
type Pipeline struct {
	docRepo     storage.DocumentStore
	chunkRepo   storage.ChunkStore
	chunker     *chunker.Chunker
	embedder    chunker.Embedder
	vectorStore vectorstore.VectorStore
	opts        Options
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	ch *chunker.Chunker,
	embedder chunker.Embedder,
	vectorStore vectorstore.VectorStore,
	opts Options,
) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		chunker:     ch,
		embedder:    embedder,
		vectorStore: vectorStore,
		opts:        opts,
	}
}

// IndexDocument indexes a single file. Unless force is set, a file whose
// hash matches the stored one is skipped and IndexDocument returns false.
// The stored hash covers the file content and IndexVersion, so changing the
// chunking config re-indexes every file. Embeddings are computed before
// anything is written, so a backend failure leaves the previous index of the
// file untouched. The hash is written last: a failed store or upsert leaves
// the document unhashed and the next run retries it.
func (p *Pipeline) IndexDocument(ctx context.Context, file ScannedFile, force bool) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return false, fmt.Errorf("failed to read file %s: %w", file.AbsPath, err)
	}

	hashHex := p.documentHash(content)

	existing, err := p.docRepo.GetByPath(ctx, file.RelPath)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("failed to check existing document: %w", err)
	}

	if !force && existing != nil && existing.Hash == hashHex {
		logger.DebugContext(ctx, "skipping unchanged file", "rel_path", file.RelPath, "hash", hashHex)
		return false, nil
	}

	text, err := parsers.Normalise(file.Format, string(content))
	if err != nil {
		return false, fmt.Errorf("failed to normalise %s: %w", file.RelPath, err)
	}
	title := parsers.ExtractTitle([]byte(text), filepath.Base(file.RelPath))

	chunks, err := p.chunker.Chunk(ctx, text, p.opts.ChunkConfig)
	if err != nil {
		return false, fmt.Errorf("failed to chunk %s: %w", file.RelPath, err)
	}

	var embeddings [][]float32
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		embeddings, err = p.embedder.Embed(ctx, texts)
		if err != nil {
			return false, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(embeddings) != len(chunks) {
			return false, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
		}
	} else {
		logger.WarnContext(ctx, "no chunks generated", "rel_path", file.RelPath)
	}

	doc := &storage.DocumentRecord{
		RelPath: file.RelPath,
		Format:  string(file.Format),
		Title:   title,
	}
	if existing != nil {
		doc.ID = existing.ID
	}
	if err := p.docRepo.Upsert(ctx, doc); err != nil {
		return false, fmt.Errorf("failed to upsert document: %w", err)
	}

	if existing != nil {
		oldIDs, err := p.chunkRepo.ListIDsByDocument(ctx, doc.ID)
		if err != nil {
			return false, fmt.Errorf("failed to list old chunk IDs: %w", err)
		}
		if err := p.vectorStore.Delete(ctx, p.opts.Collection, oldIDs); err != nil {
			// New points get new ids, so stale ones only cost search noise.
			logger.WarnContext(ctx, "failed to delete old chunks from Qdrant", "error", err, "count", len(oldIDs))
		}
	}

	records := make([]*storage.ChunkRecord, len(chunks))
	points := make([]vectorstore.Point, len(chunks))
	for i, c := range chunks {
		id := uuid.NewString()
		records[i] = &storage.ChunkRecord{
			ID:         id,
			DocumentID: doc.ID,
			ChunkIndex: i,
			Label:      c.ID,
			HeaderPath: c.HeaderPath,
			StartLine:  c.StartLine,
			EndLine:    c.EndLine,
			Text:       c.Text,
		}
		points[i] = vectorstore.Point{
			ID:  id,
			Vec: embeddings[i],
			Meta: map[string]any{
				"document_id": doc.ID,
				"rel_path":    file.RelPath,
				"title":       title,
				"label":       c.ID,
				"header_path": c.HeaderPath,
				"chunk_index": i,
				"start_line":  c.StartLine,
				"end_line":    c.EndLine,
			},
		}
	}

	if err := p.chunkRepo.ReplaceForDocument(ctx, doc.ID, records); err != nil {
		return false, fmt.Errorf("failed to store chunks: %w", err)
	}

	if err := p.vectorStore.Upsert(ctx, p.opts.Collection, points); err != nil {
		return false, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	doc.Hash = hashHex
	if err := p.docRepo.Upsert(ctx, doc); err != nil {
		return false, fmt.Errorf("failed to store document hash: %w", err)
	}

	logger.InfoContext(ctx, "indexed document", "rel_path", file.RelPath, "chunks", len(chunks), "title", title)
	return true, nil
}

// FileError records a file that failed to index.
type FileError struct {
	RelPath string `json:"rel_path"`
	Error   string `json:"error"`
}

// IndexResult summarises an IndexAll run.
type IndexResult struct {
	Files    int         `json:"files"`
	Indexed  int         `json:"indexed"`
	Skipped  int         `json:"skipped"`
	Failed   int         `json:"failed"`
	Failures []FileError `json:"failures,omitempty"`
}

// IndexAll scans the documents root and indexes every supported file with
// up to Options.Workers files in flight. Per-file errors are logged and
// collected; if any occurred the result is returned with ErrIndexIncomplete.
func (p *Pipeline) IndexAll(ctx context.Context, force bool) (*IndexResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := ScanDir(ctx, p.opts.Root)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "starting indexing", "total_files", len(files), "workers", p.opts.Workers, "force", force)

	result := &IndexResult{Files: len(files)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			indexed, err := p.IndexDocument(gctx, file, force)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				logger.ErrorContext(gctx, "failed to index file", "rel_path", file.RelPath, "error", err)
				result.Failed++
				result.Failures = append(result.Failures, FileError{RelPath: file.RelPath, Error: err.Error()})
			case indexed:
				result.Indexed++
			default:
				result.Skipped++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].RelPath < result.Failures[j].RelPath
	})

	logger.InfoContext(ctx, "indexing completed",
		"total_files", result.Files,
		"indexed", result.Indexed,
		"skipped", result.Skipped,
		"errors", result.Failed,
	)

	if result.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d files failed", ErrIndexIncomplete, result.Failed, result.Files)
	}
	return result, nil
}

// SearchHit is a chunk returned by Search.
type SearchHit struct {
	Score   float32              `json:"score"`
	RelPath string               `json:"rel_path"`
	Title   string               `json:"title"`
	Chunk   *storage.ChunkRecord `json:"chunk"`
}

// Search embeds the query and returns up to k indexed chunks by similarity.
// A non-empty relPath restricts the search to one document. Points whose
// chunk row is gone are dropped.
func (p *Pipeline) Search(ctx context.Context, query string, k int, relPath string) ([]SearchHit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vecs, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedding count mismatch: expected 1, got %d", len(vecs))
	}

	var filters map[string]any
	if relPath != "" {
		filters = map[string]any{"rel_path": relPath}
	}

	results, err := p.vectorStore.Search(ctx, p.opts.Collection, vecs[0], k, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search vectors: %w", err)
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		chunk, err := p.chunkRepo.GetByID(ctx, r.PointID)
		if errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(ctx, "search hit without chunk row", "point_id", r.PointID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load chunk %s: %w", r.PointID, err)
		}

		hit := SearchHit{Score: r.Score, Chunk: chunk}
		hit.RelPath, _ = r.Meta["rel_path"].(string)
		hit.Title, _ = r.Meta["title"].(string)
		hits = append(hits, hit)
	}

	return hits, nil
}

// ClearAll drops every document, chunk and vector point and recreates the
// empty collection.
func (p *Pipeline) ClearAll(ctx context.Context) error {
	if err := p.docRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	if err := p.vectorStore.DeleteCollection(ctx, p.opts.Collection); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	if err := p.vectorStore.EnsureCollection(ctx, p.opts.Collection, p.opts.VectorSize); err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "index cleared", "collection", p.opts.Collection)
	return nil
}
