package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartchunk/internal/chunker"
	"smartchunk/internal/config"
	"smartchunk/internal/http"
	"smartchunk/internal/indexer"
	"smartchunk/internal/llm"
	"smartchunk/internal/service"
	"smartchunk/internal/storage"
	"smartchunk/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var estimator chunker.TokenEstimator = chunker.HeuristicEstimator{}
	if cfg.Tokenizer == config.TokenizerCL100K {
		tiktoken, err := chunker.NewTiktokenEstimator(cfg.Tokenizer)
		if err != nil {
			log.Fatalf("Failed to load tokenizer: %v", err)
		}
		estimator = tiktoken
	}
	slog.Info("Token estimator configured", "tokenizer", cfg.Tokenizer)

	chunkOpts := []chunker.Option{chunker.WithTokenEstimator(estimator)}
	var embeddings *llm.EmbeddingsClient
	if cfg.EmbeddingsEnabled() {
		embeddings = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingVectorSize)
		chunkOpts = append(chunkOpts, chunker.WithEmbedderFactory(func(modelID string) (chunker.Embedder, error) {
			client := embeddings.WithModel(modelID)
			if client.Model != cfg.EmbeddingModelName {
				// Only the default model is known to produce collection-sized vectors.
				client.ExpectedSize = 0
			}
			cached, err := llm.NewCachedEmbedder(client, cfg.EmbeddingCacheSize)
			if err != nil {
				return nil, err
			}
			slog.Info("Semantic embedder ready", "model", client.Model, "cache_size", cfg.EmbeddingCacheSize)
			return cached, nil
		}))
	} else {
		slog.Info("No embedding backend configured, semantic splitting disabled")
	}
	ch := chunker.New(chunkOpts...)

	defaults := chunker.Config{
		MaxChars:          cfg.ChunkMaxChars,
		MaxTokens:         cfg.ChunkMaxTokens,
		OverlapChars:      cfg.ChunkOverlapChars,
		SemanticThreshold: cfg.SemanticThreshold,
	}

	deps := &http.Deps{
		ChunkService: service.NewChunkService(ch, defaults, cfg.EmbeddingModelName),
		Collection:   cfg.QdrantCollection,
	}

	var vectorStore *vectorstore.QdrantStore
	if cfg.QdrantURL != "" {
		vectorStore, err = vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create vector store: %v", err)
		}
		defer func() {
			if err := vectorStore.Close(); err != nil {
				slog.Error("Failed to close vector store", "error", err)
			}
		}()

		if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingVectorSize); err != nil {
			log.Fatalf("Failed to ensure collection: %v", err)
		}
		slog.Info("Vector store ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbeddingVectorSize)
		deps.VectorStore = vectorStore
	}

	if cfg.IndexingEnabled() {
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		if err := storage.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		slog.Info("Database ready", "path", cfg.DBPath)
		deps.DB = db

		indexEmbedder, err := llm.NewCachedEmbedder(embeddings, cfg.EmbeddingCacheSize)
		if err != nil {
			log.Fatalf("Failed to create embedder: %v", err)
		}

		// Fail fast when the embedding model does not match the collection.
		if _, err := indexEmbedder.Embed(ctx, []string{"test"}); err != nil {
			log.Fatalf("Failed to validate embedding model: %v", err)
		}

		pipeline := indexer.NewPipeline(
			storage.NewDocumentRepo(db),
			storage.NewChunkRepo(db),
			ch,
			indexEmbedder,
			vectorStore,
			indexer.Options{
				Root:        cfg.DocsPath,
				Collection:  cfg.QdrantCollection,
				VectorSize:  cfg.EmbeddingVectorSize,
				ModelName:   cfg.EmbeddingModelName,
				ChunkConfig: defaults,
				Workers:     cfg.IndexWorkers,
			},
		)
		indexService := service.NewIndexService(pipeline)
		deps.IndexService = indexService

		// Start indexing in background after router is ready
		go func() {
			slog.Info("Starting background indexing", "docs_path", cfg.DocsPath)
			result, err := indexService.Reindex(ctx, false)
			switch {
			case errors.Is(err, indexer.ErrIndexIncomplete):
				slog.Warn("Indexing completed with errors", "failed", result.Failed, "files", result.Files)
			case err != nil:
				slog.Error("Indexing failed", "error", err)
			default:
				slog.Info("Indexing completed", "indexed", result.Indexed, "skipped", result.Skipped)
			}
		}()
	}

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           http.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr, "indexing", cfg.IndexingEnabled(), "semantic", cfg.EmbeddingsEnabled())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
