package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported values for TOKENIZER.
const (
	TokenizerHeuristic = "heuristic"
	TokenizerCL100K    = "cl100k_base"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string
	DBPath    string

	// Chunking defaults applied when a request leaves a field unset.
	ChunkMaxChars     int
	ChunkMaxTokens    int
	ChunkOverlapChars int
	SemanticThreshold float64
	Tokenizer         string

	EmbeddingBaseURL    string
	EmbeddingAPIKey     string
	EmbeddingModelName  string
	EmbeddingVectorSize int
	EmbeddingCacheSize  int

	QdrantURL        string
	QdrantCollection string

	DocsPath     string
	IndexWorkers int
}

// EmbeddingsEnabled reports whether an embedding backend is configured.
func (c *Config) EmbeddingsEnabled() bool {
	return c.EmbeddingBaseURL != ""
}

// IndexingEnabled reports whether a document directory should be indexed
// into the vector store.
func (c *Config) IndexingEnabled() bool {
	return c.DocsPath != "" && c.QdrantURL != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		DBPath:             getEnv("DB_PATH", "./data/smartchunk.db"),
		Tokenizer:          strings.ToLower(getEnv("TOKENIZER", TokenizerHeuristic)),
		EmbeddingBaseURL:   strings.TrimRight(getEnv("EMBEDDING_BASE_URL", ""), "/"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		QdrantURL:          getEnv("QDRANT_URL", ""),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "chunks"),
		DocsPath:           getEnv("DOCS_PATH", ""),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	ints := []struct {
		key      string
		def      int
		dst      *int
		positive bool
	}{
		{key: "CHUNK_MAX_CHARS", def: 1200, dst: &cfg.ChunkMaxChars, positive: true},
		{key: "CHUNK_MAX_TOKENS", def: 0, dst: &cfg.ChunkMaxTokens},
		{key: "CHUNK_OVERLAP_CHARS", def: 120, dst: &cfg.ChunkOverlapChars},
		{key: "EMBEDDING_VECTOR_SIZE", def: 384, dst: &cfg.EmbeddingVectorSize, positive: true},
		{key: "EMBEDDING_CACHE_SIZE", def: 4096, dst: &cfg.EmbeddingCacheSize},
		{key: "INDEX_WORKERS", def: 4, dst: &cfg.IndexWorkers, positive: true},
	}
	for _, v := range ints {
		n, err := getEnvInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		if v.positive && n <= 0 {
			return nil, fmt.Errorf("%s must be greater than 0", v.key)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s must not be negative", v.key)
		}
		*v.dst = n
	}

	threshold, err := strconv.ParseFloat(getEnv("SEMANTIC_THRESHOLD", "0.4"), 64)
	if err != nil {
		return nil, fmt.Errorf("SEMANTIC_THRESHOLD must be a valid number: %w", err)
	}
	if threshold < -1 || threshold > 1 {
		return nil, fmt.Errorf("SEMANTIC_THRESHOLD must be between -1 and 1")
	}
	cfg.SemanticThreshold = threshold

	if cfg.Tokenizer != TokenizerHeuristic && cfg.Tokenizer != TokenizerCL100K {
		return nil, fmt.Errorf("TOKENIZER must be %s or %s, got %q", TokenizerHeuristic, TokenizerCL100K, cfg.Tokenizer)
	}

	// The vector store is fed with embeddings, and indexing needs both.
	if cfg.QdrantURL != "" && cfg.EmbeddingBaseURL == "" {
		return nil, fmt.Errorf("QDRANT_URL requires EMBEDDING_BASE_URL")
	}
	if cfg.DocsPath != "" && cfg.QdrantURL == "" {
		return nil, fmt.Errorf("DOCS_PATH requires QDRANT_URL")
	}

	// Create ./data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}
