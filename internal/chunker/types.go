package chunker

import (
	"errors"
	"fmt"
)

const (
	// DefaultMaxChars is the character budget applied when Config.MaxChars is unset.
	DefaultMaxChars = 1200
	// DefaultOverlapChars is the overlap used by DefaultConfig.
	DefaultOverlapChars = 120
	// DefaultSemanticThreshold is the cosine similarity below which adjacent sentences are cut apart.
	DefaultSemanticThreshold = 0.4
	// DocumentHeader is the header path used when a document has no headings.
	DocumentHeader = "Document"
	// NaiveHeader is the header path reported by the naive baseline.
	NaiveHeader = "N/A"
)

var (
	// ErrInvalidConfig is returned when a chunking configuration is rejected.
	ErrInvalidConfig = errors.New("invalid chunker config")
	// ErrEmbedderUnavailable is returned when semantic splitting is requested
	// but no embedding backend was configured.
	ErrEmbedderUnavailable = errors.New("embedding backend unavailable")
)

// ConfigError describes a rejected configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid chunker config: %s %s", e.Field, e.Message)
}

// Is reports ConfigError as ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Chunk is a single output passage.
type Chunk struct {
	ID         string `json:"id"`          // c0001 for structure-aware, n0001 for naive
	Text       string `json:"text"`        // Final text, possibly prefixed with overlap
	HeaderPath string `json:"header_path"` // Format: "Title / Section / Subsection"
	StartLine  int    `json:"start_line"`  // 1-based, 0 for naive chunks
	EndLine    int    `json:"end_line"`    // 1-based inclusive, 0 for naive chunks
}

// Config holds the per-call chunking parameters.
type Config struct {
	// MaxTokens bounds the estimated token count of a pack. 0 means unlimited.
	MaxTokens int
	// MaxChars bounds the rune count of a pack. 0 applies DefaultMaxChars.
	MaxChars int
	// OverlapChars is the number of trailing runes carried into the next chunk. 0 disables overlap.
	OverlapChars int
	// SemanticEnabled splits oversized prose segments by sentence similarity.
	SemanticEnabled bool
	// SemanticThreshold is the cosine similarity cutoff between adjacent sentences.
	SemanticThreshold float64
	// SemanticModelID selects the embedding backend. Opaque to the chunker.
	SemanticModelID string
}

// DefaultConfig returns the configuration used when callers have no preferences.
func DefaultConfig() Config {
	return Config{
		MaxChars:          DefaultMaxChars,
		OverlapChars:      DefaultOverlapChars,
		SemanticThreshold: DefaultSemanticThreshold,
	}
}

// normalize validates the config and fills defaults for unset fields.
func (c Config) normalize() (Config, error) {
	if c.MaxChars < 0 {
		return c, &ConfigError{Field: "max_chars", Message: "must be greater than 0"}
	}
	if c.MaxChars == 0 {
		c.MaxChars = DefaultMaxChars
	}
	if c.MaxTokens < 0 {
		return c, &ConfigError{Field: "max_tokens", Message: "must be greater than 0 when set"}
	}
	if c.OverlapChars < 0 {
		return c, &ConfigError{Field: "overlap_chars", Message: "must not be negative"}
	}
	if c.SemanticThreshold < -1 || c.SemanticThreshold > 1 {
		return c, &ConfigError{Field: "semantic_threshold", Message: "must be between -1 and 1"}
	}
	return c, nil
}

// section is a heading and the half-open line range it owns.
type section struct {
	headerPath string
	start      int
	end        int
}

// segment is an atomic span of lines. Lines are 1-based and inclusive.
type segment struct {
	text      string
	startLine int
	endLine   int
	isCode    bool
}

// pack is a budget-respecting run of segments before overlap is applied.
type pack struct {
	text      string
	startLine int
	endLine   int
	isCode    bool
}
