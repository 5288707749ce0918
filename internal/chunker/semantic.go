package chunker

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks smartchunk/internal/chunker Embedder

// Embedder turns sentences into fixed-length vectors, one per input, same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedderFactory builds the embedding backend for a model id.
type EmbedderFactory func(modelID string) (Embedder, error)

// semanticSplitter cuts an oversized prose segment where adjacent sentences diverge.
type semanticSplitter struct {
	embedder  Embedder
	threshold float64
}

// split returns runs of sentences joined by single spaces. A cut is made
// between two sentences when their cosine similarity is below the threshold.
func (s *semanticSplitter) split(ctx context.Context, text string) ([]string, error) {
	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return []string{text}, nil
	}

	vecs, err := s.embedder.Embed(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("semantic split: embed sentences: %w", err)
	}
	if len(vecs) != len(sentences) {
		return nil, fmt.Errorf("semantic split: expected %d embeddings, got %d", len(sentences), len(vecs))
	}

	var spans []string
	run := []string{sentences[0]}
	for i := 1; i < len(sentences); i++ {
		if cosineSimilarity(vecs[i-1], vecs[i]) < s.threshold {
			spans = append(spans, strings.Join(run, " "))
			run = nil
		}
		run = append(run, sentences[i])
	}
	spans = append(spans, strings.Join(run, " "))

	return spans, nil
}

// splitSentences breaks text after '.', '?' or '!' when followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '?', '!':
			if unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// cosineSimilarity returns 0 when either vector has zero magnitude or the
// lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
