package chunker

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"
)

const basicDoc = "# Title\n\n" +
	"## A\n" +
	"para1\n\n" +
	"## B\n" +
	"line1\n\n" +
	"- item 1\n" +
	"- item 2\n\n" +
	"```python\n" +
	"print('x')\n" +
	"```\n"

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[len(r)-n:]
	}
	return string(r)
}

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if _, ok := c.estimator.(HeuristicEstimator); !ok {
		t.Errorf("New() estimator = %T, want HeuristicEstimator", c.estimator)
	}
	if c.factory != nil {
		t.Error("New() should have no embedder factory by default")
	}
}

func TestChunker_Chunk_Basic(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(context.Background(), basicDoc, Config{MaxChars: 60, OverlapChars: 10})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}

	if len(chunks) < 1 {
		t.Fatal("Chunk() should produce at least one chunk")
	}
	for i, ch := range chunks {
		if !strings.Contains(ch.HeaderPath, "Title") {
			t.Errorf("chunk[%d].HeaderPath = %q, want it to contain Title", i, ch.HeaderPath)
		}
	}
	if len(chunks) >= 2 {
		tail := lastRunes(chunks[0].Text, 10)
		if !strings.Contains(chunks[1].Text, tail) {
			t.Errorf("chunk[1].Text = %q, want it to contain %q", chunks[1].Text, tail)
		}
	}

	want := []Chunk{
		{ID: "c0001", Text: "# Title", HeaderPath: "Title", StartLine: 1, EndLine: 1},
		{ID: "c0002", Text: "# Title\n\n## A\npara1", HeaderPath: "Title / A", StartLine: 3, EndLine: 4},
		{
			ID:         "c0003",
			Text:       "## B\nline1\n\n- item 1\n\n- item 2\n\n```python\nprint('x')\n```",
			HeaderPath: "Title / B",
			StartLine:  6,
			EndLine:    14,
		},
	}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("Chunk() = %+v, want %+v", chunks, want)
	}
}

func TestChunker_Chunk_EmptyInput(t *testing.T) {
	c := New()
	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		chunks, err := c.Chunk(context.Background(), text, DefaultConfig())
		if err != nil {
			t.Fatalf("Chunk(%q) unexpected error: %v", text, err)
		}
		if len(chunks) != 0 {
			t.Errorf("Chunk(%q) returned %d chunks, want 0", text, len(chunks))
		}
	}
}

func TestChunker_Chunk_NoHeadings(t *testing.T) {
	c := New()
	text := "First paragraph here.\n\nSecond paragraph here.\n\n- a list\n- more\n"
	chunks, err := c.Chunk(context.Background(), text, Config{MaxChars: 25, OverlapChars: 5})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Chunk() returned %d chunks, want several", len(chunks))
	}
	for i, ch := range chunks {
		if ch.HeaderPath != DocumentHeader {
			t.Errorf("chunk[%d].HeaderPath = %q, want %q", i, ch.HeaderPath, DocumentHeader)
		}
	}
}

func TestChunker_Chunk_OversizedParagraph(t *testing.T) {
	c := New()
	paragraph := strings.TrimSpace(strings.Repeat("This sentence keeps going on. ", 12))
	chunks, err := c.Chunk(context.Background(), paragraph, Config{MaxChars: 100, OverlapChars: 20})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Chunk() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != paragraph {
		t.Errorf("Chunk() text = %q, want the full paragraph", chunks[0].Text)
	}
}

func TestChunker_Chunk_IDs(t *testing.T) {
	c := New()
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "Paragraph number %d with some words.\n\n", i)
	}

	chunks, err := c.Chunk(context.Background(), b.String(), Config{MaxChars: 40})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}

	idRe := regexp.MustCompile(`^c\d{4}$`)
	for i, ch := range chunks {
		if !idRe.MatchString(ch.ID) {
			t.Errorf("chunk[%d].ID = %q, want c + 4 digits", i, ch.ID)
		}
		if want := fmt.Sprintf("c%04d", i+1); ch.ID != want {
			t.Errorf("chunk[%d].ID = %q, want %q", i, ch.ID, want)
		}
	}

	// ids restart for every call
	again, err := c.Chunk(context.Background(), "# New\n\nbody", Config{MaxChars: 40})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	if again[0].ID != "c0001" {
		t.Errorf("second call first id = %q, want c0001", again[0].ID)
	}
}

const mixedDoc = `Preface line before any heading.

# Guide

Intro paragraph that explains the guide in a few words.

## Install

Run the installer and follow the prompts on screen.
Then restart the machine.

- step one
- step two
- step three

` + "```sh\nmake install\nmake test\n```" + `

## Usage

### Basics

Open the app. Pick a file. Press go.

### Advanced

Tune the knobs carefully and watch the output closely for errors.
`

func TestChunker_Chunk_Coverage(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(context.Background(), mixedDoc, Config{MaxChars: 80, OverlapChars: 15})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}

	covered := map[int]bool{}
	for _, ch := range chunks {
		if ch.StartLine < 1 || ch.EndLine < ch.StartLine {
			t.Errorf("chunk %s has invalid lines %d-%d", ch.ID, ch.StartLine, ch.EndLine)
		}
		for l := ch.StartLine; l <= ch.EndLine; l++ {
			covered[l] = true
		}
	}

	for i, line := range strings.Split(strings.TrimSuffix(mixedDoc, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !covered[i+1] {
			t.Errorf("line %d %q is not covered by any chunk", i+1, line)
		}
	}
}

func TestChunker_Chunk_HeaderFidelity(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(context.Background(), mixedDoc, Config{MaxChars: 80})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}

	for i, ch := range chunks {
		if !strings.HasPrefix(ch.HeaderPath, "Guide") {
			t.Errorf("chunk[%d].HeaderPath = %q, want prefix Guide", i, ch.HeaderPath)
		}
	}
	if chunks[0].StartLine != 1 {
		t.Errorf("first chunk starts at line %d, want 1 (preface)", chunks[0].StartLine)
	}

	last := chunks[len(chunks)-1]
	if last.HeaderPath != "Guide / Usage / Advanced" {
		t.Errorf("last chunk HeaderPath = %q, want Guide / Usage / Advanced", last.HeaderPath)
	}
}

func TestChunker_Chunk_BudgetRespect(t *testing.T) {
	c := New()
	const maxChars = 80
	chunks, err := c.Chunk(context.Background(), mixedDoc, Config{MaxChars: maxChars})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}

	for i, ch := range chunks {
		if n := utf8.RuneCountInString(ch.Text); n > maxChars {
			t.Errorf("chunk[%d] has %d runes, exceeds %d", i, n, maxChars)
		}
	}
}

func TestChunker_Chunk_OverlapProperty(t *testing.T) {
	c := New()
	text := "# Notes\n\nalpha beta gamma delta.\n\nepsilon zeta eta theta.\n\niota kappa lambda mu.\n"
	chunks, err := c.Chunk(context.Background(), text, Config{MaxChars: 30, OverlapChars: 10})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("Chunk() returned %d chunks, want at least 3", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		tail := lastRunes(chunks[i-1].Text, 10)
		if !strings.Contains(chunks[i].Text, tail) {
			t.Errorf("chunk[%d].Text = %q, want it to contain %q", i, chunks[i].Text, tail)
		}
	}
}

func TestChunker_Chunk_TokenBudget(t *testing.T) {
	c := New()
	text := "aaaa aaaa aa\n\nbbbb bbbb bb\n\ncccc cccc cc"
	chunks, err := c.Chunk(context.Background(), text, Config{MaxChars: 1000, MaxTokens: 5})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("Chunk() returned %d chunks, want 3", len(chunks))
	}
	for i, ch := range chunks {
		if tokens := c.EstimateTokens(ch.Text); tokens > 5 {
			t.Errorf("chunk[%d] has %d tokens, exceeds 5", i, tokens)
		}
	}
}

func TestChunker_Chunk_Deterministic(t *testing.T) {
	c := New()
	cfg := Config{MaxChars: 70, OverlapChars: 12}

	first, err := c.Chunk(context.Background(), mixedDoc, cfg)
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	second, err := New().Chunk(context.Background(), mixedDoc, cfg)
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Chunk() is not deterministic for identical input and config")
	}
}

func TestChunker_Chunk_GrowingBuffer(t *testing.T) {
	c := New()
	cfg := Config{MaxChars: 30}
	prefix := "# Log\n\nfirst entry line.\n\nsecond entry line.\n\n"
	grown := prefix + "third entry line.\n\nfourth entry line.\n"

	before, err := c.Chunk(context.Background(), prefix, cfg)
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	after, err := c.Chunk(context.Background(), grown, cfg)
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}

	// all but the last chunk of the shorter buffer are final
	for i := 0; i < len(before)-1; i++ {
		if !reflect.DeepEqual(before[i], after[i]) {
			t.Errorf("chunk[%d] changed after the buffer grew: %+v vs %+v", i, before[i], after[i])
		}
	}
}

func TestChunker_Chunk_CRLF(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(context.Background(), "# T\r\n\r\nbody\r\n", Config{MaxChars: 100})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "# T\n\nbody" {
		t.Errorf("Chunk() = %+v, want a single chunk without carriage returns", chunks)
	}
}

func TestChunker_Chunk_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "negative max chars", cfg: Config{MaxChars: -1}},
		{name: "negative max tokens", cfg: Config{MaxChars: 100, MaxTokens: -5}},
		{name: "negative overlap", cfg: Config{MaxChars: 100, OverlapChars: -1}},
		{name: "threshold out of range", cfg: Config{MaxChars: 100, SemanticThreshold: 1.5}},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Chunk(context.Background(), "# T\n\nbody", tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Chunk() error = %v, want ErrInvalidConfig", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field == "" {
				t.Errorf("Chunk() error = %v, want *ConfigError with a field", err)
			}
		})
	}
}

func TestChunker_Chunk_DefaultMaxChars(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(context.Background(), strings.Repeat("word ", 300), Config{})
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("Chunk() returned %d chunks, want 1 oversized paragraph", len(chunks))
	}
}

func TestChunker_Chunk_SemanticWithoutEmbedder(t *testing.T) {
	c := New()
	cfg := DefaultConfig()
	cfg.SemanticEnabled = true

	for _, text := range []string{"", "# T\n\nSome text. More text."} {
		_, err := c.Chunk(context.Background(), text, cfg)
		if !errors.Is(err, ErrEmbedderUnavailable) {
			t.Errorf("Chunk(%q) error = %v, want ErrEmbedderUnavailable", text, err)
		}
	}
}

func TestChunker_Chunk_Semantic(t *testing.T) {
	emb := &keywordEmbedder{}
	c := New(WithEmbedder(emb))

	text := "# Pets\n\nCats purr softly. The cat sleeps all day. A car drives fast. The car honks loudly.\n"
	cfg := Config{MaxChars: 40, SemanticEnabled: true, SemanticThreshold: 0.4}

	chunks, err := c.Chunk(context.Background(), text, cfg)
	if err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}

	want := []Chunk{
		{ID: "c0001", Text: "# Pets", HeaderPath: "Pets", StartLine: 1, EndLine: 1},
		{ID: "c0002", Text: "Cats purr softly. The cat sleeps all day.", HeaderPath: "Pets", StartLine: 3, EndLine: 3},
		{ID: "c0003", Text: "A car drives fast. The car honks loudly.", HeaderPath: "Pets", StartLine: 3, EndLine: 3},
	}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("Chunk() = %+v, want %+v", chunks, want)
	}
}

type failingEmbedder struct{ err error }

func (e failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, e.err
}

func TestChunker_Chunk_SemanticBackendFailure(t *testing.T) {
	errBackend := errors.New("model crashed")
	c := New(WithEmbedder(failingEmbedder{err: errBackend}))

	text := "# T\n\n" + strings.Repeat("One sentence. ", 10)
	chunks, err := c.Chunk(context.Background(), text, Config{MaxChars: 30, SemanticEnabled: true, SemanticThreshold: 0.4})
	if !errors.Is(err, errBackend) {
		t.Fatalf("Chunk() error = %v, want wrapped %v", err, errBackend)
	}
	if chunks != nil {
		t.Errorf("Chunk() returned %d chunks alongside an error, want none", len(chunks))
	}
}

func TestChunker_EmbedderFactoryMemoised(t *testing.T) {
	calls := map[string]int{}
	c := New(WithEmbedderFactory(func(modelID string) (Embedder, error) {
		calls[modelID]++
		return &keywordEmbedder{}, nil
	}))

	text := "# T\n\nCats purr. A car drives. Cats nap again today."
	cfg := Config{MaxChars: 20, SemanticEnabled: true, SemanticThreshold: 0.4, SemanticModelID: "mini"}

	for i := 0; i < 3; i++ {
		if _, err := c.Chunk(context.Background(), text, cfg); err != nil {
			t.Fatalf("Chunk() unexpected error: %v", err)
		}
	}
	cfg.SemanticModelID = "large"
	if _, err := c.Chunk(context.Background(), text, cfg); err != nil {
		t.Fatalf("Chunk() unexpected error: %v", err)
	}

	if calls["mini"] != 1 || calls["large"] != 1 {
		t.Errorf("factory calls = %v, want one per model", calls)
	}
}

func TestChunker_EmbedderFactoryError(t *testing.T) {
	errLoad := errors.New("model not found")
	c := New(WithEmbedderFactory(func(string) (Embedder, error) {
		return nil, errLoad
	}))

	cfg := DefaultConfig()
	cfg.SemanticEnabled = true
	if _, err := c.Chunk(context.Background(), "text", cfg); !errors.Is(err, errLoad) {
		t.Errorf("Chunk() error = %v, want wrapped %v", err, errLoad)
	}
}

func TestHeuristicEstimator(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "", want: 0},
		{text: "abcd", want: 1},
		{text: "abcde", want: 2},
		{text: "日本語テ", want: 1},
	}

	var est HeuristicEstimator
	for _, tt := range tests {
		if got := est.EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
