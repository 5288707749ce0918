package chunker

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// RunesPerToken is the approximation used by HeuristicEstimator (~4 chars per token).
const RunesPerToken = 4

// TokenEstimator approximates the token count of a text span.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// HeuristicEstimator estimates tokens from the rune count.
type HeuristicEstimator struct{}

// EstimateTokens returns ceil(runes/4), or 0 for empty text.
func (HeuristicEstimator) EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + RunesPerToken - 1) / RunesPerToken
}

// TiktokenEstimator counts BPE tokens with a tiktoken encoding.
type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenEstimator loads the named encoding (for example "cl100k_base").
func NewTiktokenEstimator(encoding string) (*TiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", encoding, err)
	}
	return &TiktokenEstimator{encoding: enc}, nil
}

// EstimateTokens returns the exact BPE token count.
func (e *TiktokenEstimator) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(e.encoding.Encode(text, nil, nil))
}

// runeLen is the character measure used for every budget comparison.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
