package chunker

import (
	"math"
	"sort"
)

// TokenStats summarises the token counts of a chunk set.
type TokenStats struct {
	Count int     `json:"count"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Mean  float64 `json:"mean"`
	P95   int     `json:"p95"`
}

// SummarizeTokens estimates the tokens of every text and returns min, max,
// mean (two decimals) and 95th percentile.
func SummarizeTokens(est TokenEstimator, texts []string) TokenStats {
	counts := make([]int, len(texts))
	for i, text := range texts {
		counts[i] = est.EstimateTokens(text)
	}
	return computeTokenStats(counts)
}

func computeTokenStats(tokenCounts []int) TokenStats {
	if len(tokenCounts) == 0 {
		return TokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	p95Index = max(0, min(p95Index, len(sorted)-1))

	return TokenStats{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  math.Round(mean*100) / 100,
		P95:   sorted[p95Index],
	}
}
