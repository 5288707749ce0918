package chunker

import "fmt"

// Naive slices text into consecutive maxChars-rune pieces with no structure.
// It is the comparison baseline for Chunk: ceil(runes/maxChars) chunks, all
// full length except possibly the last.
func Naive(text string, maxChars int) ([]Chunk, error) {
	if maxChars <= 0 {
		return nil, &ConfigError{Field: "max_chars", Message: "must be greater than 0"}
	}

	runes := []rune(text)
	chunks := make([]Chunk, 0, (len(runes)+maxChars-1)/maxChars)

	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			ID:         fmt.Sprintf("n%04d", len(chunks)+1),
			Text:       string(runes[start:end]),
			HeaderPath: NaiveHeader,
		})
	}

	return chunks, nil
}
