package chunker

import (
	"fmt"
	"strings"
	"unicode"
)

// overlapSeparator joins carried-over context to the pack text.
const overlapSeparator = "\n\n"

// sectionPack is a pack tagged with the header path of its section.
type sectionPack struct {
	headerPath string
	pack
}

// injectOverlap turns packs into numbered chunks, prepending the tail of the
// previous chunk where the two are related prose.
func injectOverlap(packs []sectionPack, overlapChars int) []Chunk {
	chunks := make([]Chunk, 0, len(packs))

	for i, sp := range packs {
		text := sp.text
		if i > 0 && overlapChars > 0 {
			prev := packs[i-1]
			if !prev.isCode && !sp.isCode && isSameOrDescendant(sp.headerPath, prev.headerPath) {
				if tail := tailRunes(chunks[i-1].Text, overlapChars); tail != "" {
					text = tail + overlapSeparator + text
				}
			}
		}

		chunks = append(chunks, Chunk{
			ID:         fmt.Sprintf("c%04d", i+1),
			Text:       text,
			HeaderPath: sp.headerPath,
			StartLine:  sp.startLine,
			EndLine:    sp.endLine,
		})
	}

	return chunks
}

// isSameOrDescendant reports whether path equals parent or sits below it,
// matching only at " / " boundaries.
func isSameOrDescendant(path, parent string) bool {
	return path == parent || strings.HasPrefix(path, parent+" / ")
}

// tailRunes returns the last n runes of s with trailing whitespace removed.
func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[len(runes)-n:]
	}
	return strings.TrimRightFunc(string(runes), unicode.IsSpace)
}
