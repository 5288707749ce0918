package chunker

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`^(#{1,6})[ \t]+(.+)$`)

// headingInfo tracks heading level and title for building header paths.
type headingInfo struct {
	level int
	title string
	start int
}

// findSections partitions lines into heading-owned ranges.
// Fence state is not consulted here: a "# comment" inside a code block is
// still a heading. The segmenter is the only fence-aware stage.
func findSections(lines []string) []section {
	var headings []headingInfo
	for i, line := range lines {
		if h, ok := parseHeading(line); ok {
			h.start = i
			headings = append(headings, h)
		}
	}

	if len(headings) == 0 {
		return []section{{headerPath: DocumentHeader, start: 0, end: len(lines)}}
	}

	sections := make([]section, 0, len(headings)+1)

	// Lines before the first heading belong to the first heading's path so
	// the ranges still cover the whole document.
	headings[0].start = 0

	stack := []headingInfo{}
	for i, h := range headings {
		end := len(lines)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= h.level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, h)

		sections = append(sections, section{
			headerPath: buildHeaderPath(stack),
			start:      h.start,
			end:        end,
		})
	}

	return sections
}

// parseHeading matches "#"*1-6, one or more spaces, then a title.
func parseHeading(line string) (headingInfo, bool) {
	m := headingRe.FindStringSubmatch(strings.TrimRight(line, " \t\r"))
	if m == nil {
		return headingInfo{}, false
	}
	title := strings.TrimSpace(m[2])
	if title == "" {
		return headingInfo{}, false
	}
	return headingInfo{level: len(m[1]), title: title}, true
}

// buildHeaderPath joins the stack titles from root to leaf.
// Format: "Title / Section / Subsection"
func buildHeaderPath(stack []headingInfo) string {
	parts := make([]string, len(stack))
	for i, h := range stack {
		parts[i] = h.title
	}
	return strings.Join(parts, " / ")
}
