package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	fenceRe = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
	listRe  = regexp.MustCompile(`^\s*(?:[-*+]\s+|\d+[.)]\s+).+`)
)

// segmenter accumulates lines of one section into atomic segments.
type segmenter struct {
	segs     []segment
	buf      []string
	bufStart int // 0-based document line index of buf[0]
}

// segmentLines splits a section's lines into segments. offset is the
// 0-based document index of lines[0].
//
// Fences: an opening fence flushes pending prose and opens a new buffer; the
// closing fence is appended to the code buffer, which is flushed right away.
// A fence closes only a block opened with the same character and at most as
// many of them; other fence lines inside the block are code.
func segmentLines(lines []string, offset int) []segment {
	s := &segmenter{bufStart: offset}
	opener := "" // marker of the open fence, empty outside code

	for i, line := range lines {
		idx := offset + i

		if m := fenceRe.FindStringSubmatch(line); m != nil {
			marker := m[1]
			if opener == "" {
				s.flush(false)
				s.reset(idx, line)
				opener = marker
				continue
			}
			if closesFence(opener, marker) {
				s.buf = append(s.buf, line)
				s.flush(true)
				s.reset(idx + 1)
				opener = ""
				continue
			}
		}

		if opener != "" {
			s.buf = append(s.buf, line)
			continue
		}

		if strings.TrimSpace(line) == "" || listRe.MatchString(line) {
			s.flush(false)
			s.reset(idx, line)
			continue
		}

		s.buf = append(s.buf, line)
	}

	// An unterminated fence keeps its code flag to the end of the section.
	s.flush(opener != "")
	return s.segs
}

func closesFence(opener, marker string) bool {
	return marker[0] == opener[0] && len(marker) >= len(opener)
}

func (s *segmenter) reset(start int, lines ...string) {
	s.buf = lines
	s.bufStart = start
}

// flush emits the buffer as a segment, trimming blank lines at both ends.
// Whitespace-only buffers are dropped.
func (s *segmenter) flush(isCode bool) {
	lines := s.buf
	start := s.bufStart

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
		start++
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return
	}

	s.segs = append(s.segs, segment{
		text:      strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace),
		startLine: start + 1,
		endLine:   start + len(lines),
		isCode:    isCode,
	})
}
