package chunker

import (
	"reflect"
	"testing"
)

func TestSegmentLines(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		offset int
		want   []segment
	}{
		{
			name: "paragraphs lists and fences",
			lines: []string{
				"para one", "continues", "",
				"- item 1", "- item 2", "",
				"```go", "x := 1", "", "```",
				"after",
			},
			want: []segment{
				{text: "para one\ncontinues", startLine: 1, endLine: 2},
				{text: "- item 1", startLine: 4, endLine: 4},
				{text: "- item 2", startLine: 5, endLine: 5},
				{text: "```go\nx := 1\n\n```", startLine: 7, endLine: 10, isCode: true},
				{text: "after", startLine: 11, endLine: 11},
			},
		},
		{
			name:   "offset shifts line numbers",
			lines:  []string{"## B", "text"},
			offset: 5,
			want:   []segment{{text: "## B\ntext", startLine: 6, endLine: 7}},
		},
		{
			name:  "unterminated fence runs to the end as code",
			lines: []string{"intro", "```", "code", "# not a boundary"},
			want: []segment{
				{text: "intro", startLine: 1, endLine: 1},
				{text: "```\ncode\n# not a boundary", startLine: 2, endLine: 4, isCode: true},
			},
		},
		{
			name:  "list markers inside code do not split",
			lines: []string{"```", "- a", "1. b", "```"},
			want:  []segment{{text: "```\n- a\n1. b\n```", startLine: 1, endLine: 4, isCode: true}},
		},
		{
			name:  "numbered and plus lists",
			lines: []string{"1. first", "2) second", "+ third", "  * nested"},
			want: []segment{
				{text: "1. first", startLine: 1, endLine: 1},
				{text: "2) second", startLine: 2, endLine: 2},
				{text: "+ third", startLine: 3, endLine: 3},
				{text: "  * nested", startLine: 4, endLine: 4},
			},
		},
		{
			name:  "list item continuation stays with its item",
			lines: []string{"- item", "  continued"},
			want:  []segment{{text: "- item\n  continued", startLine: 1, endLine: 2}},
		},
		{
			name:  "whitespace only is dropped",
			lines: []string{"", "   ", "\t"},
			want:  nil,
		},
		{
			name:  "fence directly after prose flushes it",
			lines: []string{"see:", "~~~", "raw", "~~~"},
			want: []segment{
				{text: "see:", startLine: 1, endLine: 1},
				{text: "~~~\nraw\n~~~", startLine: 2, endLine: 4, isCode: true},
			},
		},
		{
			name:  "tilde line inside a backtick fence is code",
			lines: []string{"```", "a", "~~~", "b", "```"},
			want:  []segment{{text: "```\na\n~~~\nb\n```", startLine: 1, endLine: 5, isCode: true}},
		},
		{
			name:  "shorter fence does not close a longer one",
			lines: []string{"````md", "```go", "x", "```", "````", "after"},
			want: []segment{
				{text: "````md\n```go\nx\n```\n````", startLine: 1, endLine: 5, isCode: true},
				{text: "after", startLine: 6, endLine: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segmentLines(tt.lines, tt.offset)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("segmentLines() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSegmentLines_NoOverlap(t *testing.T) {
	lines := []string{"a", "b", "", "- c", "```", "d", "```", "", "e"}
	segs := segmentLines(lines, 0)

	last := 0
	for i, s := range segs {
		if s.startLine <= last {
			t.Errorf("segment[%d] starts at %d, overlapping previous end %d", i, s.startLine, last)
		}
		if s.endLine < s.startLine {
			t.Errorf("segment[%d] has inverted range %d-%d", i, s.startLine, s.endLine)
		}
		last = s.endLine
	}
}
