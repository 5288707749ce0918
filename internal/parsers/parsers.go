// Package parsers turns source documents into the line-oriented, Markdown-like
// text the chunker understands.
package parsers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the source syntax of a document.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
)

// ErrUnsupportedFormat is returned for formats without a normaliser.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat accepts a format name or a common alias ("md", "txt", "htm").
// An empty name means markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath maps a file extension to a format.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".txt", ".text":
		return FormatText, true
	case ".html", ".htm":
		return FormatHTML, true
	default:
		return "", false
	}
}

// Normalise converts content of the given format to chunker input.
func Normalise(format Format, content string) (string, error) {
	switch format {
	case FormatMarkdown:
		return content, nil
	case FormatText:
		return normaliseText(content), nil
	case FormatHTML:
		return normaliseHTML(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// normaliseText strips surrounding whitespace from every line.
func normaliseText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
