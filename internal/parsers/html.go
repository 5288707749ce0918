package parsers

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlBlock is one rendered block; consecutive list items are joined by a
// single newline, everything else by a blank line.
type htmlBlock struct {
	text     string
	listItem bool
}

type htmlRenderer struct {
	blocks []htmlBlock
	inline strings.Builder
}

var skippedTags = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Main: true, atom.Header: true, atom.Footer: true, atom.Nav: true,
	atom.Aside: true, atom.Blockquote: true, atom.Ul: true, atom.Ol: true,
	atom.Table: true, atom.Tr: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Figure: true, atom.Figcaption: true, atom.Br: true, atom.Hr: true,
	atom.Body: true, atom.Html: true,
}

// normaliseHTML keeps headings, paragraphs, list items and preformatted code
// in the Markdown shapes the section finder and segmenter recognise.
func normaliseHTML(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	r := &htmlRenderer{}
	r.walk(doc)
	r.flushInline()

	var b strings.Builder
	for i, blk := range r.blocks {
		if i > 0 {
			if blk.listItem && r.blocks[i-1].listItem {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(blk.text)
	}
	return b.String(), nil
}

func (r *htmlRenderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.inline.WriteString(n.Data)
		return
	case html.ElementNode:
		if skippedTags[n.DataAtom] {
			return
		}
		if level, ok := headingLevels[n.DataAtom]; ok {
			r.flushInline()
			if text := collectText(n, false); text != "" {
				r.emit(strings.Repeat("#", level)+" "+text, false)
			}
			return
		}
		switch n.DataAtom {
		case atom.Pre:
			r.flushInline()
			code := strings.Trim(rawText(n), "\n")
			if strings.TrimSpace(code) != "" {
				r.emit("```\n"+code+"\n```", false)
			}
			return
		case atom.Li:
			r.flushInline()
			if text := collectText(n, true); text != "" {
				r.emit("* "+text, true)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.DataAtom == atom.Ul || c.DataAtom == atom.Ol {
					r.walk(c)
				}
			}
			return
		}
		if blockTags[n.DataAtom] {
			r.flushInline()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				r.walk(c)
			}
			r.flushInline()
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *htmlRenderer) emit(text string, listItem bool) {
	r.blocks = append(r.blocks, htmlBlock{text: text, listItem: listItem})
}

// flushInline emits pending inline text as a paragraph with collapsed whitespace.
func (r *htmlRenderer) flushInline() {
	text := strings.Join(strings.Fields(r.inline.String()), " ")
	r.inline.Reset()
	if text != "" {
		r.emit(text, false)
	}
}

// collectText returns the whitespace-collapsed text below n. Nested lists
// are skipped when skipLists is set so list items render one per line.
func collectText(n *html.Node, skipLists bool) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			return
		}
		if node.Type == html.ElementNode {
			if skippedTags[node.DataAtom] {
				return
			}
			if skipLists && node != n && (node.DataAtom == atom.Ul || node.DataAtom == atom.Ol) {
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// rawText concatenates text below n without touching whitespace.
func rawText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}
