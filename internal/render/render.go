// Package render turns an assembled document back into text, rewrapping
// prose and lists to the configured width while keeping code, tables,
// comments, and footers verbatim.
package render

import (
	"strings"

	"github.com/eisbaw/rule72/internal/doctree"
	"github.com/eisbaw/rule72/internal/textutil"
)

// Options controls rendering widths. HeadlineWidth is advisory only: the
// headline is never wrapped.
type Options struct {
	BodyWidth     int
	HeadlineWidth int
}

// DefaultOptions returns the conventional 72/50 Git widths.
func DefaultOptions() Options {
	return Options{BodyWidth: 72, HeadlineWidth: 50}
}

// Render emits the document as newline-joined text with a single trailing
// newline. Every emitted line is right-trimmed.
func Render(doc *doctree.Document, opts Options) string {
	if opts.BodyWidth < 1 {
		opts.BodyWidth = 1
	}

	var out []string
	if doc.Headline != nil {
		out = append(out, doc.Headline.Text)
	}

	for i, chunk := range doc.Body {
		if i > 0 && needsSeparator(doc.Body[i-1], chunk) {
			out = append(out, "")
		}
		out = append(out, renderChunk(chunk, opts)...)
	}

	if len(doc.Footers) > 0 {
		// Exactly one blank line between body and trailers, and none when
		// the trailers are the whole document.
		for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
			out = out[:len(out)-1]
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		for _, f := range doc.Footers {
			out = append(out, f.Text)
		}
	}

	for i := range out {
		out[i] = strings.TrimRight(out[i], " \t")
	}
	return strings.Join(out, "\n") + "\n"
}

// needsSeparator decides whether a blank line goes between two adjacent
// body chunks.
func needsSeparator(prev, cur doctree.Chunk) bool {
	if prev.IsBlank() || cur.IsBlank() {
		return false
	}
	if prev.Kind == doctree.KindComment {
		return false
	}
	if cur.Kind == doctree.KindList && isColonIntro(prev) {
		return false
	}
	return true
}

// isColonIntro reports whether the chunk is a single line ending with ":",
// i.e. an introduction the following list should hug.
func isColonIntro(c doctree.Chunk) bool {
	if c.Kind != doctree.KindParagraph && c.Kind != doctree.KindCode {
		return false
	}
	return len(c.Lines) == 1 && strings.HasSuffix(strings.TrimSpace(c.Lines[0].Text), ":")
}

func renderChunk(chunk doctree.Chunk, opts Options) []string {
	switch chunk.Kind {
	case doctree.KindCode, doctree.KindTable, doctree.KindComment:
		return verbatim(chunk.Lines)
	case doctree.KindList:
		return renderList(chunk.List, opts)
	default:
		return renderParagraph(chunk, opts)
	}
}

func verbatim(lines []doctree.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func renderParagraph(chunk doctree.Chunk, opts Options) []string {
	if chunk.IsBlank() {
		return []string{""}
	}

	needsWrap := false
	for _, l := range chunk.Lines {
		if textutil.DisplayWidth(l.Text) > opts.BodyWidth {
			needsWrap = true
			break
		}
	}
	if !needsWrap {
		return verbatim(chunk.Lines)
	}

	parts := make([]string, len(chunk.Lines))
	for i, l := range chunk.Lines {
		parts[i] = strings.TrimSpace(l.Text)
	}
	return textutil.Wrap(strings.Join(parts, " "), opts.BodyWidth)
}

func renderList(node *doctree.ListNode, opts Options) []string {
	var out []string

	for _, intro := range node.Introduction {
		if intro.Category == doctree.Empty {
			out = append(out, "")
		} else {
			out = append(out, intro.Text)
		}
	}

	for _, item := range node.Items {
		out = append(out, renderItem(item, opts)...)
		if item.Nested != nil {
			out = append(out, renderList(item.Nested, opts)...)
		}
	}
	return out
}

func renderItem(item doctree.ListItem, opts Options) []string {
	prefix := textutil.BulletPrefix(item.Bullet.Text)
	// Tabs in the prefix count as 4 columns, the same as IndentWidth.
	prefixWidth := textutil.IndentWidth(prefix) +
		textutil.DisplayWidth(strings.TrimLeft(prefix, " \t"))
	body := strings.TrimSpace(item.Bullet.Text[len(prefix):])

	needsWrap := textutil.DisplayWidth(item.Bullet.Text) > opts.BodyWidth
	for _, c := range item.Continuation {
		if textutil.DisplayWidth(c.Text) > opts.BodyWidth {
			needsWrap = true
		}
	}

	if !needsWrap {
		out := []string{item.Bullet.Text}
		for _, c := range item.Continuation {
			out = append(out, c.Text)
		}
		return out
	}

	full := body
	for _, c := range item.Continuation {
		full += " " + strings.TrimSpace(c.Text)
	}

	// A huge bullet prefix can push the wrap width to zero; clamp instead
	// of faulting.
	width := opts.BodyWidth - prefixWidth
	if width < 1 {
		width = 1
	}

	wrapped := textutil.Wrap(full, width)
	out := make([]string, len(wrapped))
	padding := strings.Repeat(" ", prefixWidth)
	for i, line := range wrapped {
		if i == 0 {
			out[i] = prefix + line
		} else {
			out[i] = padding + line
		}
	}
	return out
}
