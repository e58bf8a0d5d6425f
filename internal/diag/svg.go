// Package diag renders debug visualizations of an assembled document. It
// runs strictly after the pipeline and never mutates the tree it receives.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eisbaw/rule72/internal/doctree"
	"github.com/eisbaw/rule72/internal/textutil"
)

const (
	fontSize   = 14
	lineHeight = 20
	charWidth  = 8
	margin     = 20
)

// entry is one visual row: a line plus the chunk role it sits in.
type entry struct {
	line doctree.Line
	role string
}

// WriteSVG renders the document structure to an SVG file.
func WriteSVG(doc *doctree.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	if err := RenderSVG(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderSVG writes an SVG visualization of the classified document: one
// row per line, category-tinted backgrounds, chunk boundary boxes, and a
// width ruler (50 columns for the headline, 72 elsewhere).
func RenderSVG(doc *doctree.Document, w io.Writer) error {
	rows := flatten(doc)

	maxWidth := 0
	for _, r := range rows {
		if n := textutil.DisplayWidth(r.line.Text); n > maxWidth {
			maxWidth = n
		}
	}

	svgWidth := margin*2 + maxWidth*charWidth
	svgHeight := margin*2 + len(rows)*lineHeight

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		svgWidth, svgHeight, svgWidth, svgHeight)
	b.WriteString("\n<style>\n")
	fmt.Fprintf(&b, "    text { font-family: monospace; font-size: %dpx; }\n", fontSize)
	b.WriteString("    .chunk-rect { fill: none; stroke-width: 2; opacity: 0.5; }\n")
	b.WriteString("    .chunk-label { font-size: 10px; fill: #4c566a; }\n")
	b.WriteString("    .ruler-dots { fill: #c3e88d; font-family: monospace; font-size: 14px; }\n")
	b.WriteString("</style>\n")
	b.WriteString(`<rect width="100%" height="100%" fill="#eceff4"/>` + "\n")

	// Ruler dots behind each row.
	y := margin
	for _, r := range rows {
		cols := 72
		if r.role == "headline" {
			cols = 50
		}
		if r.line.Category != doctree.Empty {
			fmt.Fprintf(&b, `<text x="%d" y="%d" class="ruler-dots">%s</text>`+"\n",
				margin, y, strings.Repeat("·", cols))
		}
		y += lineHeight
	}

	// Rows with category tint and tooltip.
	y = margin
	for _, r := range rows {
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" opacity="0.15"/>`+"\n",
			margin, y-fontSize, maxWidth*charWidth, lineHeight, categoryColor(r.line.Category))

		fmt.Fprintf(&b, `<text x="%d" y="%d">`, margin+r.line.Indent*charWidth, y)
		fmt.Fprintf(&b, "<title>Line %d: %s\n%s</title>",
			r.line.Number+1, r.line.Category, scoreTable(r.line.Scores))
		if r.line.Category == doctree.Empty {
			b.WriteString("[empty line]")
		} else {
			b.WriteString(escape(r.line.Text))
		}
		b.WriteString("</text>\n")
		y += lineHeight
	}

	// Chunk boundary boxes.
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i < len(rows) && rows[i].role == rows[start].role {
			continue
		}
		boxY := margin + start*lineHeight - fontSize
		boxH := (i - start) * lineHeight
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" class="chunk-rect" stroke="%s"/>`+"\n",
			margin-5, boxY, maxWidth*charWidth+10, boxH, roleColor(rows[start].role))
		fmt.Fprintf(&b, `<text x="%d" y="%d" class="chunk-label" text-anchor="end">%s</text>`+"\n",
			margin+maxWidth*charWidth-5, boxY+boxH-3, rows[start].role)
		start = i
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// flatten lists every document line in render order, tagged with its
// chunk role.
func flatten(doc *doctree.Document) []entry {
	var rows []entry
	if doc.Headline != nil {
		rows = append(rows, entry{line: *doc.Headline, role: "headline"})
	}
	for _, chunk := range doc.Body {
		switch chunk.Kind {
		case doctree.KindList:
			rows = appendListRows(rows, chunk.List)
		default:
			role := chunk.Kind.String()
			if chunk.IsBlank() {
				role = "empty"
			}
			for _, l := range chunk.Lines {
				rows = append(rows, entry{line: l, role: role})
			}
		}
	}
	for _, f := range doc.Footers {
		rows = append(rows, entry{line: f, role: "footer"})
	}
	return rows
}

func appendListRows(rows []entry, node *doctree.ListNode) []entry {
	for _, intro := range node.Introduction {
		role := "list"
		if intro.Category == doctree.Empty {
			role = "empty"
		}
		rows = append(rows, entry{line: intro, role: role})
	}
	for _, item := range node.Items {
		rows = append(rows, entry{line: item.Bullet, role: "list"})
		for _, c := range item.Continuation {
			rows = append(rows, entry{line: c, role: "list"})
		}
		if item.Nested != nil {
			rows = appendListRows(rows, item.Nested)
		}
	}
	return rows
}

func scoreTable(s doctree.Scores) string {
	var parts []string
	for c := 0; c < doctree.NumCategories; c++ {
		if s[c] > 0 {
			parts = append(parts, fmt.Sprintf("  %s: %.2f", doctree.Category(c), s[c]))
		}
	}
	return strings.Join(parts, "\n")
}

func categoryColor(c doctree.Category) string {
	switch c {
	case doctree.Introduction:
		return "#ff8c00"
	case doctree.List:
		return "#0080ff"
	case doctree.Code:
		return "#ff40ff"
	case doctree.Table:
		return "#00cccc"
	case doctree.URL:
		return "#40a0ff"
	case doctree.Empty:
		return "#e0e0e0"
	case doctree.Comment:
		return "#808080"
	case doctree.Footer:
		return "#606060"
	default:
		return "#1e1e1e"
	}
}

func roleColor(role string) string {
	switch role {
	case "headline":
		return "#5e81ac"
	case "comment":
		return "#616e88"
	case "table":
		return "#88c0d0"
	case "code":
		return "#b48ead"
	case "paragraph":
		return "#a3be8c"
	case "list":
		return "#81a1c1"
	case "footer":
		return "#bf616a"
	case "empty":
		return "#d8dee9"
	default:
		return "#4c566a"
	}
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
