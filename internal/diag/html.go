package diag

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/eisbaw/rule72/internal/doctree"
)

// WriteHTML renders a classification report for the document to an HTML
// file.
func WriteHTML(doc *doctree.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html: %w", err)
	}
	if err := RenderHTML(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderHTML builds a Markdown report of the document structure and
// converts it to a standalone HTML page.
func RenderHTML(doc *doctree.Document, w io.Writer) error {
	md := reportMarkdown(doc)

	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := conv.Convert([]byte(md), &body); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>rule72 structure report</title>\n")
	page.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:2em auto}" +
		"table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:2px 8px}" +
		"code{background:#f4f4f4}</style>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	_, err := w.Write(page.Bytes())
	return err
}

// reportMarkdown summarizes the chunk inventory and per-line
// classification as Markdown.
func reportMarkdown(doc *doctree.Document) string {
	var b strings.Builder
	b.WriteString("# Commit message structure\n\n")

	if doc.Headline != nil {
		fmt.Fprintf(&b, "Headline: `%s`\n\n", mdCode(doc.Headline.Text))
	} else {
		b.WriteString("Headline: none\n\n")
	}

	b.WriteString("## Chunks\n\n")
	if len(doc.Body) == 0 {
		b.WriteString("No body chunks.\n\n")
	}
	for i, chunk := range doc.Body {
		switch {
		case chunk.Kind == doctree.KindList:
			fmt.Fprintf(&b, "%d. list (%d items)\n", i+1, len(chunk.List.Items))
		case chunk.IsBlank():
			fmt.Fprintf(&b, "%d. blank separator\n", i+1)
		default:
			fmt.Fprintf(&b, "%d. %s (%d lines)\n", i+1, chunk.Kind, len(chunk.Lines))
		}
	}
	fmt.Fprintf(&b, "\nFooters: %d\n\n", len(doc.Footers))

	b.WriteString("## Lines\n\n")
	b.WriteString("| # | Category | Indent | Text |\n")
	b.WriteString("|---|----------|--------|------|\n")
	for _, row := range flatten(doc) {
		text := strings.TrimSpace(row.line.Text)
		if row.line.Category == doctree.Empty {
			text = ""
		}
		fmt.Fprintf(&b, "| %d | %s | %d | `%s` |\n",
			row.line.Number+1, row.line.Category, row.line.Indent, mdCode(text))
	}
	return b.String()
}

// mdCode makes text safe inside a backtick span.
func mdCode(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "|", "\\|")
	if s == "" {
		return " "
	}
	return s
}
