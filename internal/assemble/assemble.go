// Package assemble groups classified lines into the hierarchical document
// tree: headline, typed body chunks, and the footer tail. Single
// left-to-right pass with bounded lookahead; no backtracking.
package assemble

import (
	"strings"

	"github.com/eisbaw/rule72/internal/doctree"
)

// Build assembles a Document from refined lines.
func Build(lines []doctree.Line) *doctree.Document {
	b := &builder{lines: lines, doc: &doctree.Document{}}
	b.run()
	return b.doc
}

// builder holds the cursor state of the single assembly pass.
type builder struct {
	lines []doctree.Line
	doc   *doctree.Document
	pos   int
}

func (b *builder) run() {
	b.leading()
	b.headline()
	b.body()
}

// leading consumes the opening run of comment and blank lines. Every
// comment becomes its own singleton chunk; blanks before the headline are
// dropped.
func (b *builder) leading() {
	for b.pos < len(b.lines) {
		switch b.lines[b.pos].Category {
		case doctree.Comment:
			b.doc.Body = append(b.doc.Body, doctree.Chunk{
				Kind:  doctree.KindComment,
				Lines: []doctree.Line{b.lines[b.pos]},
			})
			b.pos++
		case doctree.Empty:
			b.pos++
		default:
			return
		}
	}
}

// headline decides what to do with the first content line. A line ending
// with ":" that introduces a list (possibly across blank lines) is folded
// into the list instead of becoming the headline. List and footer lines
// never become headlines.
func (b *builder) headline() {
	if b.pos >= len(b.lines) {
		return
	}
	line := b.lines[b.pos]
	if line.Category == doctree.Footer || line.Category == doctree.List {
		return
	}

	if endsWithColon(line) {
		if at, ok := b.nextListAfterBlanks(b.pos + 1); ok {
			intro := append([]doctree.Line{line}, b.lines[b.pos+1:at]...)
			node, consumed := parseList(b.lines, at)
			node.Introduction = intro
			b.doc.Body = append(b.doc.Body, doctree.Chunk{Kind: doctree.KindList, List: node})
			b.pos = at + consumed
			return
		}
	}

	b.doc.Headline = &line
	b.pos++

	// Keep the blank after the subject as an explicit sentinel chunk.
	if b.pos < len(b.lines) && b.lines[b.pos].Category == doctree.Empty {
		b.appendBlank(b.lines[b.pos])
		b.pos++
	}
}

// nextListAfterBlanks reports whether the next non-blank line at or after
// start is list-classified, and where it sits.
func (b *builder) nextListAfterBlanks(start int) (int, bool) {
	for i := start; i < len(b.lines); i++ {
		switch b.lines[i].Category {
		case doctree.Empty:
			continue
		case doctree.List:
			return i, true
		default:
			return 0, false
		}
	}
	return 0, false
}

// body runs the main loop until the footer boundary or end of input.
func (b *builder) body() {
	for b.pos < len(b.lines) {
		line := b.lines[b.pos]
		switch line.Category {
		case doctree.Footer:
			b.doc.Footers = append(b.doc.Footers, b.lines[b.pos:]...)
			b.pos = len(b.lines)

		case doctree.Empty:
			b.appendBlank(line)
			b.pos++

		case doctree.Comment:
			b.doc.Body = append(b.doc.Body, doctree.Chunk{
				Kind:  doctree.KindComment,
				Lines: b.takeRun(doctree.Comment),
			})

		case doctree.Table:
			b.doc.Body = append(b.doc.Body, doctree.Chunk{
				Kind:  doctree.KindTable,
				Lines: b.takeRun(doctree.Table),
			})

		case doctree.Code:
			run := b.takeRun(doctree.Code)
			// A lone "something:" line misread as code right before a
			// list is really that list's introduction.
			if len(run) == 1 && endsWithColon(run[0]) &&
				b.pos < len(b.lines) && b.lines[b.pos].Category == doctree.List {
				node, consumed := parseList(b.lines, b.pos)
				node.Introduction = run
				b.doc.Body = append(b.doc.Body, doctree.Chunk{Kind: doctree.KindList, List: node})
				b.pos += consumed
				break
			}
			b.doc.Body = append(b.doc.Body, doctree.Chunk{Kind: doctree.KindCode, Lines: run})

		case doctree.List:
			node, consumed := parseList(b.lines, b.pos)
			node.Introduction = b.popIntroduction()
			b.doc.Body = append(b.doc.Body, doctree.Chunk{Kind: doctree.KindList, List: node})
			b.pos += consumed

		default: // Introduction, GeneralProse, URL
			b.prose()
		}
	}
}

// prose accumulates a contiguous prose run into a paragraph, with one
// redirect: a run whose final line ends with ":" directly before code
// hands that line to the code chunk as its introduction.
func (b *builder) prose() {
	var run []doctree.Line
	for b.pos < len(b.lines) && isProse(b.lines[b.pos].Category) {
		run = append(run, b.lines[b.pos])
		b.pos++
	}

	last := run[len(run)-1]
	if endsWithColon(last) && b.pos < len(b.lines) && b.lines[b.pos].Category == doctree.Code {
		if len(run) > 1 {
			b.doc.Body = append(b.doc.Body, doctree.Chunk{
				Kind:  doctree.KindParagraph,
				Lines: run[:len(run)-1],
			})
		}
		code := append([]doctree.Line{last}, b.takeRun(doctree.Code)...)
		b.doc.Body = append(b.doc.Body, doctree.Chunk{Kind: doctree.KindCode, Lines: code})
		return
	}

	b.doc.Body = append(b.doc.Body, doctree.Chunk{Kind: doctree.KindParagraph, Lines: run})
}

// popIntroduction removes and returns the previous chunk when it is a
// single prose line ending with ":", so it can head the upcoming list.
func (b *builder) popIntroduction() []doctree.Line {
	n := len(b.doc.Body)
	if n == 0 {
		return nil
	}
	last := b.doc.Body[n-1]
	if last.Kind != doctree.KindParagraph || len(last.Lines) != 1 {
		return nil
	}
	line := last.Lines[0]
	if !endsWithColon(line) {
		return nil
	}
	if line.Category != doctree.GeneralProse && line.Category != doctree.Introduction {
		return nil
	}
	b.doc.Body = b.doc.Body[:n-1]
	return last.Lines
}

// takeRun consumes the contiguous run of lines with the given category
// starting at the cursor.
func (b *builder) takeRun(cat doctree.Category) []doctree.Line {
	var run []doctree.Line
	for b.pos < len(b.lines) && b.lines[b.pos].Category == cat {
		run = append(run, b.lines[b.pos])
		b.pos++
	}
	return run
}

func (b *builder) appendBlank(line doctree.Line) {
	b.doc.Body = append(b.doc.Body, doctree.Chunk{
		Kind:  doctree.KindParagraph,
		Lines: []doctree.Line{line},
	})
}

func isProse(cat doctree.Category) bool {
	return cat == doctree.Introduction || cat == doctree.GeneralProse || cat == doctree.URL
}

func endsWithColon(line doctree.Line) bool {
	return strings.HasSuffix(strings.TrimSpace(line.Text), ":")
}

// parseList consumes a list starting at start, whose base indentation is
// that of the first bullet. Bullets at the base indentation are siblings;
// a deeper bullet opens a nested list under the previous item; anything
// shallower ends the list. Returns the node and lines consumed.
func parseList(lines []doctree.Line, start int) (*doctree.ListNode, int) {
	node := &doctree.ListNode{}
	base := lines[start].Indent
	i := start

	for i < len(lines) {
		line := lines[i]
		if line.Category != doctree.List {
			break
		}
		if line.Indent < base {
			break
		}
		if line.Indent > base {
			if len(node.Items) == 0 {
				break
			}
			nested, consumed := parseList(lines, i)
			last := &node.Items[len(node.Items)-1]
			if last.Nested == nil {
				last.Nested = nested
			} else {
				// A dedent that is still deeper than this level rejoins
				// the existing sublist as siblings; no bullet is dropped.
				last.Nested.Items = append(last.Nested.Items, nested.Items...)
			}
			i += consumed
			continue
		}

		item := doctree.ListItem{Bullet: line}
		i++
		for i < len(lines) {
			next := lines[i]
			if next.Category == doctree.List || next.Category == doctree.Empty ||
				next.Category == doctree.Footer || next.Indent <= base {
				break
			}
			item.Continuation = append(item.Continuation, next)
			i++
		}
		node.Items = append(node.Items, item)
	}

	return node, i - start
}
