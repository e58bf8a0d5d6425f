package assemble

import (
	"testing"

	"github.com/eisbaw/rule72/internal/classify"
	"github.com/eisbaw/rule72/internal/doctree"
)

func build(lines ...string) *doctree.Document {
	return Build(classify.Refine(classify.Score(lines)))
}

func findChunk(doc *doctree.Document, kind doctree.ChunkKind) *doctree.Chunk {
	for i := range doc.Body {
		if doc.Body[i].Kind == kind && !doc.Body[i].IsBlank() {
			return &doc.Body[i]
		}
	}
	return nil
}

func TestBuild_HeadlineAndFooters(t *testing.T) {
	doc := build(
		"Subject line",
		"",
		"Body paragraph",
		"",
		"Signed-off-by: Author <email>",
		"Co-authored-by: Contributor <c@example.com>",
	)

	if doc.Headline == nil || doc.Headline.Text != "Subject line" {
		t.Fatalf("expected headline, got %+v", doc.Headline)
	}
	if len(doc.Footers) != 2 {
		t.Fatalf("expected 2 footers, got %d", len(doc.Footers))
	}
	if doc.Footers[0].Text != "Signed-off-by: Author <email>" {
		t.Errorf("unexpected footer: %q", doc.Footers[0].Text)
	}
}

func TestBuild_NestedList(t *testing.T) {
	doc := build(
		"- First item",
		"  - Nested item 1",
		"  - Nested item 2",
		"- Second item",
	)

	if doc.Headline != nil {
		t.Fatalf("a leading list must not become the headline, got %q", doc.Headline.Text)
	}
	list := findChunk(doc, doctree.KindList)
	if list == nil {
		t.Fatal("expected a list chunk")
	}
	items := list.List.Items
	if len(items) != 2 {
		t.Fatalf("expected 2 top-level items, got %d", len(items))
	}
	if items[0].Bullet.Text != "- First item" {
		t.Errorf("unexpected first bullet: %q", items[0].Bullet.Text)
	}
	if items[0].Nested == nil || len(items[0].Nested.Items) != 2 {
		t.Fatalf("expected 2 nested items under the first bullet, got %+v", items[0].Nested)
	}
	if items[1].Nested != nil {
		t.Errorf("second item should have no nested list")
	}
}

func TestBuild_IrregularDedent(t *testing.T) {
	doc := build(
		"- First item",
		"    - Deep nested item",
		"  - Shallower nested item",
	)

	list := findChunk(doc, doctree.KindList)
	if list == nil {
		t.Fatal("expected a list chunk")
	}
	if len(list.List.Items) != 1 {
		t.Fatalf("expected 1 top-level item, got %d", len(list.List.Items))
	}
	nested := list.List.Items[0].Nested
	if nested == nil {
		t.Fatal("expected a nested list under the first item")
	}
	// A dedent between the two indentation levels must not evict the
	// deeper bullet; both survive as siblings.
	if len(nested.Items) != 2 {
		t.Fatalf("expected 2 nested items, got %d", len(nested.Items))
	}
	if nested.Items[0].Bullet.Text != "    - Deep nested item" {
		t.Errorf("unexpected first nested bullet: %q", nested.Items[0].Bullet.Text)
	}
	if nested.Items[1].Bullet.Text != "  - Shallower nested item" {
		t.Errorf("unexpected second nested bullet: %q", nested.Items[1].Bullet.Text)
	}
}

func TestBuild_ListIntroductionFold(t *testing.T) {
	doc := build(
		"Subject line",
		"",
		"Planned changes:",
		"- First item",
		"- Second item",
	)

	list := findChunk(doc, doctree.KindList)
	if list == nil {
		t.Fatal("expected a list chunk")
	}
	intro := list.List.Introduction
	if len(intro) != 1 || intro[0].Text != "Planned changes:" {
		t.Fatalf("expected the colon line folded into the list, got %+v", intro)
	}
	// The folded paragraph must be gone from the body.
	for _, c := range doc.Body {
		if c.Kind == doctree.KindParagraph && !c.IsBlank() {
			t.Errorf("introduction paragraph should have been popped, found %+v", c.Lines)
		}
	}
}

func TestBuild_HeadlineBecomesListIntroduction(t *testing.T) {
	doc := build(
		"Things to do:",
		"",
		"- one",
		"- two",
	)

	if doc.Headline != nil {
		t.Fatalf("colon line before a list must not be the headline, got %q", doc.Headline.Text)
	}
	list := findChunk(doc, doctree.KindList)
	if list == nil {
		t.Fatal("expected a list chunk")
	}
	intro := list.List.Introduction
	if len(intro) != 2 {
		t.Fatalf("expected colon line plus blank in the introduction, got %d lines", len(intro))
	}
	if intro[0].Text != "Things to do:" {
		t.Errorf("unexpected introduction: %q", intro[0].Text)
	}
	if len(list.List.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(list.List.Items))
	}
}

func TestBuild_CodeChunk(t *testing.T) {
	doc := build(
		"Subject line",
		"",
		"Example code:",
		"    function test() {",
		"        return true;",
		"    }",
	)

	code := findChunk(doc, doctree.KindCode)
	if code == nil {
		t.Fatal("expected a code chunk")
	}
	// The colon line rides along with the code it introduces.
	if code.Lines[0].Text != "Example code:" {
		t.Errorf("expected introduction at the head of the code chunk, got %q", code.Lines[0].Text)
	}
	if len(code.Lines) != 4 {
		t.Errorf("expected 4 lines in code chunk, got %d", len(code.Lines))
	}
}

func TestBuild_TableChunk(t *testing.T) {
	doc := build(
		"Subject line",
		"",
		"| Name | Value |",
		"| foo  | bar   |",
		"| baz  | qux   |",
	)
	table := findChunk(doc, doctree.KindTable)
	if table == nil {
		t.Fatal("expected a table chunk")
	}
	if len(table.Lines) != 3 {
		t.Errorf("expected 3 table rows, got %d", len(table.Lines))
	}
}

func TestBuild_LeadingComments(t *testing.T) {
	doc := build(
		"# verse 1",
		"# verse 2",
		"",
		"Subject line",
		"",
		"Body",
	)

	if doc.Headline == nil || doc.Headline.Text != "Subject line" {
		t.Fatalf("expected headline after comments, got %+v", doc.Headline)
	}
	comments := 0
	for _, c := range doc.Body {
		if c.Kind == doctree.KindComment {
			comments++
			if len(c.Lines) != 1 {
				t.Errorf("leading comments must be singleton chunks, got %d lines", len(c.Lines))
			}
		}
	}
	if comments != 2 {
		t.Errorf("expected 2 comment chunks, got %d", comments)
	}
}

func TestBuild_EmptyBody(t *testing.T) {
	doc := build("Subject line")
	if doc.Headline == nil {
		t.Fatal("expected headline")
	}
	if len(doc.Body) != 0 {
		t.Errorf("expected no body chunks, got %d", len(doc.Body))
	}
	if len(doc.Footers) != 0 {
		t.Errorf("expected no footers, got %d", len(doc.Footers))
	}
}

func TestBuild_FooterOnly(t *testing.T) {
	doc := build("Signed-off-by: Author <email>")
	if doc.Headline != nil {
		t.Errorf("a trailer must not become the headline")
	}
	if len(doc.Footers) != 1 {
		t.Fatalf("expected 1 footer, got %d", len(doc.Footers))
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	doc := build()
	if doc.Headline != nil || len(doc.Body) != 0 || len(doc.Footers) != 0 {
		t.Errorf("expected an empty document, got %+v", doc)
	}
}

func TestBuild_ContinuationLines(t *testing.T) {
	doc := build(
		"Subject",
		"",
		"- item with a",
		"  wrapped continuation",
		"- second",
	)
	list := findChunk(doc, doctree.KindList)
	if list == nil {
		t.Fatal("expected a list chunk")
	}
	if len(list.List.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.List.Items))
	}
	cont := list.List.Items[0].Continuation
	if len(cont) != 1 || cont[0].Text != "  wrapped continuation" {
		t.Errorf("expected one continuation line, got %+v", cont)
	}
}

func TestBuild_BlankSentinels(t *testing.T) {
	doc := build("Subject", "", "para one", "", "para two")
	blanks := 0
	for _, c := range doc.Body {
		if c.IsBlank() {
			blanks++
		}
	}
	if blanks != 2 {
		t.Errorf("expected 2 blank sentinels, got %d", blanks)
	}
}
