package doctree

// Category is the structural role assigned to a single input line.
type Category int

const (
	Introduction Category = iota // prose that introduces a following block
	GeneralProse
	List
	Code
	Table
	URL
	Empty
	Comment
	Footer

	NumCategories int = iota
)

var categoryNames = [NumCategories]string{
	"introduction",
	"prose",
	"list",
	"code",
	"table",
	"url",
	"empty",
	"comment",
	"footer",
}

func (c Category) String() string {
	if c < 0 || int(c) >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Scores holds one score per category, indexed by ordinal. A fixed array
// keeps classification deterministic: equal scores resolve to the lowest
// ordinal, never to map iteration order.
type Scores [NumCategories]float64

// ArgMax returns the category with the highest score. Ties resolve to the
// lowest ordinal.
func (s Scores) ArgMax() Category {
	best := Category(0)
	for c := 1; c < NumCategories; c++ {
		if s[c] > s[best] {
			best = Category(c)
		}
	}
	return best
}

// Normalize scales the scores to sum to 1. Left untouched when the sum is
// not positive.
func (s *Scores) Normalize() {
	var total float64
	for _, v := range s {
		total += v
	}
	if total <= 0 {
		return
	}
	for i := range s {
		s[i] /= total
	}
}

// Line is a classified input line. Text keeps the original whitespace; only
// the renderer trims.
type Line struct {
	Text     string
	Number   int // zero-based source index
	Indent   int // display columns of leading whitespace, tab = 4
	Scores   Scores
	Category Category // arg-max of Scores at classification time
}

// ChunkKind discriminates the Chunk union.
type ChunkKind int

const (
	KindParagraph ChunkKind = iota
	KindList
	KindCode
	KindTable
	KindComment
)

func (k ChunkKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindCode:
		return "code"
	case KindTable:
		return "table"
	case KindComment:
		return "comment"
	}
	return "unknown"
}

// Chunk is a maximal run of lines sharing one structural role. Lines is set
// for every kind except KindList, which carries the list tree instead.
type Chunk struct {
	Kind  ChunkKind
	Lines []Line
	List  *ListNode
}

// IsBlank reports whether the chunk is the blank-line sentinel: a paragraph
// holding a single Empty-classified line.
func (c Chunk) IsBlank() bool {
	return c.Kind == KindParagraph && len(c.Lines) == 1 && c.Lines[0].Category == Empty
}

// ListNode is one level of a (possibly nested) list.
type ListNode struct {
	Introduction []Line // lines preceding the first item, possibly empty
	Items        []ListItem
}

// ListItem is a single bullet with its continuation lines and an optional
// nested sublist. The parent item exclusively owns Nested; the list tree is
// acyclic by construction.
type ListItem struct {
	Bullet       Line
	Continuation []Line
	Nested       *ListNode
}

// Document is the assembled commit message: an optional headline, ordered
// body chunks, and verbatim trailer lines.
type Document struct {
	Headline *Line
	Body     []Chunk
	Footers  []Line
}
