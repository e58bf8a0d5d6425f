package classify

import (
	"strings"

	"github.com/eisbaw/rule72/internal/doctree"
)

// abs-style helper for indentation distance.
func indentDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// Refine adjusts each line's scores using a ±2 neighbor window and returns
// a fresh slice of the same length. Neighbor evidence is always read from
// the unrefined input, so a line never reinforces itself through an
// already-refined neighbor. Single pass, not iterated.
func Refine(lines []doctree.Line) []doctree.Line {
	out := make([]doctree.Line, len(lines))
	for i := range lines {
		line := lines[i] // copy; Scores is a value array
		scores := line.Scores

		for _, offset := range [...]int{-2, -1, 1, 2} {
			j := i + offset
			if j < 0 || j >= len(lines) {
				continue
			}
			neighbor := &lines[j]

			switch neighbor.Category {
			case doctree.List:
				// Indented lines near lists lean list or prose.
				if line.Indent > 0 && line.Category != doctree.Code {
					scores[doctree.List] += 0.1
					scores[doctree.GeneralProse] += 0.05
				}
			case doctree.Code:
				// Similar indentation next to code is likely code.
				if line.Indent >= 4 && indentDiff(line.Indent, neighbor.Indent) <= 2 {
					scores[doctree.Code] += 0.15
				}
			case doctree.Table:
				if strings.Contains(line.Text, "|") {
					scores[doctree.Table] += 0.2
				}
			case doctree.Introduction:
				// Only the immediately adjacent line reacts to an
				// introduction.
				if offset == 1 {
					scores[doctree.List] += 0.1
					scores[doctree.GeneralProse] += 0.1
				}
			}
		}

		// Lines ending with ":" usually introduce whatever follows.
		trimmed := strings.TrimSpace(line.Text)
		if strings.HasSuffix(trimmed, ":") && !strings.Contains(line.Text, "http") {
			scores[doctree.Introduction] += 0.3
		}

		scores.Normalize()
		line.Scores = scores
		line.Category = scores.ArgMax()
		out[i] = line
	}
	return out
}
