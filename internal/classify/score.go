// Package classify implements the first two pipeline stages: per-line
// probabilistic scoring and context-aware refinement.
package classify

import (
	"strings"

	"github.com/eisbaw/rule72/internal/doctree"
	"github.com/eisbaw/rule72/internal/textutil"
)

// Score assigns each raw line an initial score distribution and resolved
// category. Detectors run in a fixed priority; the first match sets a
// dominant/runner-up pair. Output length always equals input length.
func Score(lines []string) []doctree.Line {
	out := make([]doctree.Line, len(lines))
	for idx, raw := range lines {
		indent := textutil.IndentWidth(raw)
		trimmed := strings.TrimSpace(raw)

		var scores doctree.Scores
		switch {
		case trimmed == "":
			scores[doctree.Empty] = 1.0
		case strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//"):
			scores[doctree.Comment] = 0.9
			scores[doctree.GeneralProse] = 0.1
		case strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|"):
			scores[doctree.Table] = 0.8
			scores[doctree.Code] = 0.2
		case strings.HasPrefix(trimmed, "http") || strings.Contains(trimmed, "://"):
			scores[doctree.URL] = 0.9
			scores[doctree.GeneralProse] = 0.1
		case textutil.IsFooter(trimmed):
			scores[doctree.Footer] = 0.9
			scores[doctree.GeneralProse] = 0.1
		case textutil.IsListMarker(trimmed):
			scores[doctree.List] = 0.92
			scores[doctree.GeneralProse] = 0.08
		case indent >= 4 || textutil.SpecialCharRatio(trimmed) > 0.3:
			scores[doctree.Code] = 0.77
			scores[doctree.GeneralProse] = 0.23
		case idx == 0:
			// The first line is almost always the subject.
			scores[doctree.GeneralProse] = 0.94
			scores[doctree.Code] = 0.06
		default:
			scores[doctree.GeneralProse] = 0.8
			scores[doctree.Introduction] = 0.2
		}

		out[idx] = doctree.Line{
			Text:     raw,
			Number:   idx,
			Indent:   indent,
			Scores:   scores,
			Category: scores.ArgMax(),
		}
	}
	return out
}
