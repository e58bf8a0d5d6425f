// Package reflow wires the four pipeline stages into the public transform:
// classify, refine, assemble, render. The transform is a pure function of
// the input text and options; it performs no I/O and keeps no state.
package reflow

import (
	"strings"

	"github.com/eisbaw/rule72/internal/assemble"
	"github.com/eisbaw/rule72/internal/classify"
	"github.com/eisbaw/rule72/internal/doctree"
	"github.com/eisbaw/rule72/internal/render"
)

// Options re-exports the renderer options as the transform's option set.
type Options = render.Options

// DefaultOptions returns the conventional 72/50 Git widths.
func DefaultOptions() Options {
	return render.DefaultOptions()
}

// Sink receives the finished document tree after the pipeline completes.
// Implementations must treat the tree as read-only.
type Sink interface {
	Observe(doc *doctree.Document)
}

type nopSink struct{}

func (nopSink) Observe(*doctree.Document) {}

// NopSink discards the document tree.
var NopSink Sink = nopSink{}

// Reflow reformats a raw commit message to the configured width.
func Reflow(input string, opts Options) string {
	return ReflowWithSink(input, opts, NopSink)
}

// ReflowWithSink is Reflow with a debug sink that observes the assembled
// document strictly after assembly and before rendering output is
// returned. The sink never alters the result.
func ReflowWithSink(input string, opts Options, sink Sink) string {
	lines := SplitLines(input)
	scored := classify.Score(lines)
	refined := classify.Refine(scored)
	doc := assemble.Build(refined)
	out := render.Render(doc, opts)
	if sink != nil {
		sink.Observe(doc)
	}
	return out
}

// SplitLines splits input on "\n", stripping one trailing "\r" per line. A
// trailing newline does not produce a phantom empty last line.
func SplitLines(input string) []string {
	lines := strings.Split(input, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
