package diag

import (
	"log/slog"

	"github.com/eisbaw/rule72/internal/doctree"
)

// FileSink writes debug artifacts for every document it observes. Paths
// left empty are skipped. It satisfies the pipeline's debug sink
// interface; failures are logged, never surfaced into the transform.
type FileSink struct {
	SVGPath  string
	HTMLPath string
	Log      *slog.Logger
}

func (s *FileSink) Observe(doc *doctree.Document) {
	if s.SVGPath != "" {
		if err := WriteSVG(doc, s.SVGPath); err != nil {
			s.Log.Error("write debug svg", "path", s.SVGPath, "error", err)
		} else {
			s.Log.Info("debug svg written", "path", s.SVGPath)
		}
	}
	if s.HTMLPath != "" {
		if err := WriteHTML(doc, s.HTMLPath); err != nil {
			s.Log.Error("write debug html", "path", s.HTMLPath, "error", err)
		} else {
			s.Log.Info("debug html written", "path", s.HTMLPath)
		}
	}
}
