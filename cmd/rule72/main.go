// Command rule72 reformats Git commit messages read from stdin, wrapping
// prose at 72 columns while preserving lists, code blocks, tables,
// comments, and trailers. Suitable for Git hooks and editor integration.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/eisbaw/rule72/internal/diag"
	"github.com/eisbaw/rule72/internal/doctree"
	"github.com/eisbaw/rule72/internal/reflow"
)

var (
	flagWidth         int
	flagHeadlineWidth int
	flagDebugSVG      string
	flagDebugHTML     string
	flagDebugTrace    bool
)

var rootCmd = &cobra.Command{
	Use:   "rule72",
	Short: "Git commit message formatter",
	Long: `rule72 reads a commit message on stdin and writes a canonically
wrapped version to stdout. Prose is rewrapped to the body width; lists,
code blocks, tables, comments, and trailers keep their structure.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runReflow,
}

func runReflow(cmd *cobra.Command, args []string) error {
	if flagWidth < 1 {
		return fmt.Errorf("width must be positive, got %d", flagWidth)
	}
	if flagHeadlineWidth < 1 {
		return fmt.Errorf("headline-width must be positive, got %d", flagHeadlineWidth)
	}

	log := traceLogger(flagDebugTrace)

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	log.Debug("input read", "bytes", len(input), "lines", len(reflow.SplitLines(string(input))))

	opts := reflow.Options{
		BodyWidth:     flagWidth,
		HeadlineWidth: flagHeadlineWidth,
	}

	sink := buildSink(log)
	output := reflow.ReflowWithSink(string(input), opts, sink)

	if _, err := io.WriteString(os.Stdout, output); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

// traceLogger returns a stderr text logger at debug level when tracing is
// on, and a discard-level logger otherwise. The pipeline itself never
// logs; tracing happens at this boundary.
func traceLogger(trace bool) *slog.Logger {
	level := slog.LevelInfo
	w := io.Writer(os.Stderr)
	if trace {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// buildSink assembles the debug sink from the flags: file artifacts
// and/or a trace summary of the assembled tree.
func buildSink(log *slog.Logger) reflow.Sink {
	var sinks multiSink
	if flagDebugSVG != "" || flagDebugHTML != "" {
		sinks = append(sinks, &diag.FileSink{
			SVGPath:  flagDebugSVG,
			HTMLPath: flagDebugHTML,
			Log:      log,
		})
	}
	if flagDebugTrace {
		sinks = append(sinks, traceSink{log: log})
	}
	if len(sinks) == 0 {
		return reflow.NopSink
	}
	return sinks
}

type multiSink []reflow.Sink

func (m multiSink) Observe(doc *doctree.Document) {
	for _, s := range m {
		s.Observe(doc)
	}
}

// traceSink logs a summary of the assembled document.
type traceSink struct {
	log *slog.Logger
}

func (t traceSink) Observe(doc *doctree.Document) {
	kinds := make(map[string]int)
	for _, c := range doc.Body {
		kinds[c.Kind.String()]++
	}
	t.log.Debug("document assembled",
		"headline", doc.Headline != nil,
		"chunks", len(doc.Body),
		"by_kind", fmt.Sprintf("%v", kinds),
		"footers", len(doc.Footers),
	)
}

func main() {
	rootCmd.Flags().IntVarP(&flagWidth, "width", "w", 72, "body wrap width")
	rootCmd.Flags().IntVar(&flagHeadlineWidth, "headline-width", 50, "advisory headline width")
	rootCmd.Flags().StringVar(&flagDebugSVG, "debug-svg", "", "write an SVG visualization of the parsed structure")
	rootCmd.Flags().StringVar(&flagDebugHTML, "debug-html", "", "write an HTML classification report")
	rootCmd.Flags().BoolVar(&flagDebugTrace, "debug-trace", false, "trace the parsing pipeline on stderr")

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
