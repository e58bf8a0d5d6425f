// Package textutil provides the line-level text heuristics shared by the
// classifier and the renderer: indentation measurement, marker detection,
// display-width math, and greedy wrapping.
package textutil

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// footerTags is the literal trailer vocabulary. Matching is a case-sensitive
// prefix check; there is no generic "Word: value" fallback, which is how
// conventional-commit prefixes like "fix:" stay out of the footer.
var footerTags = []string{
	"Signed-off-by:",
	"Co-authored-by:",
	"Reviewed-by:",
	"Acked-by:",
	"Tested-by:",
	"Reported-by:",
	"Suggested-by:",
	"Fixes:",
	"Closes:",
	"Resolves:",
	"See-also:",
	"Ref:",
	"References:",
}

// IndentWidth returns the display columns of the leading whitespace run.
// Tabs count as 4 columns, spaces as 1.
func IndentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

// SpecialCharRatio returns the share of characters in s that are neither
// alphanumeric nor whitespace. A high ratio suggests code.
func SpecialCharRatio(s string) float64 {
	if s == "" {
		return 0
	}
	special, total := 0, 0
	for _, r := range s {
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(special) / float64(total)
}

// IsFooter reports whether the trimmed line starts with a known Git trailer
// tag. Only the literal vocabulary matches.
func IsFooter(trimmed string) bool {
	for _, tag := range footerTags {
		if strings.HasPrefix(trimmed, tag) {
			return true
		}
	}
	return false
}

// IsListMarker reports whether the trimmed line opens with a list marker:
// "* " or "- ", a number followed by ". " or ") ", or a single non-ASCII
// grapheme cluster followed by a space. A line truncated mid-cluster fails
// closed to false.
func IsListMarker(trimmed string) bool {
	if strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "- ") {
		return true
	}

	digits := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			break
		}
		digits++
	}
	if digits > 0 {
		rest := trimmed[digits:]
		if strings.HasPrefix(rest, ". ") || strings.HasPrefix(rest, ") ") {
			return true
		}
	}

	// Emoji or other non-ASCII cluster used as a bullet.
	g := uniseg.NewGraphemes(trimmed)
	if g.Next() {
		cluster := g.Str()
		if cluster != "" && !isASCII(cluster) {
			rest := trimmed[len(cluster):]
			return strings.HasPrefix(rest, " ")
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

// BulletPrefix returns the literal prefix of a list-item line: leading
// whitespace, the marker itself, and every space that follows it. The
// prefix is what wrapped continuation lines are padded to.
func BulletPrefix(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	offset := len(line) - len(trimmed)

	end := offset
	g := uniseg.NewGraphemes(trimmed)
	for g.Next() {
		cluster := g.Str()
		end += len(cluster)
		if cluster == " " {
			break
		}
	}
	for end < len(line) && line[end] == ' ' {
		end++
	}
	return line[:end]
}

// DisplayWidth returns the terminal columns s occupies, accounting for wide
// and zero-width characters.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Wrap greedily wraps text at the given display width. Words never split: a
// single word wider than the limit occupies its own line. Widths below 1
// are clamped to 1.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	currentWidth := DisplayWidth(current)
	for _, word := range words[1:] {
		w := DisplayWidth(word)
		if currentWidth+1+w <= width {
			current += " " + word
			currentWidth += 1 + w
			continue
		}
		lines = append(lines, current)
		current = word
		currentWidth = w
	}
	lines = append(lines, current)
	return lines
}
