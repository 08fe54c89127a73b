package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText word-wraps s to width terminal columns, keeping existing line
// breaks. Words wider than a line are split at the column limit.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}
	var (
		lines     []string
		current   strings.Builder
		lineWidth int
	)
	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		lineWidth = 0
	}
	for _, word := range words {
		for _, piece := range splitWide(word, width) {
			w := runewidth.StringWidth(piece)
			if lineWidth > 0 && lineWidth+1+w > width {
				flush()
			}
			if lineWidth > 0 {
				current.WriteByte(' ')
				lineWidth++
			}
			current.WriteString(piece)
			lineWidth += w
		}
	}
	flush()
	return lines
}

// splitWide cuts word into chunks no wider than width.
func splitWide(word string, width int) []string {
	if runewidth.StringWidth(word) <= width {
		return []string{word}
	}
	var (
		parts []string
		chunk strings.Builder
		w     int
	)
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && w > 0 {
			parts = append(parts, chunk.String())
			chunk.Reset()
			w = 0
		}
		chunk.WriteRune(r)
		w += rw
	}
	if chunk.Len() > 0 {
		parts = append(parts, chunk.String())
	}
	return parts
}
