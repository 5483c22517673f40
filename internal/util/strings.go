// Package util provides text helpers for laying out log lines in fixed-width
// terminal panes.
package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks a clipped line.
const Ellipsis = "…"

// DefaultTabWidth is the tab stop used by ExpandTabs when width <= 0.
const DefaultTabWidth = 8

// ExpandTabs replaces tab characters with spaces up to the next tab stop.
// Log files often mix tabs and spaces, and terminals disagree on how wide a
// tab is, so panes render tabs as spaces before measuring.
func ExpandTabs(s string, tabWidth int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}

	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += ansi.StringWidth(string(r))
	}
	return sb.String()
}

// Clip shortens s to at most width visual columns, ending it with Ellipsis
// when anything was cut. Escape sequences and wide characters are measured
// correctly.
func Clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return Ellipsis
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// Pad right-pads s with spaces to exactly width columns, clipping first if
// it is too wide.
func Pad(s string, width int) string {
	s = Clip(s, width)
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// FitLine prepares one raw log line for a pane of the given width.
func FitLine(s string, width int) string {
	return Clip(ExpandTabs(s, DefaultTabWidth), width)
}
