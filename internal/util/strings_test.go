package util

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		tabWidth int
		expected string
	}{
		{"no tabs", "plain line", 4, "plain line"},
		{"leading tab", "\tx", 4, "    x"},
		{"tab to next stop", "ab\tc", 4, "ab  c"},
		{"tab on stop boundary", "abcd\te", 4, "abcd    e"},
		{"default width", "\tx", 0, "        x"},
		{"two tabs", "a\tb\tc", 2, "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTabs(tt.input, tt.tabWidth); got != tt.expected {
				t.Errorf("ExpandTabs(%q, %d) = %q, want %q", tt.input, tt.tabWidth, got, tt.expected)
			}
		})
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"clipped", "hello world", 6, "hello…"},
		{"width one", "hello", 1, "…"},
		{"zero width", "hello", 0, ""},
		{"negative width", "hello", -4, ""},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(tt.input, tt.width); got != tt.expected {
				t.Errorf("Clip(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestClip_Styled(t *testing.T) {
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("ERROR connection refused")

	got := Clip(styled, 8)
	if w := ansi.StringWidth(got); w > 8 {
		t.Errorf("Clip() width = %d, want <= 8", w)
	}
	if !strings.HasSuffix(ansi.Strip(got), Ellipsis) {
		t.Errorf("Clip() = %q, want ellipsis suffix", ansi.Strip(got))
	}
	if !strings.HasPrefix(ansi.Strip(got), "ERROR") {
		t.Errorf("Clip() = %q, want ERROR prefix kept", ansi.Strip(got))
	}
}

func TestClip_WideCharacters(t *testing.T) {
	got := Clip("日本語のログ", 5)
	if w := ansi.StringWidth(got); w > 5 {
		t.Errorf("Clip() width = %d, want <= 5", w)
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"pads", "ab", 5, "ab   "},
		{"exact", "abcde", 5, "abcde"},
		{"clips", "abcdefg", 5, "abcd…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pad(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("Pad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
			if w := ansi.StringWidth(got); w != tt.width {
				t.Errorf("Pad() width = %d, want %d", w, tt.width)
			}
		})
	}
}

func TestFitLine(t *testing.T) {
	got := FitLine("a\tb", 20)
	if got != "a       b" {
		t.Errorf("FitLine() = %q, want tabs expanded", got)
	}

	got = FitLine("\t\tdeeply indented", 10)
	if w := ansi.StringWidth(got); w > 10 {
		t.Errorf("FitLine() width = %d, want <= 10", w)
	}
}
