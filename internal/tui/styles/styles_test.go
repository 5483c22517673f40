package styles

import (
	"testing"

	"github.com/Iron-Ham/logparser/internal/filter"
)

func TestPolarityColor(t *testing.T) {
	tests := []struct {
		polarity filter.Polarity
		expected string
	}{
		{filter.Include, "#10B981"},
		{filter.Exclude, "#F87171"},
	}

	for _, tt := range tests {
		t.Run(tt.polarity.String(), func(t *testing.T) {
			got := PolarityColor(tt.polarity)
			if string(got) != tt.expected {
				t.Errorf("PolarityColor(%v) = %q, want %q", tt.polarity, got, tt.expected)
			}
		})
	}
}

func TestPolarityIcon(t *testing.T) {
	if got := PolarityIcon(filter.Include); got != "+" {
		t.Errorf("PolarityIcon(Include) = %q, want %q", got, "+")
	}
	if got := PolarityIcon(filter.Exclude); got != "-" {
		t.Errorf("PolarityIcon(Exclude) = %q, want %q", got, "-")
	}
}

func TestPaneStyle(t *testing.T) {
	if got := PaneStyle(true).GetBorderTopForeground(); got != FocusedBorder {
		t.Errorf("focused border = %v, want %v", got, FocusedBorder)
	}
	if got := PaneStyle(false).GetBorderTopForeground(); got != BorderColor {
		t.Errorf("unfocused border = %v, want %v", got, BorderColor)
	}
}
