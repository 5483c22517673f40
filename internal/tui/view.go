package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/logparser/internal/scan"
	"github.com/Iron-Ham/logparser/internal/tui/keymap"
	"github.com/Iron-Ham/logparser/internal/tui/styles"
	"github.com/Iron-Ham/logparser/internal/util"
)

// Layout constants
const (
	inputHeight     = 3 // bordered single-line input
	statusHeight    = 1
	paneChrome      = 2 // border rows or columns around a pane
	minResultsWidth = 20
	minTopHeight    = 4
)

// layout splits the window into the results pane, the filter pane and the
// area below them.
func (m Model) layout() (resultsWidth, panelWidth, topHeight int) {
	panelWidth = m.panelWidth
	if m.width-panelWidth < minResultsWidth {
		panelWidth = max(m.width-minResultsWidth, 0)
	}
	resultsWidth = m.width - panelWidth
	topHeight = max(m.height-inputHeight-statusHeight, minTopHeight)
	return resultsWidth, panelWidth, topHeight
}

// resize fits the widgets to the window.
func (m *Model) resize() {
	resultsWidth, _, topHeight := m.layout()
	m.results.Width = max(resultsWidth-paneChrome, 0)
	m.results.Height = max(topHeight-paneChrome-1, 1) // one row for the title
	m.input.Width = max(m.width-paneChrome-lipgloss.Width(m.input.Prompt)-1, 1)
	m.syncResults()
}

// syncResults renders the current snapshot into the results viewport.
func (m *Model) syncResults() {
	m.results.SetContent(m.resultsContent())
}

// hasCurrentSnapshot reports whether the snapshot comes from the scan the
// session is running now. After an edit the old one is stale until the new
// scan reports.
func (m Model) hasCurrentSnapshot() bool {
	return m.hasSnapshot && m.snapshot.Generation >= m.session.Generation()
}

func (m Model) resultsContent() string {
	width := m.results.Width
	switch {
	case !m.session.Loaded():
		return styles.Placeholder.Render(util.Clip("No file loaded", width))
	case !m.hasCurrentSnapshot():
		return styles.Placeholder.Render(util.Clip("Scanning...", width))
	case m.snapshot.NoResults:
		return styles.NoResults.Render(scan.NoResults)
	case m.snapshot.Matches == 0:
		return ""
	}

	lines := strings.Split(m.snapshot.Text, "\n")
	numWidth := 0
	if m.showLineNumbers && len(m.snapshot.LineNumbers) > 0 {
		numWidth = len(fmt.Sprint(m.snapshot.LineNumbers[len(m.snapshot.LineNumbers)-1] + 1))
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		avail := width
		if numWidth > 0 && i < len(m.snapshot.LineNumbers) {
			num := fmt.Sprintf("%*d ", numWidth, m.snapshot.LineNumbers[i]+1)
			sb.WriteString(styles.LineNumber.Render(num))
			avail -= len(num)
		}
		sb.WriteString(util.FitLine(line, avail))
	}
	return sb.String()
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderResultsPane(), m.renderFilterPane())
	return lipgloss.JoinVertical(lipgloss.Left, top, m.renderInput(), m.renderStatusBar())
}

func (m Model) renderResultsPane() string {
	resultsWidth, _, topHeight := m.layout()
	inner := max(resultsWidth-paneChrome, 0)

	title := styles.PaneTitle.Render("Results")
	if summary := m.resultsSummary(); summary != "" {
		title += " " + styles.Muted.Render(summary)
	}

	body := m.results.View()
	if m.showHelp {
		body = m.renderHelp(inner, m.results.Height)
	}

	return styles.PaneStyle(m.mode == keymap.ModeNormal).
		Width(inner).
		Height(max(topHeight-paneChrome, 1)).
		Render(util.Clip(title, inner) + "\n" + body)
}

func (m Model) resultsSummary() string {
	if !m.session.Loaded() || !m.hasCurrentSnapshot() {
		return ""
	}
	s := m.snapshot
	if !s.Final {
		return fmt.Sprintf("scanning, %d matches", s.Matches)
	}
	total := m.session.Store().Len()
	if s.Scanned < total {
		return fmt.Sprintf("first %d matches, %d of %d lines", s.Matches, s.Scanned, total)
	}
	return fmt.Sprintf("%d matches in %d lines", s.Matches, total)
}

func (m Model) renderFilterPane() string {
	_, panelWidth, topHeight := m.layout()
	if panelWidth <= paneChrome {
		return ""
	}
	inner := panelWidth - paneChrome
	rows := max(topHeight-paneChrome-1, 1)

	title := styles.PaneTitle.Render("Filters")
	if n := len(m.entries); n > 0 {
		title += " " + styles.Muted.Render(fmt.Sprintf("(%d)", n))
	}

	var body string
	if len(m.entries) == 0 {
		body = styles.Placeholder.Render(util.Clip("No filters", inner))
	} else {
		body = strings.Join(m.filterRows(inner, rows), "\n")
	}

	return styles.PaneStyle(m.mode == keymap.ModeList).
		Width(inner).
		Height(max(topHeight-paneChrome, 1)).
		Render(util.Clip(title, inner) + "\n" + body)
}

// filterRows renders the visible window of the filter list, keeping the
// cursor on screen.
func (m Model) filterRows(width, rows int) []string {
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.entries))
	target := m.targetGroup()

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := m.entries[i]
		marker := "  "
		if e.IsRoot && e.Group == target {
			marker = "» "
		}
		row := util.Pad(marker+styles.PolarityIcon(e.Polarity)+" "+e.Label(), width)

		style := styles.PolarityStyle(e.Polarity)
		if e.Group == target {
			style = style.Inherit(styles.Target)
		}
		if i == m.cursor && m.mode == keymap.ModeList {
			style = style.Inherit(styles.Cursor)
		}
		out = append(out, style.Render(row))
	}
	return out
}

func (m Model) renderInput() string {
	in := m.input
	if sel, ok := m.session.Selected(); ok {
		in.Prompt = fmt.Sprintf("AND %s > ", util.Clip(sel.Pattern, 16))
	}
	return styles.PaneStyle(m.mode == keymap.ModeInput).
		Width(max(m.width-paneChrome, 0)).
		Render(in.View())
}

func (m Model) renderStatusBar() string {
	parts := []string{"[" + strings.ToUpper(string(m.mode)) + "]"}

	switch {
	case m.status != "" && m.statusIsError:
		parts = append(parts, styles.ErrorMsg.Render(m.status))
	case m.status != "":
		parts = append(parts, m.status)
	default:
		parts = append(parts, m.modeHint())
	}

	blank := "blank lines: shown"
	if !m.session.IncludeBlankLines() {
		blank = "blank lines: hidden"
	}
	parts = append(parts, styles.Muted.Render(blank))

	return styles.StatusBar.Width(m.width).Render(util.Clip(strings.Join(parts, "  "), max(m.width-2, 0)))
}

func (m Model) modeHint() string {
	switch m.mode {
	case keymap.ModeList:
		return "space toggle  d delete  enter AND  tab focus"
	case keymap.ModeNormal:
		return "j/k scroll  r reload  ? help  q quit"
	default:
		return "enter add  esc clear  tab focus  ctrl+b blank lines"
	}
}

// renderHelp lists the bindings of every mode, one per command.
func (m Model) renderHelp(width, height int) string {
	var lines []string
	for _, mode := range append(append([]keymap.Mode{}, keymap.FocusOrder...), keymap.ModeGlobal) {
		lines = append(lines, styles.PaneTitle.Render(strings.ToUpper(string(mode))))
		seen := make(map[keymap.Command]bool)
		for _, b := range m.keymap.GetModeBindings(mode) {
			if seen[b.Command] {
				continue
			}
			seen[b.Command] = true
			key := styles.HelpKey.Render(fmt.Sprintf("%-8s", b.String()))
			lines = append(lines, util.Clip("  "+key+" "+b.Description, width))
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
