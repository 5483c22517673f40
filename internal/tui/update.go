package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/logparser/internal/scan"
	"github.com/Iron-Ham/logparser/internal/tui/keymap"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.applySnapshot(msg.snapshot)
		return m, m.relay.Wait()

	case fileChangedMsg:
		m.logger.WithFile(msg.path).Debug("file changed, reloading")
		return m, reloadCmd(m.session)

	case fileLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("Loaded %s (%d lines)", filepath.Base(msg.path), m.session.Store().Len())
		m.syncResults()
		return m, nil

	case filtersSavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("Saved %d filters to %s", msg.count, msg.path)
		return m, nil

	case filtersLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.session.SetForest(msg.forest)
		m.refreshEntries()
		m.syncResults()
		m.setStatus("Loaded %d filters from %s", msg.forest.Count(), msg.path)
		return m, nil
	}

	return m, nil
}

// handleKey resolves a key through the keymap for the focused pane. Keys
// without a binding go to the focused widget.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if cmd, ok := m.keymap.Lookup(msg, m.mode); ok && cmd == keymap.CmdForceQuit {
			return m.execute(cmd)
		}
		m.showHelp = false
		return m, nil
	}

	if cmd, ok := m.keymap.Lookup(msg, m.mode); ok {
		return m.execute(cmd)
	}

	var cmd tea.Cmd
	switch m.mode {
	case keymap.ModeInput:
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before && m.statusIsError {
			m.clearStatus()
		}
	case keymap.ModeNormal:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

// execute runs a keymap command.
func (m Model) execute(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdForceQuit, keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit

	case keymap.CmdFocusNext:
		m.setMode(m.mode.Next())
	case keymap.CmdFocusPrev:
		m.setMode(m.mode.Prev())
	case keymap.CmdBackToInput:
		m.setMode(keymap.ModeInput)

	case keymap.CmdToggleBlank:
		if m.session.ToggleBlankLines() {
			m.setStatus("Blank lines shown")
		} else {
			m.setStatus("Blank lines hidden")
		}

	case keymap.CmdSaveFilters:
		return m, saveFiltersCmd(m.fs, m.currentFilterSetPath(), m.session.Forest())
	case keymap.CmdLoadFilters:
		return m, loadFiltersCmd(m.fs, m.currentFilterSetPath())

	case keymap.CmdAddFilter:
		m.addFilter()
	case keymap.CmdClearInput:
		m.input.Reset()
		m.session.ClearSelection()
		m.clearStatus()

	case keymap.CmdCursorUp:
		m.moveCursor(-1)
	case keymap.CmdCursorDown:
		m.moveCursor(1)
	case keymap.CmdCursorTop:
		m.cursor = 0
	case keymap.CmdCursorBottom:
		m.cursor = len(m.entries) - 1
		m.clampCursor()

	case keymap.CmdTogglePolarity:
		if e, ok := m.current(); ok {
			if err := m.session.TogglePolarity(e.ID); err == nil {
				m.refreshEntries()
				m.setStatus("%q is now %s", e.Pattern, e.Polarity.Toggle())
			}
		}
	case keymap.CmdDeleteFilter:
		if e, ok := m.current(); ok {
			if err := m.session.DeleteFilter(e.ID); err == nil {
				m.refreshEntries()
				m.setStatus("Deleted %q", e.Pattern)
			}
		}
	case keymap.CmdSelectTarget:
		if e, ok := m.current(); ok {
			if err := m.session.Select(e.ID); err == nil {
				m.setMode(keymap.ModeInput)
				m.clearStatus()
			}
		}

	case keymap.CmdScrollDown:
		m.results.ScrollDown(1)
	case keymap.CmdScrollUp:
		m.results.ScrollUp(1)
	case keymap.CmdScrollHalfPageDn:
		m.results.HalfPageDown()
	case keymap.CmdScrollHalfPageUp:
		m.results.HalfPageUp()
	case keymap.CmdScrollPageDown:
		m.results.PageDown()
	case keymap.CmdScrollPageUp:
		m.results.PageUp()
	case keymap.CmdScrollToTop:
		m.results.GotoTop()
	case keymap.CmdScrollToBottom:
		m.results.GotoBottom()

	case keymap.CmdReload:
		if m.session.Path() != "" {
			return m, reloadCmd(m.session)
		}
	case keymap.CmdToggleHelp:
		m.showHelp = !m.showHelp
	}
	// Edits restart the scan; drop the superseded results right away.
	m.syncResults()
	return m, nil
}

// addFilter submits the input as a new filter. A rejected pattern stays in
// the input so it can be corrected.
func (m *Model) addFilter() {
	flt, err := m.session.AddFilter(m.input.Value())
	if err != nil {
		m.setError(err)
		return
	}
	m.input.Reset()
	m.refreshEntries()
	m.moveCursorTo(flt.ID)
	m.setStatus("Added %s filter %q", flt.Polarity, flt.Pattern)
}

// applySnapshot accepts a snapshot unless a newer scan has started since
// it was produced.
func (m *Model) applySnapshot(s scan.Snapshot) {
	if s.Generation < m.session.Generation() {
		m.logger.WithGeneration(s.Generation).Debug("dropped stale snapshot")
		return
	}
	newScan := !m.hasSnapshot || s.Generation != m.snapshot.Generation
	m.snapshot = s
	m.hasSnapshot = true
	m.syncResults()
	if newScan {
		m.results.GotoTop()
	}
}
