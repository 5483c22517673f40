package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/logparser/internal/errors"
	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/filterset"
	"github.com/Iron-Ham/logparser/internal/logging"
	"github.com/Iron-Ham/logparser/internal/scan"
	"github.com/Iron-Ham/logparser/internal/session"
	"github.com/Iron-Ham/logparser/internal/tui/keymap"
)

// DefaultFilterPanelWidth is used when ModelOptions leaves the width unset.
const DefaultFilterPanelWidth = 32

// ModelOptions configure a Model.
type ModelOptions struct {
	Path             string // file loaded by Init, if any
	Fs               afero.Fs
	Keymap           *keymap.Keymap
	Logger           *logging.Logger
	ShowLineNumbers  bool
	FilterPanelWidth int
	FilterSetPath    string // empty derives the path from the loaded file
}

// Model holds the TUI application state
type Model struct {
	// Core components
	session *session.Session
	relay   *snapshotRelay
	keymap  *keymap.Keymap
	logger  *logging.Logger
	fs      afero.Fs

	// Settings
	initialPath     string
	showLineNumbers bool
	panelWidth      int
	filterSetPath   string

	// Widgets
	mode    keymap.Mode
	input   textinput.Model
	results viewport.Model

	// Filter list (display order) and cursor into it
	entries []filter.Entry
	cursor  int

	// Latest accepted scan snapshot
	snapshot    scan.Snapshot
	hasSnapshot bool

	// UI state
	width         int
	height        int
	ready         bool
	quitting      bool
	showHelp      bool
	status        string
	statusIsError bool
}

// NewModel creates a TUI model over sess. The session's sink must be
// relay.Put.
func NewModel(sess *session.Session, relay *snapshotRelay, opts ModelOptions) Model {
	km := opts.Keymap
	if km == nil {
		km = keymap.DefaultKeymap()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	width := opts.FilterPanelWidth
	if width <= 0 {
		width = DefaultFilterPanelWidth
	}

	ti := textinput.New()
	ti.Placeholder = "Type a pattern and press Enter"
	ti.CharLimit = 512
	ti.Prompt = "> "
	ti.Focus()

	m := Model{
		session:         sess,
		relay:           relay,
		keymap:          km,
		logger:          logger.WithComponent("tui"),
		fs:              fs,
		initialPath:     opts.Path,
		showLineNumbers: opts.ShowLineNumbers,
		panelWidth:      width,
		filterSetPath:   opts.FilterSetPath,
		mode:            keymap.ModeInput,
		input:           ti,
		results:         viewport.New(0, 0),
	}
	m.refreshEntries()
	return m
}

// Init starts the cursor blink, the snapshot relay and the initial load.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.relay.Wait()}
	if m.initialPath != "" {
		cmds = append(cmds, loadFileCmd(m.session, m.initialPath))
	}
	return tea.Batch(cmds...)
}

// Mode returns the focused pane.
func (m Model) Mode() keymap.Mode {
	return m.mode
}

// setMode moves keyboard focus. Only the input pane takes text.
func (m *Model) setMode(mode keymap.Mode) {
	m.mode = mode
	if mode == keymap.ModeInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// refreshEntries re-reads the filter list after a mutation and keeps the
// cursor in range.
func (m *Model) refreshEntries() {
	m.entries = m.session.Entries()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// moveCursorTo places the cursor on the entry with id, if present.
func (m *Model) moveCursorTo(id filter.ID) {
	for i, e := range m.entries {
		if e.ID == id {
			m.cursor = i
			return
		}
	}
}

// current returns the entry under the cursor.
func (m Model) current() (filter.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return filter.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// targetGroup returns the index of the group the next filter will join,
// or -1 when the next filter starts a new group.
func (m Model) targetGroup() int {
	sel, ok := m.session.Selected()
	if !ok {
		return -1
	}
	for _, e := range m.entries {
		if e.IsRoot && e.ID == sel.ID {
			return e.Group
		}
	}
	return -1
}

// currentFilterSetPath resolves where ctrl+s and ctrl+o read and write.
func (m Model) currentFilterSetPath() string {
	if m.filterSetPath != "" {
		return m.filterSetPath
	}
	if p := m.session.Path(); p != "" {
		return filterset.DefaultPath(p)
	}
	return "logparser" + filterset.DefaultSuffix
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusIsError = false
}

func (m *Model) setError(err error) {
	m.logger.LogError("action failed", err)
	m.status = errorHint(err)
	m.statusIsError = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusIsError = false
}

// errorHint turns an error into a status-line message. Errors not meant for
// the user are shown by their innermost cause only; the full chain is in
// debug.log.
func errorHint(err error) string {
	if errors.IsFilterInput(err) {
		var fe *errors.FilterError
		switch {
		case errors.Is(err, errors.ErrEmptyPattern):
			return "Filter is empty"
		case errors.As(err, &fe) && fe.Pattern != "":
			return fmt.Sprintf("%q is already a filter", fe.Pattern)
		default:
			return "Filter already exists"
		}
	}
	if errors.IsUserFacing(err) {
		return err.Error()
	}
	cause := err
	for next := errors.Unwrap(cause); next != nil; next = errors.Unwrap(cause) {
		cause = next
	}
	return "Failed: " + cause.Error()
}
