package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/filterset"
	"github.com/Iron-Ham/logparser/internal/scan"
	"github.com/Iron-Ham/logparser/internal/session"
)

// snapshotMsg carries scan progress into the event loop
type snapshotMsg struct {
	snapshot scan.Snapshot
}

// fileLoadedMsg is sent when an asynchronous load or reload finishes
type fileLoadedMsg struct {
	path string
	err  error
}

// fileChangedMsg is sent by the follow-mode watcher
type fileChangedMsg struct {
	path string
}

// filtersSavedMsg reports the result of writing a filter set
type filtersSavedMsg struct {
	path  string
	count int
	err   error
}

// filtersLoadedMsg carries a filter set read from disk
type filtersLoadedMsg struct {
	path   string
	forest *filter.Forest
	err    error
}

// Commands

func loadFileCmd(s *session.Session, path string) tea.Cmd {
	return func() tea.Msg {
		return fileLoadedMsg{path: path, err: s.LoadFile(path)}
	}
}

func reloadCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		return fileLoadedMsg{path: s.Path(), err: s.Reload()}
	}
}

func saveFiltersCmd(fs afero.Fs, path string, forest *filter.Forest) tea.Cmd {
	return func() tea.Msg {
		err := filterset.Save(fs, path, forest)
		return filtersSavedMsg{path: path, count: forest.Count(), err: err}
	}
}

func loadFiltersCmd(fs afero.Fs, path string) tea.Cmd {
	return func() tea.Msg {
		forest, err := filterset.Load(fs, path)
		return filtersLoadedMsg{path: path, forest: forest, err: err}
	}
}
