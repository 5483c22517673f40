// Package session holds the state of one filtering session: the loaded
// lines, the filter forest, the current selection and the blank-line mode.
//
// Every mutation goes through a [Session] method and restarts the background
// scan, so the sink always converges on the result for the latest state.
package session

import (
	"sync"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/logparser/internal/errors"
	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/linestore"
	"github.com/Iron-Ham/logparser/internal/logging"
	"github.com/Iron-Ham/logparser/internal/scan"
)

// Options configure a new Session.
type Options struct {
	Fs                afero.Fs // defaults to the OS filesystem
	Logger            *logging.Logger
	MatchCap          int
	IncludeBlankLines bool
	DefaultPolarity   filter.Polarity
}

// Session is safe for concurrent use, but the scan sink must not call back
// into it.
type Session struct {
	mu sync.Mutex

	fs         afero.Fs
	logger     *logging.Logger
	controller *scan.Controller

	store           *linestore.Store
	forest          *filter.Forest
	selected        filter.ID
	includeBlank    bool
	defaultPolarity filter.Polarity
}

// New creates an empty session delivering scan snapshots to sink.
func New(sink scan.Sink, opts Options) *Session {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Session{
		fs:              fs,
		logger:          logger.WithComponent("session"),
		controller:      scan.NewController(sink, opts.MatchCap, logger.WithComponent("scan")),
		forest:          filter.New(),
		includeBlank:    opts.IncludeBlankLines,
		defaultPolarity: opts.DefaultPolarity,
	}
}

// LoadText replaces the store with the lines of raw.
func (s *Session) LoadText(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store = linestore.Parse(raw)
	s.logger.Debug("text loaded", "lines", s.store.Len())
	s.restartLocked()
}

// LoadFile replaces the store with the contents of path. On failure the
// previous store is kept and a *errors.SourceError is returned.
func (s *Session) LoadFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(path)
}

// Reload re-reads the file the current store came from.
func (s *Session) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.store.Path()
	if path == "" {
		return errors.ErrNoSource
	}
	return s.loadLocked(path)
}

func (s *Session) loadLocked(path string) error {
	store, err := linestore.Load(s.fs, path)
	if err != nil {
		s.logger.WithFile(path).LogError("load failed", err)
		return err
	}
	s.store = store
	s.logger.WithFile(path).Debug("file loaded", "lines", store.Len())
	s.restartLocked()
	return nil
}

// AddFilter adds pattern with the default polarity. With a selection the
// filter joins the selected group as a child; otherwise it starts a new
// group. The selection is cleared either way unless the pattern is rejected.
func (s *Session) AddFilter(pattern string) (filter.Filter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		flt filter.Filter
		err error
	)
	if s.selected != 0 {
		flt, err = s.forest.AddChild(s.selected, pattern, s.defaultPolarity)
	} else {
		flt, err = s.forest.Add(pattern, s.defaultPolarity)
	}
	if err != nil {
		s.logger.Debug("filter rejected", "pattern", pattern, "error", err.Error())
		return filter.Filter{}, err
	}

	s.logger.Debug("filter added",
		"pattern", flt.Pattern,
		"polarity", flt.Polarity.String(),
		"root", s.selected == 0)
	s.selected = 0
	s.restartLocked()
	return flt, nil
}

// Select marks the group containing id as the target for the next
// AddFilter. Selecting a child selects its group.
func (s *Session) Select(id filter.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, ok := s.forest.GroupRoot(id)
	if !ok {
		return errors.NewFilterError("cannot select filter", errors.ErrFilterNotFound).WithFilterID(uint64(id))
	}
	s.selected = root.ID
	return nil
}

// ClearSelection drops the AND target.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = 0
}

// Selected returns the root of the selected group.
func (s *Session) Selected() (filter.Filter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == 0 {
		return filter.Filter{}, false
	}
	return s.forest.Lookup(s.selected)
}

// TogglePolarity flips each filter between Include and Exclude.
func (s *Session) TogglePolarity(ids ...filter.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.forest.Toggle(ids...)
	s.logger.Debug("filters toggled", "count", len(ids))
	s.selected = 0
	s.restartLocked()
	return err
}

// DeleteFilter removes each filter. A root takes its whole group with it.
func (s *Session) DeleteFilter(ids ...filter.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.forest.Delete(ids...)
	s.logger.Debug("filters deleted", "count", len(ids), "remaining", s.forest.Count())
	s.selected = 0
	s.restartLocked()
	return err
}

// ToggleBlankLines flips the blank-line mode and returns the new value.
func (s *Session) ToggleBlankLines() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.includeBlank = !s.includeBlank
	s.logger.Debug("blank line mode changed", "include_blank_lines", s.includeBlank)
	s.restartLocked()
	return s.includeBlank
}

// IncludeBlankLines reports the blank-line mode.
func (s *Session) IncludeBlankLines() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.includeBlank
}

// SetForest replaces every filter, e.g. after loading a filter set.
func (s *Session) SetForest(f *filter.Forest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forest = f.Clone()
	s.selected = 0
	s.logger.Debug("filters replaced", "count", s.forest.Count())
	s.restartLocked()
}

// Forest returns a copy of the current filters.
func (s *Session) Forest() *filter.Forest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Clone()
}

// Entries returns the filters in display order.
func (s *Session) Entries() []filter.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Entries()
}

// Store returns the loaded lines, or nil before anything is loaded.
func (s *Session) Store() *linestore.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// Loaded reports whether a store is present.
func (s *Session) Loaded() bool {
	return s.Store() != nil
}

// Path returns the loaded file's path, or "".
func (s *Session) Path() string {
	return s.Store().Path()
}

// Generation returns the generation of the latest scan.
func (s *Session) Generation() uint64 {
	return s.controller.Generation()
}

// Wait blocks until the current scan has finished.
func (s *Session) Wait() {
	s.controller.Wait()
}

// Close stops the running scan.
func (s *Session) Close() {
	s.controller.Stop()
}

// restartLocked starts a fresh scan. Without a store there is nothing to
// scan and the call is a no-op. The caller must hold s.mu.
func (s *Session) restartLocked() {
	if s.store == nil {
		return
	}
	s.controller.Restart(s.store, s.forest, s.includeBlank)
}
