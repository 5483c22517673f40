// Package tui is the interactive terminal frontend: a results pane fed by
// the background scan, a filter list, and an input line for new filters.
package tui

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/logparser/internal/logging"
	"github.com/Iron-Ham/logparser/internal/session"
	"github.com/Iron-Ham/logparser/internal/watch"
)

// Config describes one TUI run.
type Config struct {
	// Path is the file to open. Source, when set, is read instead.
	Path   string
	Source io.Reader

	Fs     afero.Fs
	Logger *logging.Logger

	Session          session.Options
	ShowLineNumbers  bool
	FilterPanelWidth int
	FilterSetPath    string

	// Follow reloads Path whenever it changes on disk.
	Follow   bool
	Debounce time.Duration

	// InputTTY reads keys from the controlling terminal, for when stdin
	// carries the log text.
	InputTTY bool
}

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	session *session.Session
	relay   *snapshotRelay
	cfg     Config
	logger  *logging.Logger
}

// New creates a new TUI application
func New(cfg Config) *App {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger()
	}
	cfg.Session.Fs = cfg.Fs
	cfg.Session.Logger = cfg.Logger

	relay := newSnapshotRelay()
	sess := session.New(relay.Put, cfg.Session)

	path := cfg.Path
	if cfg.Source != nil {
		path = ""
	}
	model := NewModel(sess, relay, ModelOptions{
		Path:             path,
		Fs:               cfg.Fs,
		Logger:           cfg.Logger,
		ShowLineNumbers:  cfg.ShowLineNumbers,
		FilterPanelWidth: cfg.FilterPanelWidth,
		FilterSetPath:    cfg.FilterSetPath,
	})

	return &App{
		model:   model,
		session: sess,
		relay:   relay,
		cfg:     cfg,
		logger:  cfg.Logger.WithComponent("app"),
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.session.Close()
	defer a.relay.Close()

	if a.cfg.Source != nil {
		data, err := io.ReadAll(a.cfg.Source)
		if err != nil {
			return err
		}
		a.session.LoadText(string(data))
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if a.cfg.InputTTY {
		opts = append(opts, tea.WithInputTTY())
	}
	a.program = tea.NewProgram(a.model, opts...)

	if a.cfg.Follow && a.cfg.Path != "" && a.cfg.Source == nil {
		w, err := watch.New(a.cfg.Path, a.cfg.Debounce, func(path string) {
			a.program.Send(fileChangedMsg{path: path})
		}, a.logger)
		if err != nil {
			a.logger.WithFile(a.cfg.Path).Warn("follow mode unavailable", "error", err.Error())
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}
