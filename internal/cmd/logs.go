package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/logparser/internal/config"
	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/linestore"
	"github.com/Iron-Ham/logparser/internal/logging"
	"github.com/Iron-Ham/logparser/internal/watch"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View logparser's own debug log",
	Long: `View and filter the debug log logparser writes to <log_dir>/debug.log.

Entries are matched with the same include/exclude filters the TUI uses:
--grep keeps entries containing any of its patterns, --exclude drops
entries containing any of its patterns.

Examples:
  # Show the last 50 entries
  logparser logs

  # Show everything
  logparser logs -n 0

  # Follow new entries
  logparser logs -f

  # Only warnings and errors from the last hour
  logparser logs --level warn --since 1h

  # Scan activity without the cancellations
  logparser logs --grep component=scan --exclude cancelled`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail    int
	logsFollow  bool
	logsLevel   string
	logsSince   string
	logsGrep    []string
	logsExclude []string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringArrayVar(&logsGrep, "grep", nil, "Keep entries containing pattern (repeatable)")
	logsCmd.Flags().StringArrayVar(&logsExclude, "exclude", nil, "Drop entries containing pattern (repeatable)")
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	File      string         `json:"file,omitempty"`
	Extra     map[string]any `json:"-"`
}

// UnmarshalJSON captures fields without a struct field in Extra.
func (e *logEntry) UnmarshalJSON(data []byte) error {
	type alias logEntry
	if err := json.Unmarshal(data, (*alias)(e)); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range []string{"time", "level", "msg", "component", "file"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// fields renders the context of the entry as sorted key=value pairs.
func (e *logEntry) fields() []string {
	var out []string
	if e.Component != "" {
		out = append(out, "component="+e.Component)
	}
	if e.File != "" {
		out = append(out, "file="+e.File)
	}
	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%v", k, e.Extra[k]))
	}
	return out
}

// searchText is what --grep and --exclude match against.
func (e *logEntry) searchText() string {
	return strings.Join(append([]string{e.Msg}, e.fields()...), " ")
}

var (
	logTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	logFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	logLevelStyle = map[string]lipgloss.Style{
		logging.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logEntry) string {
	level := strings.ToUpper(entry.Level)
	style, ok := logLevelStyle[level]
	if !ok {
		style = lipgloss.NewStyle()
	}

	parts := []string{
		logTimeStyle.Render("[" + entry.Time.Format("15:04:05.000") + "]"),
		style.Render("[" + level + "]"),
		entry.Msg,
	}
	for _, f := range entry.fields() {
		parts = append(parts, logFieldStyle.Render(f))
	}
	return strings.Join(parts, " ")
}

// logFilter selects which entries are printed.
type logFilter struct {
	minLevel int
	since    time.Time
	forest   *filter.Forest
}

func newLogFilter(level, since string, grep, exclude []string) (logFilter, error) {
	lf := logFilter{minLevel: -1, forest: filter.New()}

	if level != "" {
		lf.minLevel = levelPriority(logging.ParseLevel(level))
	}
	if since != "" {
		d, err := time.ParseDuration(since)
		if err != nil {
			return lf, fmt.Errorf("invalid duration format: %w", err)
		}
		lf.since = time.Now().Add(-d)
	}
	for _, p := range grep {
		if _, err := lf.forest.Add(p, filter.Include); err != nil {
			return lf, fmt.Errorf("--grep: %w", err)
		}
	}
	for _, p := range exclude {
		if _, err := lf.forest.Add(p, filter.Exclude); err != nil {
			return lf, fmt.Errorf("--exclude: %w", err)
		}
	}
	return lf, nil
}

// passes checks if a log entry passes all filter criteria
func (lf logFilter) passes(entry *logEntry) bool {
	if lf.minLevel >= 0 && levelPriority(entry.Level) < lf.minLevel {
		return false
	}
	if !lf.since.IsZero() && entry.Time.Before(lf.since) {
		return false
	}
	return lf.forest.Evaluate(entry.searchText(), true)
}

// render formats one raw log line, or reports false when it is filtered out.
// Lines that are not JSON are kept only when no filter is active.
func (lf logFilter) render(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		if lf.minLevel >= 0 || !lf.since.IsZero() {
			return "", false
		}
		return line, lf.forest.Evaluate(line, true)
	}
	if !lf.passes(&entry) {
		return "", false
	}
	return formatLogEntry(&entry), true
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logPath := filepath.Join(cfg.Paths.ResolveLogDir(), logging.LogFileName)
	out := cmd.OutOrStdout()

	lf, err := newLogFilter(logsLevel, logsSince, logsGrep, logsExclude)
	if err != nil {
		return err
	}

	if exists, _ := afero.Exists(appFs, logPath); !exists {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		return nil
	}

	if logsFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return followLogs(ctx, out, logPath, lf)
	}
	return displayLogs(out, logPath, logsTail, lf)
}

// displayLogs reads the log file and displays filtered entries
func displayLogs(out io.Writer, logPath string, tail int, lf logFilter) error {
	store, err := linestore.Load(appFs, logPath)
	if err != nil {
		return err
	}

	var entries []string
	for _, line := range store.Lines() {
		if rendered, ok := lf.render(line); ok {
			entries = append(entries, rendered)
		}
	}

	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}
	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}
	return nil
}

// followLogs prints entries appended to the log until ctx is cancelled.
func followLogs(ctx context.Context, out io.Writer, logPath string, lf logFilter) error {
	info, err := appFs.Stat(logPath)
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	offset := info.Size()

	changed := make(chan struct{}, 1)
	// The watcher gets a no-op logger: logging its events to the file it
	// watches would retrigger it.
	w, err := watch.New(logPath, watch.DefaultDebounce, func(string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}
	w.Start()
	defer w.Stop()

	fmt.Fprintf(out, "Following logs... (Ctrl+C to stop)\n\n")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			offset, err = printAppended(out, logPath, offset, lf)
			if err != nil {
				return err
			}
		}
	}
}

// printAppended prints the complete lines written after offset and returns
// the new offset. A file smaller than offset was rotated and is read from
// the start.
func printAppended(out io.Writer, logPath string, offset int64, lf logFilter) (int64, error) {
	f, err := appFs.Open(logPath)
	if err != nil {
		return offset, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return offset, fmt.Errorf("failed to stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("failed to seek log file: %w", err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return offset, fmt.Errorf("error reading log file: %w", err)
	}
	// Leave a partially written last line for the next change.
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return offset, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data[:end+1]))
	scanner.Buffer(make([]byte, 0, 64*1024), linestore.MaxLineBytes)
	for scanner.Scan() {
		if rendered, ok := lf.render(strings.TrimSpace(scanner.Text())); ok {
			fmt.Fprintln(out, rendered)
		}
	}
	return offset + int64(end+1), scanner.Err()
}
