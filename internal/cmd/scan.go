package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/logparser/internal/config"
	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/filterset"
	"github.com/Iron-Ham/logparser/internal/linestore"
	"github.com/Iron-Ham/logparser/internal/scan"
)

// appFs is the filesystem the commands read from. Tests swap in a
// memory-backed one.
var appFs afero.Fs = afero.NewOsFs()

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Filter a log file and print the matching lines",
	Long: `Filter a log file without the TUI and print the matching lines.

Filters are applied in the order given on the command line:
  -i PATTERN   add a root filter that includes lines containing PATTERN
  -x PATTERN   add a root filter that excludes lines containing PATTERN
  --and +PAT   narrow the most recent root: lines must also contain PAT
  --and -PAT   narrow the most recent root: lines must not contain PAT

A line is printed when some include group matches it (or there are no
include groups) and no exclude group matches it. Output stops after
scan.match_cap matches. Use "-" as the file to read standard input.

Examples:
  # Errors, except retries
  logparser scan app.log -i ERROR --and -retry

  # Everything but debug noise, with a saved filter set
  logparser scan app.log --filters app.log.filters.yaml -x DEBUG`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var (
	scanFilterArgs  []filterArg
	scanFiltersFile string
	scanNoBlank     bool
	scanCap         int
	scanLineNumbers bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().VarP(&filterFlag{kind: argInclude, args: &scanFilterArgs}, "include", "i", "Add an include root filter (repeatable)")
	scanCmd.Flags().VarP(&filterFlag{kind: argExclude, args: &scanFilterArgs}, "exclude", "x", "Add an exclude root filter (repeatable)")
	scanCmd.Flags().Var(&filterFlag{kind: argAnd, args: &scanFilterArgs}, "and", "Add +pattern or -pattern under the most recent root (repeatable)")
	scanCmd.Flags().StringVar(&scanFiltersFile, "filters", "", "Load a filter set file before the command-line filters")
	scanCmd.Flags().BoolVar(&scanNoBlank, "no-blank", false, "Drop empty lines from the output")
	scanCmd.Flags().IntVar(&scanCap, "cap", 0, "Stop after this many matches (default: scan.match_cap)")
	scanCmd.Flags().BoolVarP(&scanLineNumbers, "line-numbers", "n", false, "Prefix each line with its line number")
}

type filterArgKind int

const (
	argInclude filterArgKind = iota
	argExclude
	argAnd
)

// filterArg is one filter flag occurrence, kept in command-line order.
type filterArg struct {
	kind  filterArgKind
	value string
}

// filterFlag is a repeatable flag that appends to a list shared with the
// other filter flags, so -i, -x and --and keep their relative order.
type filterFlag struct {
	kind filterArgKind
	args *[]filterArg
}

func (f *filterFlag) String() string {
	if f.args == nil {
		return ""
	}
	var vals []string
	for _, a := range *f.args {
		if a.kind == f.kind {
			vals = append(vals, a.value)
		}
	}
	return strings.Join(vals, ",")
}

func (f *filterFlag) Set(value string) error {
	*f.args = append(*f.args, filterArg{kind: f.kind, value: value})
	return nil
}

func (f *filterFlag) Type() string {
	if f.kind == argAnd {
		return "±pattern"
	}
	return "pattern"
}

// buildForest adds args to f in order. --and attaches to the group of the
// most recently added root, which may come from a loaded filter set.
func buildForest(f *filter.Forest, args []filterArg) error {
	var lastRoot filter.ID
	if groups := f.Groups(); len(groups) > 0 {
		lastRoot = groups[len(groups)-1].Root.ID
	}

	for _, a := range args {
		switch a.kind {
		case argInclude, argExclude:
			pol := filter.Include
			if a.kind == argExclude {
				pol = filter.Exclude
			}
			root, err := f.Add(a.value, pol)
			if err != nil {
				return err
			}
			lastRoot = root.ID

		case argAnd:
			if lastRoot == 0 {
				return fmt.Errorf("--and %q: no root filter to attach to, add one with -i or -x first", a.value)
			}
			var pol filter.Polarity
			switch {
			case strings.HasPrefix(a.value, "+"):
				pol = filter.Include
			case strings.HasPrefix(a.value, "-"):
				pol = filter.Exclude
			default:
				return fmt.Errorf("--and %q: pattern must start with + or -", a.value)
			}
			if _, err := f.AddChild(lastRoot, a.value[1:], pol); err != nil {
				return err
			}
		}
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	forest := filter.New()
	if scanFiltersFile != "" {
		forest, err = filterset.Load(appFs, scanFiltersFile)
		if err != nil {
			return err
		}
	}
	if err := buildForest(forest, scanFilterArgs); err != nil {
		return err
	}

	if scanNoBlank {
		cfg.Scan.IncludeBlankLines = false
	}
	if scanCap > 0 {
		cfg.Scan.MatchCap = scanCap
	}
	return runHeadless(cmd, cfg, args[0], forest, scanLineNumbers)
}

// runHeadless scans path against forest and prints the final snapshot,
// prefixing each line with its number when lineNumbers is set.
func runHeadless(cmd *cobra.Command, cfg *config.Config, path string, forest *filter.Forest, lineNumbers bool) error {
	logger := CreateLogger(cfg)
	defer func() { _ = logger.Close() }()

	var store *linestore.Store
	var err error
	if path == "-" {
		store, err = linestore.Read(cmd.InOrStdin())
	} else {
		store, err = linestore.Load(appFs, path)
	}
	if err != nil {
		logger.WithFile(path).LogError("load failed", err)
		return err
	}

	job := scan.NewJob(1, store, forest, scan.Options{
		MatchCap:          cfg.Scan.MatchCap,
		IncludeBlankLines: cfg.Scan.IncludeBlankLines,
	})

	var final scan.Snapshot
	for snap := range job.Snapshots() {
		final = snap
	}
	logger.WithFile(path).Debug("headless scan finished",
		"filters", forest.Count(),
		"lines", store.Len(),
		"scanned", final.Scanned,
		"matches", final.Matches,
	)

	out := cmd.OutOrStdout()
	if final.NoResults {
		_, err := fmt.Fprintln(out, scan.NoResults)
		return err
	}
	if err := printSnapshot(out, final, lineNumbers); err != nil {
		return err
	}
	if final.Scanned < store.Len() {
		fmt.Fprintf(cmd.ErrOrStderr(), "stopped after %d matches (%d of %d lines scanned)\n",
			final.Matches, final.Scanned, store.Len())
	}
	return nil
}

func printSnapshot(w io.Writer, s scan.Snapshot, lineNumbers bool) error {
	if s.Matches == 0 {
		return nil
	}
	lines := strings.Split(s.Text, "\n")
	for i, line := range lines {
		var err error
		if lineNumbers && i < len(s.LineNumbers) {
			_, err = fmt.Fprintf(w, "%d:%s\n", s.LineNumbers[i]+1, line)
		} else {
			_, err = fmt.Fprintln(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
