package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/logparser/internal/config"
	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/session"
	"github.com/Iron-Ham/logparser/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "logparser [file]",
	Short: "Interactive include/exclude log filter",
	Long: `logparser narrows a log file down to the lines you care about.

Each filter is a plain substring with an include or exclude polarity. Root
filters combine with OR for includes and veto for excludes; a filter added
under a root narrows that root with AND. Results refresh in the background
as the filter set changes.

Without a file the TUI starts empty. When stdin is not a terminal its
contents are loaded instead. When stdout is not a terminal the input is
printed unfiltered, as 'logparser scan' would.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// isTerminal reports whether fd is a terminal. Tests replace it.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

var (
	rootFollow      bool
	rootFilters     string
	rootLineNumbers bool
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/logparser/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.Flags().BoolVarP(&rootFollow, "follow", "f", false, "Reload the file when it changes on disk")
	rootCmd.Flags().StringVar(&rootFilters, "filters", "", "Filter set file for ctrl+s/ctrl+o (default: <file>.filters.yaml)")
	rootCmd.Flags().BoolVarP(&rootLineNumbers, "line-numbers", "n", false, "Prefix results with their line number")
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/logparser")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("LOGPARSER")
	// e.g., LOGPARSER_SCAN_MATCH_CAP for scan.match_cap
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	if !isTerminal(os.Stdout.Fd()) {
		if path == "" {
			if isTerminal(os.Stdin.Fd()) {
				return fmt.Errorf("no file given and stdout is not a terminal")
			}
			path = "-"
		}
		return runHeadless(cmd, cfg, path, filter.New(), rootLineNumbers)
	}

	polarity, err := filter.ParsePolarity(cfg.TUI.DefaultPolarity)
	if err != nil {
		return err
	}

	logger := CreateLogger(cfg)
	defer func() { _ = logger.Close() }()
	logger.Info("logparser started", "file", path)

	tuiCfg := tui.Config{
		Path:   path,
		Logger: logger,
		Session: session.Options{
			MatchCap:          cfg.Scan.MatchCap,
			IncludeBlankLines: cfg.Scan.IncludeBlankLines,
			DefaultPolarity:   polarity,
		},
		ShowLineNumbers:  cfg.TUI.ShowLineNumbers || rootLineNumbers,
		FilterPanelWidth: cfg.TUI.FilterPanelWidth,
		FilterSetPath:    rootFilters,
		Follow:           cfg.Watch.Enabled || rootFollow,
		Debounce:         cfg.Watch.Debounce(),
	}

	// Log text piped in on stdin; keys come from the terminal instead.
	if path == "-" || (path == "" && !isTerminal(os.Stdin.Fd())) {
		tuiCfg.Source = os.Stdin
		tuiCfg.InputTTY = true
	}

	app := tui.New(tuiCfg)
	if err := app.Run(); err != nil {
		logger.Error("TUI exited with error", "error", err.Error())
		return fmt.Errorf("TUI error: %w", err)
	}
	logger.Info("logparser exited")
	return nil
}
