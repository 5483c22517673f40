package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/logparser/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify logparser configuration",
	Long: `View or modify logparser configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  logparser config set scan.match_cap 500
  logparser config set tui.default_polarity include
  logparser config set watch.enabled true

Valid keys:
  scan.match_cap            - Matches collected before a scan stops (1-100000)
  scan.include_blank_lines  - Keep empty lines in results (true/false)
  tui.show_line_numbers     - Prefix results with line numbers (true/false)
  tui.filter_panel_width    - Width of the filter list (16-80)
  tui.default_polarity      - Polarity of new filters
                              Options: include, exclude
  watch.enabled             - Reload the file when it changes (true/false)
  watch.debounce_ms         - Change debounce in milliseconds (10-10000)
  logging.enabled           - Write debug.log (true/false)
  logging.level             - Options: debug, info, warn, error
  logging.max_size_mb       - Rotate debug.log past this size
  logging.max_backups       - Rotated files to keep
  logging.compress          - Gzip rotated files (true/false)
  paths.log_dir             - Directory for debug.log`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/logparser/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// configKeyTypes lists the keys accepted by 'config set' and how their
// values are parsed.
var configKeyTypes = map[string]string{
	"scan.match_cap":           "int",
	"scan.include_blank_lines": "bool",
	"tui.show_line_numbers":    "bool",
	"tui.filter_panel_width":   "int",
	"tui.default_polarity":     "string",
	"watch.enabled":            "bool",
	"watch.debounce_ms":        "int",
	"logging.enabled":          "bool",
	"logging.level":            "string",
	"logging.max_size_mb":      "int",
	"logging.max_backups":      "int",
	"logging.compress":         "bool",
	"paths.log_dir":            "string",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "scan:")
	fmt.Fprintf(out, "  match_cap: %d\n", cfg.Scan.MatchCap)
	fmt.Fprintf(out, "  include_blank_lines: %v\n", cfg.Scan.IncludeBlankLines)

	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  show_line_numbers: %v\n", cfg.TUI.ShowLineNumbers)
	fmt.Fprintf(out, "  filter_panel_width: %d\n", cfg.TUI.FilterPanelWidth)
	fmt.Fprintf(out, "  default_polarity: %s\n", cfg.TUI.DefaultPolarity)

	fmt.Fprintln(out, "watch:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Watch.Enabled)
	fmt.Fprintf(out, "  debounce_ms: %d\n", cfg.Watch.DebounceMs)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Fprintf(out, "  max_backups: %d\n", cfg.Logging.MaxBackups)
	fmt.Fprintf(out, "  compress: %v\n", cfg.Logging.Compress)

	fmt.Fprintln(out, "paths:")
	fmt.Fprintf(out, "  log_dir: %s\n", cfg.Paths.ResolveLogDir())

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	keyType, ok := configKeyTypes[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'logparser config set --help' to see valid keys", key)
	}

	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = n
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)

	// Reject values the loaded config would not accept.
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		if verrs, ok := err.(config.ValidationErrors); ok {
			for _, verr := range verrs {
				if verr.Field == key {
					return fmt.Errorf("invalid value for %s: %s", key, verr.Message)
				}
			}
		}
		return err
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// defaultConfigContent is the commented file written by 'config init'.
const defaultConfigContent = `# logparser configuration

# Background scan
scan:
  # Matching lines collected before a scan stops (1-100000)
  match_cap: 200
  # Keep empty lines in the results
  include_blank_lines: true

# TUI (terminal user interface) settings
tui:
  # Prefix each result with its line number in the file
  show_line_numbers: true
  # Width of the filter list in columns (16-80)
  filter_panel_width: 32
  # Polarity of newly added filters: include or exclude
  default_polarity: exclude

# Follow mode
watch:
  # Reload the file and rescan when it changes on disk
  enabled: false
  # Collapse bursts of change events (milliseconds, 10-10000)
  debounce_ms: 100

# Debug log
logging:
  enabled: true
  # debug, info, warn or error
  level: info
  # Rotate debug.log once it grows past this size
  max_size_mb: 10
  # Rotated files to keep (0 truncates on rotation)
  max_backups: 3
  # Gzip rotated files
  compress: false

paths:
  # Directory for debug.log (empty: <config dir>/logs)
  log_dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'logparser config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize logparser's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/logparser/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: LOGPARSER_* (e.g., LOGPARSER_SCAN_MATCH_CAP)")

	return nil
}
