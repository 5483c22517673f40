package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete logparser configuration
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
	Paths   PathsConfig   `mapstructure:"paths"`
}

// ScanConfig controls the background filter scan
type ScanConfig struct {
	// MatchCap is the number of matching lines a scan collects before stopping (default: 200)
	MatchCap int `mapstructure:"match_cap"`
	// IncludeBlankLines keeps empty lines in the results when true (default: true)
	IncludeBlankLines bool `mapstructure:"include_blank_lines"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// ShowLineNumbers prefixes each result with its line number in the file
	ShowLineNumbers bool `mapstructure:"show_line_numbers"`
	// FilterPanelWidth is the width of the filter list in columns (default: 32, min: 16, max: 80)
	FilterPanelWidth int `mapstructure:"filter_panel_width"`
	// DefaultPolarity is the polarity of newly added filters: "include" or "exclude" (default: "exclude")
	DefaultPolarity string `mapstructure:"default_polarity"`
}

// WatchConfig controls follow mode
type WatchConfig struct {
	// Enabled reloads the file and rescans when it changes on disk (default: false)
	Enabled bool `mapstructure:"enabled"`
	// DebounceMs collapses bursts of change events (default: 100)
	DebounceMs int `mapstructure:"debounce_ms"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// PathsConfig controls where logparser stores data
type PathsConfig struct {
	// LogDir is the directory for debug.log.
	// If empty, defaults to "logs" inside the config directory.
	// Supports ~ for home directory expansion.
	LogDir string `mapstructure:"log_dir"`
}

// ResolveLogDir returns the resolved log directory path.
// If LogDir is empty, it returns ConfigDir()/logs.
// If LogDir starts with ~, it expands to the user's home directory.
func (p *PathsConfig) ResolveLogDir() string {
	if p.LogDir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}

	path := p.LogDir
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return path
}

// Debounce returns the debounce interval as a time.Duration
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			MatchCap:          200,
			IncludeBlankLines: true,
		},
		TUI: TUIConfig{
			ShowLineNumbers:  true,
			FilterPanelWidth: 32,
			DefaultPolarity:  "exclude",
		},
		Watch: WatchConfig{
			Enabled:    false,
			DebounceMs: 100,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
		Paths: PathsConfig{
			LogDir: "", // Empty means use default: <config dir>/logs
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Scan defaults
	viper.SetDefault("scan.match_cap", defaults.Scan.MatchCap)
	viper.SetDefault("scan.include_blank_lines", defaults.Scan.IncludeBlankLines)

	// TUI defaults
	viper.SetDefault("tui.show_line_numbers", defaults.TUI.ShowLineNumbers)
	viper.SetDefault("tui.filter_panel_width", defaults.TUI.FilterPanelWidth)
	viper.SetDefault("tui.default_polarity", defaults.TUI.DefaultPolarity)

	// Watch defaults
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Paths defaults
	viper.SetDefault("paths.log_dir", defaults.Paths.LogDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "logparser")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".logparser"
	}
	return filepath.Join(home, ".config", "logparser")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidPolarities returns the accepted values for tui.default_polarity
func ValidPolarities() []string {
	return []string{"include", "exclude"}
}
