package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Scan.MatchCap != 200 {
		t.Errorf("Scan.MatchCap = %d, want 200", cfg.Scan.MatchCap)
	}
	if !cfg.Scan.IncludeBlankLines {
		t.Error("Scan.IncludeBlankLines should be true by default")
	}
	if !cfg.TUI.ShowLineNumbers {
		t.Error("TUI.ShowLineNumbers should be true by default")
	}
	if cfg.TUI.FilterPanelWidth != 32 {
		t.Errorf("TUI.FilterPanelWidth = %d, want 32", cfg.TUI.FilterPanelWidth)
	}
	if cfg.TUI.DefaultPolarity != "exclude" {
		t.Errorf("TUI.DefaultPolarity = %q, want %q", cfg.TUI.DefaultPolarity, "exclude")
	}
	if cfg.Watch.Enabled {
		t.Error("Watch.Enabled should be false by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Paths.LogDir != "" {
		t.Errorf("Paths.LogDir = %q, want empty", cfg.Paths.LogDir)
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() does not validate: %v", ValidationErrors(errs))
	}
}

func TestWatchConfig_Debounce(t *testing.T) {
	tests := []struct {
		ms       int
		expected time.Duration
	}{
		{100, 100 * time.Millisecond},
		{1000, time.Second},
		{0, 0},
	}

	for _, tt := range tests {
		cfg := WatchConfig{DebounceMs: tt.ms}
		if got := cfg.Debounce(); got != tt.expected {
			t.Errorf("Debounce() with %dms = %v, want %v", tt.ms, got, tt.expected)
		}
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/logparser" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/logparser")
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		want := filepath.Join(home, ".config", "logparser")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigFile(); got != "/custom/config/logparser/config.yaml" {
		t.Errorf("ConfigFile() = %q", got)
	}
}

func TestResolveLogDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	home, _ := os.UserHomeDir()

	tests := []struct {
		name   string
		logDir string
		want   string
	}{
		{"empty uses config dir", "", "/cfg/logparser/logs"},
		{"absolute", "/var/log/logparser", "/var/log/logparser"},
		{"tilde", "~/logs", filepath.Join(home, "logs")},
		{"bare tilde", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PathsConfig{LogDir: tt.logDir}
			if got := p.ResolveLogDir(); got != tt.want {
				t.Errorf("ResolveLogDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Scan.MatchCap != 200 {
		t.Errorf("Get().Scan.MatchCap = %d, want 200", cfg.Scan.MatchCap)
	}
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	viper.Set("scan.match_cap", 50)
	viper.Set("tui.default_polarity", "include")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scan.MatchCap != 50 {
		t.Errorf("Scan.MatchCap = %d, want 50", cfg.Scan.MatchCap)
	}
	if cfg.TUI.DefaultPolarity != "include" {
		t.Errorf("TUI.DefaultPolarity = %q, want include", cfg.TUI.DefaultPolarity)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	viper.Set("scan.match_cap", 0)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for match_cap 0")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok || len(verrs) != 1 || verrs[0].Field != "scan.match_cap" {
		t.Errorf("Load() error = %v, want single scan.match_cap error", err)
	}

	if got := Get(); got.Scan.MatchCap != 200 {
		t.Errorf("Get() should fall back to defaults, MatchCap = %d", got.Scan.MatchCap)
	}
}
