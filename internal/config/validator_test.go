package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		wantFields []string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:       "match cap zero",
			modify:     func(c *Config) { c.Scan.MatchCap = 0 },
			wantFields: []string{"scan.match_cap"},
		},
		{
			name:       "match cap too large",
			modify:     func(c *Config) { c.Scan.MatchCap = MaxMatchCap + 1 },
			wantFields: []string{"scan.match_cap"},
		},
		{
			name:   "match cap at bounds",
			modify: func(c *Config) { c.Scan.MatchCap = MaxMatchCap },
		},
		{
			name:       "panel too narrow",
			modify:     func(c *Config) { c.TUI.FilterPanelWidth = 10 },
			wantFields: []string{"tui.filter_panel_width"},
		},
		{
			name:       "panel too wide",
			modify:     func(c *Config) { c.TUI.FilterPanelWidth = 81 },
			wantFields: []string{"tui.filter_panel_width"},
		},
		{
			name:       "unknown polarity",
			modify:     func(c *Config) { c.TUI.DefaultPolarity = "both" },
			wantFields: []string{"tui.default_polarity"},
		},
		{
			name:       "debounce too small",
			modify:     func(c *Config) { c.Watch.DebounceMs = 1 },
			wantFields: []string{"watch.debounce_ms"},
		},
		{
			name:       "bad log level",
			modify:     func(c *Config) { c.Logging.Level = "verbose" },
			wantFields: []string{"logging.level"},
		},
		{
			name:       "non-positive log size",
			modify:     func(c *Config) { c.Logging.MaxSizeMB = 0 },
			wantFields: []string{"logging.max_size_mb"},
		},
		{
			name:       "huge log size",
			modify:     func(c *Config) { c.Logging.MaxSizeMB = 5000 },
			wantFields: []string{"logging.max_size_mb"},
		},
		{
			name:       "negative backups",
			modify:     func(c *Config) { c.Logging.MaxBackups = -1 },
			wantFields: []string{"logging.max_backups"},
		},
		{
			name:       "null byte in log dir",
			modify:     func(c *Config) { c.Paths.LogDir = "/tmp/\x00logs" },
			wantFields: []string{"paths.log_dir"},
		},
		{
			name:       "overlong log dir",
			modify:     func(c *Config) { c.Paths.LogDir = "/" + strings.Repeat("a", 5000) },
			wantFields: []string{"paths.log_dir"},
		},
		{
			name: "errors accumulate",
			modify: func(c *Config) {
				c.Scan.MatchCap = -5
				c.Logging.Level = "loud"
			},
			wantFields: []string{"scan.match_cap", "logging.level"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Validate() returned %d errors, want %d: %v", len(errs), len(tt.wantFields), ValidationErrors(errs))
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("error %d field = %q, want %q", i, errs[i].Field, field)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "scan.match_cap", Value: 0, Message: "must be between 1 and 100000"}
	want := "scan.match_cap: must be between 1 and 100000 (got: 0)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	if got := ValidationErrors(nil).Error(); got != "" {
		t.Errorf("empty Error() = %q", got)
	}

	one := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
	if got := one.Error(); got != "a: bad (got: 1)" {
		t.Errorf("single Error() = %q", got)
	}

	two := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}
	got := two.Error()
	if !strings.HasPrefix(got, "2 validation errors:") || !strings.Contains(got, "2. b: worse (got: 2)") {
		t.Errorf("multi Error() = %q", got)
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	want := []string{"debug", "info", "warn", "error"}
	if len(levels) != len(want) {
		t.Fatalf("ValidLogLevels() = %v", levels)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("ValidLogLevels()[%d] = %q, want %q", i, levels[i], want[i])
		}
	}
}
