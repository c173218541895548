package config

import (
	"strings"
	"testing"

	"github.com/Iron-Ham/classdesk/internal/tabstrip"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "unknown backend",
			modify:    func(c *Config) { c.Session.Backend = "redis" },
			wantField: "session.backend",
		},
		{
			name:      "negative ttl",
			modify:    func(c *Config) { c.Session.TTLHours = -1 },
			wantField: "session.ttl_hours",
		},
		{
			name:      "no tiers",
			modify:    func(c *Config) { c.TabStrip.Tiers = nil },
			wantField: "tabstrip.tiers",
		},
		{
			name: "zero tier width",
			modify: func(c *Config) {
				c.TabStrip.Tiers = []tabstrip.Tier{{MaxTabs: 3, Width: 0}}
			},
			wantField: "tabstrip.tiers[0].width",
		},
		{
			name: "tiers out of order",
			modify: func(c *Config) {
				c.TabStrip.Tiers = []tabstrip.Tier{{MaxTabs: 6, Width: 20}, {MaxTabs: 3, Width: 24}, {Width: 12}}
			},
			wantField: "tabstrip.tiers[1].max_tabs",
		},
		{
			name:      "negative gap",
			modify:    func(c *Config) { c.TabStrip.Gap = -1 },
			wantField: "tabstrip.gap",
		},
		{
			name:      "negative overflow width",
			modify:    func(c *Config) { c.TabStrip.OverflowWidth = -3 },
			wantField: "tabstrip.overflow_width",
		},
		{
			name:      "bad theme name",
			modify:    func(c *Config) { c.TUI.Theme = "Solarized Dark" },
			wantField: "tui.theme",
		},
		{
			name:      "bad log level",
			modify:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors %v do not include field %q", errs, tt.wantField)
			}
		})
	}
}

func TestConfig_Validate_LastTierMaxTabsIgnored(t *testing.T) {
	cfg := Default()
	cfg.TabStrip.Tiers = []tabstrip.Tier{{MaxTabs: 4, Width: 20}, {MaxTabs: 0, Width: 10}}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestConfig_Validate_EmptyOptionalFields(t *testing.T) {
	cfg := Default()
	cfg.TUI.Theme = ""
	cfg.Logging.Level = ""

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}
