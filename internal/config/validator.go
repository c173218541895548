package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tabstrip.gap")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// themeNameRegex matches built-in and custom theme names
var themeNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidBackends returns the list of valid session store backends
func ValidBackends() []string {
	return []string{"file", "sqlite", "memory"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSession()...)
	errors = append(errors, c.validateTabStrip()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateSession validates the SessionConfig
func (c *Config) validateSession() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidBackends(), c.Session.Backend) {
		errors = append(errors, ValidationError{
			Field:   "session.backend",
			Value:   c.Session.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if c.Session.TTLHours < 0 {
		errors = append(errors, ValidationError{
			Field:   "session.ttl_hours",
			Value:   c.Session.TTLHours,
			Message: "must be non-negative (0 disables expiry)",
		})
	}

	return errors
}

// validateTabStrip validates the TabStripConfig
func (c *Config) validateTabStrip() []ValidationError {
	var errors []ValidationError

	if len(c.TabStrip.Tiers) == 0 {
		errors = append(errors, ValidationError{
			Field:   "tabstrip.tiers",
			Value:   c.TabStrip.Tiers,
			Message: "at least one tier is required",
		})
	}

	prev := 0
	for i, tier := range c.TabStrip.Tiers {
		field := fmt.Sprintf("tabstrip.tiers[%d]", i)
		if tier.Width <= 0 {
			errors = append(errors, ValidationError{
				Field:   field + ".width",
				Value:   tier.Width,
				Message: "must be positive",
			})
		}
		// The last tier covers every larger count, so its max_tabs is ignored.
		if i < len(c.TabStrip.Tiers)-1 && tier.MaxTabs <= prev {
			errors = append(errors, ValidationError{
				Field:   field + ".max_tabs",
				Value:   tier.MaxTabs,
				Message: fmt.Sprintf("must be greater than %d", prev),
			})
		}
		prev = tier.MaxTabs
	}

	widths := []struct {
		field string
		value int
	}{
		{"tabstrip.gap", c.TabStrip.Gap},
		{"tabstrip.new_tab_width", c.TabStrip.NewTabWidth},
		{"tabstrip.overflow_width", c.TabStrip.OverflowWidth},
		{"tabstrip.aux_width", c.TabStrip.AuxWidth},
	}
	for _, w := range widths {
		if w.value < 0 {
			errors = append(errors, ValidationError{
				Field:   w.field,
				Value:   w.value,
				Message: "must be non-negative",
			})
		}
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	// Whether the theme exists is checked when themes are loaded; custom
	// themes are discovered from disk.
	if c.TUI.Theme != "" && !themeNameRegex.MatchString(c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: "must contain only lowercase letters, digits and hyphens",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
