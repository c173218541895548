package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/classdesk/internal/tabstrip"
)

// Config represents the complete classdesk configuration
type Config struct {
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	TabStrip TabStripConfig `mapstructure:"tabstrip" yaml:"tabstrip"`
	TUI      TUIConfig      `mapstructure:"tui" yaml:"tui"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// SessionConfig controls where workspace sessions are stored and how long they live
type SessionConfig struct {
	// Backend selects the session store: "file", "sqlite" or "memory" (default: "file")
	Backend string `mapstructure:"backend" yaml:"backend"`
	// DataDir is the root directory for session data (default: $XDG_DATA_HOME/classdesk)
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// TTLHours is the idle time after which a session expires (0 = never)
	TTLHours int `mapstructure:"ttl_hours" yaml:"ttl_hours"`
	// PruneLabelsOnClose removes a tab's stored label when the tab is closed.
	// When false (default), labels are kept so a reopened tab keeps its title.
	PruneLabelsOnClose bool `mapstructure:"prune_labels_on_close" yaml:"prune_labels_on_close"`
}

// TabStripConfig holds the tab strip sizing constants, in terminal cells
type TabStripConfig struct {
	// Tiers maps a maximum tab count to a per-tab width. The last tier applies
	// to any larger count.
	Tiers         []tabstrip.Tier `mapstructure:"tiers" yaml:"tiers"`
	Gap           int             `mapstructure:"gap" yaml:"gap"`
	NewTabWidth   int             `mapstructure:"new_tab_width" yaml:"new_tab_width"`
	OverflowWidth int             `mapstructure:"overflow_width" yaml:"overflow_width"`
	AuxWidth      int             `mapstructure:"aux_width" yaml:"aux_width"`
}

// TUIConfig controls the terminal shell
type TUIConfig struct {
	// Theme is the color theme (default: "default")
	Theme string `mapstructure:"theme" yaml:"theme"`
	// ShowAuxiliary shows the help toggle at the right edge of the tab strip
	ShowAuxiliary bool `mapstructure:"show_auxiliary" yaml:"show_auxiliary"`
	// ShowHelp shows the key binding help line below the content
	ShowHelp bool `mapstructure:"show_help" yaml:"show_help"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled writes a debug.log into each session directory (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum level: "debug", "info", "warn" or "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	layout := tabstrip.DefaultLayout()
	return &Config{
		Session: SessionConfig{
			Backend:            "file",
			DataDir:            "",
			TTLHours:           24 * 7,
			PruneLabelsOnClose: false,
		},
		TabStrip: TabStripConfig{
			Tiers:         layout.Tiers,
			Gap:           layout.Gap,
			NewTabWidth:   layout.NewTabWidth,
			OverflowWidth: layout.OverflowWidth,
			AuxWidth:      layout.AuxWidth,
		},
		TUI: TUIConfig{
			Theme:         "default",
			ShowAuxiliary: true,
			ShowHelp:      true,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// TTL returns the session TTL as a time.Duration (0 means sessions never expire)
func (c *SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ResolveDataDir returns the data directory with "~" expanded, falling back
// to DataDir() when unset.
func (c *SessionConfig) ResolveDataDir() string {
	path := c.DataDir
	if path == "" {
		return DataDir()
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// Layout converts the tab strip section into a tabstrip.Layout
func (c *TabStripConfig) Layout() tabstrip.Layout {
	return tabstrip.Layout{
		Tiers:         c.Tiers,
		Gap:           c.Gap,
		NewTabWidth:   c.NewTabWidth,
		OverflowWidth: c.OverflowWidth,
		AuxWidth:      c.AuxWidth,
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Session defaults
	viper.SetDefault("session.backend", defaults.Session.Backend)
	viper.SetDefault("session.data_dir", defaults.Session.DataDir)
	viper.SetDefault("session.ttl_hours", defaults.Session.TTLHours)
	viper.SetDefault("session.prune_labels_on_close", defaults.Session.PruneLabelsOnClose)

	// Tab strip defaults
	tiers := make([]map[string]any, len(defaults.TabStrip.Tiers))
	for i, t := range defaults.TabStrip.Tiers {
		tiers[i] = map[string]any{"max_tabs": t.MaxTabs, "width": t.Width}
	}
	viper.SetDefault("tabstrip.tiers", tiers)
	viper.SetDefault("tabstrip.gap", defaults.TabStrip.Gap)
	viper.SetDefault("tabstrip.new_tab_width", defaults.TabStrip.NewTabWidth)
	viper.SetDefault("tabstrip.overflow_width", defaults.TabStrip.OverflowWidth)
	viper.SetDefault("tabstrip.aux_width", defaults.TabStrip.AuxWidth)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.show_auxiliary", defaults.TUI.ShowAuxiliary)
	viper.SetDefault("tui.show_help", defaults.TUI.ShowHelp)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
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

// Watch reloads the configuration whenever the config file changes and
// passes each valid result to onChange. Invalid edits are reported to
// onError, if set, and otherwise ignored.
func Watch(onChange func(*Config), onError func(error)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "classdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".classdesk"
	}
	return filepath.Join(home, ".config", "classdesk")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the default directory for session data
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "classdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".classdesk"
	}
	return filepath.Join(home, ".local", "share", "classdesk")
}
