// Package config provides CLI commands for managing classdesk configuration.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/classdesk/internal/config"
	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

// fs is the filesystem config and theme files are written to. Tests replace it.
var fs = afero.NewOsFs()

// configDir is the user's config directory. Tests replace it.
var configDir = appconfig.ConfigDir

func configFile() string {
	return filepath.Join(configDir(), "config.yaml")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify classdesk configuration",
	Long: `View or modify classdesk configuration.

Use 'config show' to display the effective configuration.
Use subcommands to modify settings or create a config file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  classdesk config set session.backend sqlite
  classdesk config set tui.theme nord
  classdesk config set tabstrip.gap 2

Valid keys:
  session.backend                - Session store: file, sqlite, memory
  session.data_dir               - Directory for session data
  session.ttl_hours              - Idle hours before a session expires (0 = never)
  session.prune_labels_on_close  - Forget a tab's label when it closes (true/false)
  tabstrip.gap                   - Cells between tabs
  tabstrip.new_tab_width         - Width of the new tab button
  tabstrip.overflow_width        - Width of the overflow button
  tabstrip.aux_width             - Width of the help button
  tui.theme                      - Color theme (built-in or custom)
  tui.show_auxiliary             - Show the help button in the tab strip (true/false)
  tui.show_help                  - Show the key binding help line (true/false)
  logging.enabled                - Write a debug log per session (true/false)
  logging.level                  - Minimum log level: debug, info, warn, error`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/classdesk/config.yaml with all available options.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  classdesk config reset            # Reset all to defaults
  classdesk config reset tui.theme  # Reset only tui.theme to default`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
// This is the main entry point for integrating the config subpackage with
// the root command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w)

	// Show where config is being read from
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "Config file: %s\n", used)
	} else {
		fmt.Fprintf(w, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintf(w, "Data directory: %s\n", cfg.Session.ResolveDataDir())
	fmt.Fprintln(w)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// settableKeys maps each key 'config set' accepts to its value kind.
var settableKeys = map[string]string{
	"session.backend":               "backend",
	"session.data_dir":              "string",
	"session.ttl_hours":             "int",
	"session.prune_labels_on_close": "bool",
	"tabstrip.gap":                  "int",
	"tabstrip.new_tab_width":        "int",
	"tabstrip.overflow_width":       "int",
	"tabstrip.aux_width":            "int",
	"tui.theme":                     "theme",
	"tui.show_auxiliary":            "bool",
	"tui.show_help":                 "bool",
	"logging.enabled":               "bool",
	"logging.level":                 "level",
}

// parseValue validates value for key and converts it to the type viper
// should store.
func parseValue(key, value string) (any, error) {
	keyType, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'classdesk config set --help' to see valid keys", key)
	}

	switch keyType {
	case "backend":
		if !slices.Contains(appconfig.ValidBackends(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidBackends(), ", "))
		}
		return value, nil
	case "level":
		if !slices.Contains(appconfig.ValidLogLevels(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
		}
		return value, nil
	case "theme":
		// Discover custom themes first
		_, _ = styles.DiscoverCustomThemes(fs, styles.ThemesDir(configDir()))
		if !styles.IsValidTheme(value) {
			return nil, fmt.Errorf("invalid theme: %s\nValid options: %s",
				value, strings.Join(styles.ValidThemes(), ", "))
		}
		return value, nil
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return intVal, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	typedValue, err := parseValue(key, value)
	if err != nil {
		return err
	}

	viper.Set(key, typedValue)
	path, err := writeConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(w, "Config saved to %s\n", path)
	return nil
}

// writeConfig saves viper's current settings to the user's config file.
func writeConfig() (string, error) {
	if err := fs.MkdirAll(configDir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := configFile()
	viper.SetFs(fs)
	if err := viper.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

const configHeader = `# classdesk configuration
#
# session:   where tab state is stored (backend: file, sqlite or memory)
#            and how long an idle session lives (ttl_hours, 0 = forever)
# tabstrip:  tab widths in terminal cells; each tier applies up to max_tabs
#            open tabs, and the last tier applies to any larger count
# tui:       theme (built-in or a file in the themes directory) and which
#            optional parts of the shell are shown
# logging:   per-session debug log written to <data_dir>/sessions/<id>/debug.log
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile()

	// Check if config file already exists
	if exists, _ := afero.Exists(fs, path); exists {
		return fmt.Errorf("config file already exists at %s\nUse 'classdesk config set' to modify values", path)
	}

	if err := fs.MkdirAll(configDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(appconfig.Default())
	if err != nil {
		return fmt.Errorf("failed to render default configuration: %w", err)
	}
	content := append([]byte(configHeader+"\n"), data...)
	if err := afero.WriteFile(fs, path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	w := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(w, "Created config file at %s\n", path)
	fmt.Fprintln(w, "Edit this file to customize classdesk.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(w, "Default path: %s (not created)\n", configFile())
	}

	// Also show config search paths
	fmt.Fprintln(w, "\nSearch paths:")
	fmt.Fprintf(w, "  1. %s\n", configFile())
	fmt.Fprintf(w, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(w, "\nEnvironment variables: CLASSDESK_* (e.g., CLASSDESK_SESSION_BACKEND)")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := configFile()

	// Check if config file exists, if not create it
	if exists, _ := afero.Exists(fs, path); !exists {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...\n")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	// Find an editor
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		// Try common editors
		for _, e := range []string{"vim", "nano", "vi"} {
			if _, err := execLookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", path)
	return nil
}

// defaultValues returns the default for every settable key.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"session.backend":               d.Session.Backend,
		"session.data_dir":              d.Session.DataDir,
		"session.ttl_hours":             d.Session.TTLHours,
		"session.prune_labels_on_close": d.Session.PruneLabelsOnClose,
		"tabstrip.gap":                  d.TabStrip.Gap,
		"tabstrip.new_tab_width":        d.TabStrip.NewTabWidth,
		"tabstrip.overflow_width":       d.TabStrip.OverflowWidth,
		"tabstrip.aux_width":            d.TabStrip.AuxWidth,
		"tui.theme":                     d.TUI.Theme,
		"tui.show_auxiliary":            d.TUI.ShowAuxiliary,
		"tui.show_help":                 d.TUI.ShowHelp,
		"logging.enabled":               d.Logging.Enabled,
		"logging.level":                 d.Logging.Level,
	}
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := defaultValues()
	w := cmd.OutOrStdout()

	if len(args) == 0 {
		for key, value := range defaults {
			viper.Set(key, value)
		}
		fmt.Fprintln(w, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'classdesk config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(w, "Reset %s to default: %v\n", key, value)
	}

	path, err := writeConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Config saved to %s\n", path)
	return nil
}
