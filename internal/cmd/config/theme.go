package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage color themes",
	Long: `Manage color themes for the classdesk shell.

classdesk supports both built-in themes and custom user-defined themes.
Custom themes are stored in ~/.config/classdesk/themes/ as YAML files.

Use 'theme list' to see all available themes.
Use 'theme export' to create a template for custom themes.
Use 'theme info' to view details about a specific theme.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	Args:  cobra.NoArgs,
	RunE:  runThemeList,
}

var themeExportCmd = &cobra.Command{
	Use:   "export <theme-name> [output-file]",
	Short: "Export a theme to YAML",
	Long: `Export a theme to YAML format for customization or sharing.

If no output file is specified, the YAML is printed to stdout.
This is useful for creating a starting point for custom themes.

Examples:
  classdesk config theme export default                # Print default theme to stdout
  classdesk config theme export dracula my-theme.yaml  # Save dracula theme to file
  classdesk config theme export default > custom.yaml  # Redirect to file`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runThemeExport,
}

var themeInfoCmd = &cobra.Command{
	Use:   "info <theme-name>",
	Short: "Show information about a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeInfo,
}

var themePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the custom themes directory path",
	Args:  cobra.NoArgs,
	RunE:  runThemePath,
}

var themeCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new custom theme from the default template",
	Long: `Create a new custom theme file in your themes directory.

This creates a new YAML file based on the default theme that you can customize.
A running shell picks the theme up the next time it starts.

Example:
  classdesk config theme create chalkboard
  # Creates ~/.config/classdesk/themes/chalkboard.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runThemeCreate,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeInfoCmd)
	themeCmd.AddCommand(themePathCmd)
	themeCmd.AddCommand(themeCreateCmd)
	configCmd.AddCommand(themeCmd)
}

func themesDir() string {
	return styles.ThemesDir(configDir())
}

// discoverThemes loads custom themes, returning per-file load errors.
func discoverThemes() []error {
	_, errs := styles.DiscoverCustomThemes(fs, themesDir())
	return errs
}

// unknownThemeError explains why name is not a usable theme, pointing at
// its load error when the file exists but is broken.
func unknownThemeError(name string, loadErrs []error) error {
	for _, err := range loadErrs {
		errStr := err.Error()
		if strings.HasPrefix(errStr, name+".yaml:") || strings.HasPrefix(errStr, name+".yml:") {
			return fmt.Errorf("theme '%s' exists but failed to load: %v\n\nFix the errors in your theme file and try again", name, err)
		}
	}
	return fmt.Errorf("unknown theme: %s\n\nRun 'classdesk config theme list' to see available themes.\nCustom themes should be placed in: %s", name, themesDir())
}

func runThemeList(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	// Discover custom themes and report any load errors
	if loadErrs := discoverThemes(); len(loadErrs) > 0 {
		errOut := cmd.ErrOrStderr()
		color.New(color.FgYellow).Fprintln(errOut, "Warning: Some themes failed to load:")
		for _, err := range loadErrs {
			fmt.Fprintf(errOut, "  - %v\n", err)
		}
		fmt.Fprintln(errOut)
	}

	fmt.Fprintln(w, "Available themes:")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		fmt.Fprintf(w, "  - %s\n", name)
	}

	customNames := styles.CustomThemeNames()
	if len(customNames) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Custom themes:")
		sort.Strings(customNames)
		for _, name := range customNames {
			theme := styles.GetCustomTheme(styles.ThemeName(name))
			if theme == nil {
				continue
			}
			if theme.Author != "" {
				fmt.Fprintf(w, "  - %s (by %s)\n", name, theme.Author)
			} else {
				fmt.Fprintf(w, "  - %s\n", name)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Custom themes directory: %s\n", themesDir())
	return nil
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	themeName := args[0]

	loadErrs := discoverThemes()
	if !styles.IsValidTheme(themeName) {
		return unknownThemeError(themeName, loadErrs)
	}

	data, err := styles.ExportTheme(styles.ThemeName(themeName))
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}

	if len(args) > 1 {
		outputPath := args[1]
		if err := afero.WriteFile(fs, outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", outputPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to: %s\n", outputPath)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	themeName := args[0]

	loadErrs := discoverThemes()
	if !styles.IsValidTheme(themeName) {
		return unknownThemeError(themeName, loadErrs)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Theme: %s\n", themeName)
	fmt.Fprintln(w)

	if styles.IsBuiltinTheme(themeName) {
		fmt.Fprintln(w, "Type: Built-in")
	} else {
		fmt.Fprintln(w, "Type: Custom")
		if theme := styles.GetCustomTheme(styles.ThemeName(themeName)); theme != nil {
			if theme.Author != "" {
				fmt.Fprintf(w, "Author: %s\n", theme.Author)
			}
			if theme.Description != "" {
				fmt.Fprintf(w, "Description: %s\n", theme.Description)
			}
		}
	}

	palette := styles.GetPalette(styles.ThemeName(themeName))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Base Colors:")
	fmt.Fprintf(w, "  Primary:   %s\n", palette.Primary)
	fmt.Fprintf(w, "  Secondary: %s\n", palette.Secondary)
	fmt.Fprintf(w, "  Warning:   %s\n", palette.Warning)
	fmt.Fprintf(w, "  Error:     %s\n", palette.Error)
	fmt.Fprintf(w, "  Muted:     %s\n", palette.Muted)
	fmt.Fprintf(w, "  Surface:   %s\n", palette.Surface)
	fmt.Fprintf(w, "  Text:      %s\n", palette.Text)
	fmt.Fprintf(w, "  Border:    %s\n", palette.Border)
	fmt.Fprintf(w, "  Indicator: %s\n", palette.Indicator)
	return nil
}

func runThemePath(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	dir := themesDir()
	fmt.Fprintln(w, dir)

	if exists, _ := afero.DirExists(fs, dir); !exists {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Note: This directory does not exist yet.")
		fmt.Fprintln(w, "It will be created when you add your first custom theme.")
	}
	return nil
}

func runThemeCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	if name == "" {
		return fmt.Errorf("theme name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return fmt.Errorf("theme name contains invalid characters")
	}
	if styles.IsBuiltinTheme(name) {
		return fmt.Errorf("cannot create custom theme with built-in name '%s'", name)
	}

	dir := themesDir()
	themePath := filepath.Join(dir, name+".yaml")
	if _, err := fs.Stat(themePath); err == nil {
		return fmt.Errorf("theme '%s' already exists at %s", name, themePath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", themePath, err)
	}

	def := styles.DefaultPalette()
	theme := &styles.ThemeFile{
		Name:        capitalizeFirst(name),
		Description: "A custom classdesk theme",
		Version:     "1",
		Colors: styles.ThemeColors{
			Primary:   string(def.Primary),
			Secondary: string(def.Secondary),
			Warning:   string(def.Warning),
			Error:     string(def.Error),
			Muted:     string(def.Muted),
			Surface:   string(def.Surface),
			Text:      string(def.Text),
			Border:    string(def.Border),
			Indicator: string(def.Indicator),
		},
	}

	path, err := styles.SaveTheme(fs, dir, name, theme)
	if err != nil {
		return fmt.Errorf("creating theme: %w", err)
	}

	w := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(w, "Created new theme: %s\n", path)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit this file to customize your theme colors.")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "To use your new theme, run:\n")
	fmt.Fprintf(w, "  classdesk config set tui.theme %s\n", name)
	return nil
}

// capitalizeFirst capitalizes the first character of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
