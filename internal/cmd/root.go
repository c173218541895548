package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/classdesk/internal/cmd/config"
	appconfig "github.com/Iron-Ham/classdesk/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "classdesk",
	Short: "Multi-tab workspace shell for school administration",
	Long: `classdesk keeps a browser-like set of workspace tabs (classes, rosters,
student records, inbox, timetable) open across restarts. Each session stores
its tab order and tab labels so the shell comes back exactly as it was left.

Run 'classdesk shell' to open the interactive workspace, or use 'classdesk tabs'
to inspect and edit a session's tabs without a terminal UI.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/classdesk/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for session data (overrides session.data_dir)")
	rootCmd.PersistentFlags().String("backend", "", "session store backend: file, sqlite or memory (overrides session.backend)")
	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"config":           "config",
		"session.data_dir": "data-dir",
		"session.backend":  "backend",
	})

	config.Register(rootCmd)
}

// bindFlags binds each viper key to the named flag in flags.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CLASSDESK")
	// Replace dots with underscores for nested keys in env vars
	// e.g., CLASSDESK_SESSION_BACKEND for session.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
