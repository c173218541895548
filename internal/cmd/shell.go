package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/classdesk/internal/config"
	"github.com/Iron-Ham/classdesk/internal/tui"
	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the interactive workspace",
	Long: `Open the interactive workspace in the terminal.

The shell restores the session's tabs, then keeps them saved as you open,
close and reorder tabs. Without --session the most recently used session is
reopened, or a new one is created.

Paths use the same form as the address bar, e.g. /classroom/5a/students or
/student-ada-lovelace.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

var (
	shellPath  string
	shellWatch bool
)

func init() {
	shellCmd.Flags().StringVar(&sessionFlag, "session", "", "session ID to open")
	shellCmd.Flags().StringVar(&shellPath, "path", "", "address to open at startup (default: the first restored tab)")
	shellCmd.Flags().BoolVar(&shellWatch, "watch-config", true, "reload theme and tab strip settings when the config file changes")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the shell needs an interactive terminal; use 'classdesk tabs' for scripted access")
	}

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	id, err := e.resolveSession(ctx, sessionFlag, true)
	if err != nil {
		return err
	}
	if err := e.dropExpired(ctx, id); err != nil {
		return err
	}
	e.startLogging(id)

	lock, err := e.manager.Lock(id)
	if err != nil {
		return fmt.Errorf("failed to lock session %s: %w", id, err)
	}
	defer func() { _ = lock.Release() }()

	reg, bridge, err := e.openWorkspace(ctx, id)
	if err != nil {
		return err
	}
	defer bridge.Detach()

	loadCustomThemes(e)

	e.logger.Info("shell started", "path", shellPath, "tab_count", reg.Len())
	fmt.Fprintf(cmd.ErrOrStderr(), "Session %s\n", id)

	var appOpts []tui.AppOption
	if shellWatch {
		appOpts = append(appOpts, tui.WithConfigWatch())
	}
	app := tui.New(tui.Options{
		Registry:    reg,
		InitialPath: shellPath,
		Config:      e.cfg,
		Logger:      e.logger,
	}, appOpts...)

	if err := app.Run(); err != nil {
		return fmt.Errorf("shell exited with error: %w", err)
	}
	e.logger.Info("shell stopped", "tab_count", reg.Len())
	return nil
}

// loadCustomThemes registers the user's theme files so the configured theme
// can name one of them.
func loadCustomThemes(e *env) {
	dir := styles.ThemesDir(config.ConfigDir())
	names, errs := styles.DiscoverCustomThemes(afero.NewOsFs(), dir)
	for _, err := range errs {
		e.logger.Warn("failed to load theme", "error", err.Error())
	}
	if len(names) > 0 {
		e.logger.Debug("custom themes loaded", "themes", names)
	}
}
