package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/classdesk/internal/errors"
	"github.com/Iron-Ham/classdesk/internal/tabkey"
	"github.com/Iron-Ham/classdesk/internal/workspace"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Inspect and edit a session's tabs",
	Long: `Inspect and edit the tabs stored in a session without opening the shell.

Changes are written the same way the shell writes them, so the next
'classdesk shell' for that session starts with the edited tabs. A session that
is open in a shell is locked and cannot be edited.`,
}

var tabsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the open tabs in order",
	Args:  cobra.NoArgs,
	RunE:  runTabsList,
}

var tabsOpenCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Open a tab",
	Long: `Open a tab by address-bar path or tab key, e.g. /inbox, classroom/5a or
/student-ada-lovelace. An already open tab keeps its position.

With --replace-parent a classroom tab takes over its parent's position when
the parent is open (classroom/5a replaces classroom; classroom/5a/grades
replaces classroom/5a).`,
	Args: cobra.ExactArgs(1),
	RunE: runTabsOpen,
}

var tabsCloseCmd = &cobra.Command{
	Use:   "close <path>",
	Short: "Close a tab",
	Args:  cobra.ExactArgs(1),
	RunE:  runTabsClose,
}

var tabsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset to a single home tab and forget stored labels",
	Args:  cobra.NoArgs,
	RunE:  runTabsReset,
}

var (
	openLabel         string
	openReplaceParent bool
)

func init() {
	rootCmd.AddCommand(tabsCmd)
	tabsCmd.AddCommand(tabsListCmd)
	tabsCmd.AddCommand(tabsOpenCmd)
	tabsCmd.AddCommand(tabsCloseCmd)
	tabsCmd.AddCommand(tabsResetCmd)

	tabsCmd.PersistentFlags().StringVar(&sessionFlag, "session", "", "session ID (default: most recently used)")
	tabsOpenCmd.Flags().StringVar(&openLabel, "label", "", "display label stored for the tab")
	tabsOpenCmd.Flags().BoolVar(&openReplaceParent, "replace-parent", false, "replace the parent tab when it is open")
}

// withWorkspace resolves and locks the session named by --session, opens its
// registry and runs fn.
func withWorkspace(create bool, fn func(ctx context.Context, e *env, id string, reg *workspace.Registry, bridge *workspace.Bridge) error) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	id, err := e.resolveSession(ctx, sessionFlag, create)
	if err != nil {
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

	return fn(ctx, e, id, reg, bridge)
}

func runTabsList(cmd *cobra.Command, args []string) error {
	return withWorkspace(false, func(_ context.Context, _ *env, id string, reg *workspace.Registry, _ *workspace.Bridge) error {
		printTabs(cmd.OutOrStdout(), id, reg)
		return nil
	})
}

func runTabsOpen(cmd *cobra.Command, args []string) error {
	key, err := parseTabArg(args[0])
	if err != nil {
		return err
	}

	return withWorkspace(true, func(_ context.Context, e *env, id string, reg *workspace.Registry, _ *workspace.Bridge) error {
		nav := workspace.NewNavigator(reg, nil, e.logger)
		nav.NavigateTo(key, workspace.NavigateOptions{
			ReplaceParent: openReplaceParent,
			Label:         openLabel,
		})
		e.logger.Info("tab opened from cli", "tab", string(key))

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Opened %s\n", reg.Title(key))
		printTabs(cmd.OutOrStdout(), id, reg)
		return nil
	})
}

func runTabsClose(cmd *cobra.Command, args []string) error {
	key, err := parseTabArg(args[0])
	if err != nil {
		return err
	}

	return withWorkspace(false, func(_ context.Context, e *env, id string, reg *workspace.Registry, _ *workspace.Bridge) error {
		if !reg.Contains(key) {
			return errors.NewWorkspaceError("close", string(key), errors.ErrNotFound)
		}
		title := reg.Title(key)
		workspace.NewNavigator(reg, nil, e.logger).CloseTab(key)
		e.logger.Info("tab closed from cli", "tab", string(key))

		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "Closed %s\n", title)
		printTabs(cmd.OutOrStdout(), id, reg)
		return nil
	})
}

func runTabsReset(cmd *cobra.Command, args []string) error {
	return withWorkspace(false, func(ctx context.Context, e *env, id string, reg *workspace.Registry, bridge *workspace.Bridge) error {
		if err := bridge.Clear(ctx); err != nil {
			return fmt.Errorf("failed to reset session %s: %w", id, err)
		}
		if err := bridge.Save(ctx, workspace.DefaultState()); err != nil {
			return fmt.Errorf("failed to reset session %s: %w", id, err)
		}
		e.logger.Info("tabs reset from cli")

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Session %s reset to a single home tab\n", id)
		return nil
	})
}

// parseTabArg accepts an address-bar path or a bare tab key.
func parseTabArg(arg string) (tabkey.Key, error) {
	key, err := tabkey.Parse(arg)
	if err != nil {
		return "", err
	}
	if key.Kind() == tabkey.KindPlaceholder {
		return "", errors.NewWorkspaceError("open", string(key), errors.ErrPlaceholderKey)
	}
	return key, nil
}

func printTabs(w io.Writer, id string, reg *workspace.Registry) {
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	fmt.Fprintf(w, "Session %s: %d tab(s)\n", id, reg.Len())
	for i, key := range reg.Order() {
		fmt.Fprintf(w, "  %2d  ", i+1)
		cyan.Fprintf(w, "%-32s", reg.Title(key))
		dim.Fprintf(w, " %s\n", tabkey.ToPath(key))
	}
}
