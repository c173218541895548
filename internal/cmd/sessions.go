package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/classdesk/internal/session"
)

// timeNow is the clock used for expiry decisions. Tests replace it.
var timeNow = time.Now

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage classdesk sessions",
	Long:  `Commands for listing and cleaning up stored workspace sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Long: `List all stored sessions, most recently used first, with:
- Session ID and backend
- Last update time and number of stored keys
- Lock status (whether a shell has the session open)
- Whether the session has expired`,
	Args: cobra.NoArgs,
	RunE: runSessionsList,
}

var sessionsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up expired session data",
	Long: `Clean up expired sessions and stale locks.

This command will:
1. Remove stale lock files (from dead processes)
2. Delete sessions idle for longer than session.ttl_hours
3. Optionally remove one session (--session) or every unlocked session (--all)`,
	Args: cobra.NoArgs,
	RunE: runSessionsClean,
}

var (
	cleanAll       bool
	cleanSessionID string
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsCleanCmd)

	sessionsCleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Remove all unlocked session data")
	sessionsCleanCmd.Flags().StringVar(&cleanSessionID, "session", "", "Clean specific session by ID")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	infos, err := e.manager.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	w := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	fmt.Fprintln(w, strings.Repeat("─", 70))
	bold.Fprintf(w, "classdesk sessions (%s backend)\n", e.manager.Backend())
	fmt.Fprintln(w, strings.Repeat("─", 70))

	if len(infos) == 0 {
		fmt.Fprintln(w, "\nNo sessions found.")
		fmt.Fprintln(w, "Run 'classdesk shell' to create a new session.")
		fmt.Fprintln(w, strings.Repeat("─", 70))
		return nil
	}

	ttl := e.cfg.Session.TTL()
	now := timeNow()
	fmt.Fprintf(w, "\nFound %d session(s):\n\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(w, "  Session: ")
		color.New(color.FgCyan).Fprintln(w, info.ID)
		fmt.Fprintf(w, "    Updated:   %s\n", formatUpdated(info.Updated))
		fmt.Fprintf(w, "    Keys:      %d\n", info.KeyCount)
		fmt.Fprintf(w, "    Status:    %s\n", sessionStatus(info, ttl, now))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, strings.Repeat("─", 70))
	dim.Fprintln(w, "\nTo open a session: classdesk shell --session <session-id>")
	return nil
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.RFC822)
}

func sessionStatus(info session.Info, ttl time.Duration, now time.Time) string {
	switch {
	case info.IsLocked:
		pid := 0
		if info.LockInfo != nil {
			pid = info.LockInfo.PID
		}
		return color.GreenString("open (PID %d)", pid)
	case info.Expired(ttl, now):
		return color.RedString("expired")
	case info.LockInfo != nil:
		return color.YellowString("stale lock")
	default:
		return "idle"
	}
}

func runSessionsClean(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	w := cmd.OutOrStdout()

	if cleanSessionID != "" {
		if err := e.manager.Delete(ctx, cleanSessionID); err != nil {
			return fmt.Errorf("failed to remove session %s: %w", cleanSessionID, err)
		}
		color.New(color.FgGreen).Fprintf(w, "Removed session %s\n", cleanSessionID)
		return nil
	}

	infos, err := e.manager.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	staleLocks := 0
	for _, info := range infos {
		if info.IsLocked || info.LockInfo == nil {
			continue
		}
		lockPath := filepath.Join(info.SessionDir, session.LockFileName)
		if err := e.manager.Fs().Remove(lockPath); err != nil && !os.IsNotExist(err) {
			color.New(color.FgYellow).Fprintf(w, "Warning: failed to remove stale lock for %s: %v\n", info.ID, err)
			continue
		}
		staleLocks++
	}
	if staleLocks > 0 {
		fmt.Fprintf(w, "Removed %d stale lock file(s)\n", staleLocks)
	}

	var removed []string
	if cleanAll {
		for _, info := range infos {
			if info.IsLocked {
				color.New(color.FgYellow).Fprintf(w, "Skipping %s (open in PID %d)\n", info.ID, info.LockInfo.PID)
				continue
			}
			if err := e.manager.Delete(ctx, info.ID); err != nil {
				color.New(color.FgYellow).Fprintf(w, "Warning: failed to remove %s: %v\n", info.ID, err)
				continue
			}
			removed = append(removed, info.ID)
		}
	} else {
		removed, err = e.manager.Clean(ctx, timeNow())
		if err != nil {
			return fmt.Errorf("failed to clean sessions: %w", err)
		}
	}

	if len(removed) == 0 && staleLocks == 0 {
		fmt.Fprintln(w, "Nothing to clean.")
		return nil
	}
	for _, id := range removed {
		color.New(color.FgGreen).Fprintf(w, "Removed session %s\n", id)
	}
	return nil
}
