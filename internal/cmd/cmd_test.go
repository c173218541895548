package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/classdesk/internal/errors"
	"github.com/Iron-Ham/classdesk/internal/session"
	"github.com/Iron-Ham/classdesk/internal/tabkey"
	"github.com/Iron-Ham/classdesk/internal/workspace"
)

// testEnv isolates config and data directories and returns the data dir.
func testEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	dataDir := filepath.Join(root, "data")

	// Flags are bound to the global viper instance, so it is not reset here;
	// every run passes --data-dir and --backend explicitly.
	origNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = origNoColor
		timeNow = time.Now
	})
	return dataDir
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	// Flag variables outlive a single Execute call.
	sessionFlag, openLabel, openReplaceParent = "", "", false
	cleanAll, cleanSessionID = false, ""

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--data-dir", dataDir, "--backend", "file"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

// storedOrder reads session id's persisted tab order.
func storedOrder(t *testing.T, dataDir, id string) []tabkey.Key {
	t.Helper()
	m, err := session.NewManager(session.Options{Backend: session.BackendFile, DataDir: dataDir})
	require.NoError(t, err)
	defer m.Close()

	store, err := m.Open(context.Background(), id)
	require.NoError(t, err)
	return workspace.NewBridge(store, nil).Restore(context.Background()).Order
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "classdesk", rootCmd.Use)

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"shell", "tabs", "sessions", "config"} {
		assert.True(t, names[want], "expected subcommand %q", want)
	}
}

func TestTabsOpenListClose(t *testing.T) {
	dataDir := testEnv(t)

	out, err := execute(t, dataDir, "tabs", "open", "/inbox", "--session", "room12")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened Inbox")
	assert.Equal(t, []tabkey.Key{tabkey.Home, tabkey.Inbox}, storedOrder(t, dataDir, "room12"))

	_, err = execute(t, dataDir, "tabs", "open", "student-ada-lovelace", "--label", "Ada L.", "--session", "room12")
	require.NoError(t, err)

	out, err = execute(t, dataDir, "tabs", "list", "--session", "room12")
	require.NoError(t, err)
	assert.Contains(t, out, "3 tab(s)")
	assert.Contains(t, out, "Ada L.")
	assert.Contains(t, out, "/student-ada-lovelace")

	out, err = execute(t, dataDir, "tabs", "close", "/inbox", "--session", "room12")
	require.NoError(t, err)
	assert.Contains(t, out, "Closed Inbox")
	assert.Equal(t, []tabkey.Key{tabkey.Home, "student-ada-lovelace"}, storedOrder(t, dataDir, "room12"))
}

func TestTabsOpenReplaceParent(t *testing.T) {
	dataDir := testEnv(t)

	for _, args := range [][]string{
		{"tabs", "open", "/classroom", "--session", "s1"},
		{"tabs", "open", "/inbox", "--session", "s1"},
		{"tabs", "open", "/classroom/5a", "--replace-parent", "--label", "Class 5A", "--session", "s1"},
	} {
		_, err := execute(t, dataDir, args...)
		require.NoError(t, err, "args %v", args)
	}

	assert.Equal(t, []tabkey.Key{tabkey.Home, "classroom/5a", tabkey.Inbox}, storedOrder(t, dataDir, "s1"))
}

func TestTabsOpenRejectsPlaceholderAndInvalidPaths(t *testing.T) {
	dataDir := testEnv(t)

	_, err := execute(t, dataDir, "tabs", "open", "/new-tab", "--session", "s1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPlaceholderKey))

	_, err = execute(t, dataDir, "tabs", "open", "/gradebook", "--session", "s1")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidKey(err))
}

func TestTabsCloseUnknownTab(t *testing.T) {
	dataDir := testEnv(t)

	_, err := execute(t, dataDir, "tabs", "open", "/inbox", "--session", "s1")
	require.NoError(t, err)

	_, err = execute(t, dataDir, "tabs", "close", "/timetable", "--session", "s1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestTabsDefaultsToMostRecentSession(t *testing.T) {
	dataDir := testEnv(t)

	_, err := execute(t, dataDir, "tabs", "list")
	require.Error(t, err, "tabs list without sessions")
	assert.True(t, errors.IsNotFound(err))

	_, err = execute(t, dataDir, "tabs", "open", "/timetable", "--session", "older")
	require.NoError(t, err)
	// File backend timestamps come from mtimes; keep the two sessions apart.
	past := time.Now().Add(-time.Hour)
	stateDir := filepath.Join(dataDir, session.SessionsDir, "older", session.StateDir)
	entries, err := os.ReadDir(stateDir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, os.Chtimes(filepath.Join(stateDir, e.Name()), past, past))
	}

	_, err = execute(t, dataDir, "tabs", "open", "/profile", "--session", "newer")
	require.NoError(t, err)

	out, err := execute(t, dataDir, "tabs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Session newer")
	assert.Contains(t, out, "/profile")
}

func TestTabsReset(t *testing.T) {
	dataDir := testEnv(t)

	_, err := execute(t, dataDir, "tabs", "open", "/inbox", "--session", "s1")
	require.NoError(t, err)
	_, err = execute(t, dataDir, "tabs", "open", "student-ada-lovelace", "--label", "Ada L.", "--session", "s1")
	require.NoError(t, err)

	out, err := execute(t, dataDir, "tabs", "reset", "--session", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "reset to a single home tab")
	assert.Equal(t, []tabkey.Key{tabkey.Home}, storedOrder(t, dataDir, "s1"))

	out, err = execute(t, dataDir, "tabs", "open", "student-ada-lovelace", "--session", "s1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Ada L.", "reset should forget stored labels")
}

func TestTabsRefusesLockedSession(t *testing.T) {
	dataDir := testEnv(t)

	_, err := execute(t, dataDir, "tabs", "open", "/inbox", "--session", "s1")
	require.NoError(t, err)

	m, err := session.NewManager(session.Options{Backend: session.BackendFile, DataDir: dataDir})
	require.NoError(t, err)
	defer m.Close()
	lock, err := m.Lock("s1")
	require.NoError(t, err)
	defer lock.Release()

	_, err = execute(t, dataDir, "tabs", "list", "--session", "s1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, session.ErrSessionLocked))
}

func TestSessionsList(t *testing.T) {
	dataDir := testEnv(t)

	out, err := execute(t, dataDir, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")

	_, err = execute(t, dataDir, "tabs", "open", "/inbox", "--session", "room12")
	require.NoError(t, err)

	out, err = execute(t, dataDir, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 session(s)")
	assert.Contains(t, out, "room12")
	assert.Contains(t, out, "Keys:      3")
	assert.Contains(t, out, "idle")
}

func TestSessionsCleanExpired(t *testing.T) {
	dataDir := testEnv(t)

	_, err := execute(t, dataDir, "tabs", "open", "/inbox", "--session", "old")
	require.NoError(t, err)

	out, err := execute(t, dataDir, "sessions", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to clean.")

	// Default TTL is a week.
	timeNow = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	out, err = execute(t, dataDir, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "expired")

	out, err = execute(t, dataDir, "sessions", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session old")
	assert.NoDirExists(t, filepath.Join(dataDir, session.SessionsDir, "old"))
}

func TestSessionsCleanSpecificAndAll(t *testing.T) {
	dataDir := testEnv(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := execute(t, dataDir, "tabs", "open", "/inbox", "--session", id)
		require.NoError(t, err)
	}

	out, err := execute(t, dataDir, "sessions", "clean", "--session", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session a")
	assert.NoDirExists(t, filepath.Join(dataDir, session.SessionsDir, "a"))

	out, err = execute(t, dataDir, "sessions", "clean", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session b")
	assert.Contains(t, out, "Removed session c")
}

func TestSessionsCleanStaleLock(t *testing.T) {
	dataDir := testEnv(t)

	_, err := execute(t, dataDir, "tabs", "open", "/inbox", "--session", "s1")
	require.NoError(t, err)

	// A lock left by a process that no longer exists.
	lockPath := filepath.Join(dataDir, session.SessionsDir, "s1", session.LockFileName)
	stale := `{"session_id":"s1","pid":999999999,"hostname":"lab-3","started_at":"2024-01-01T00:00:00Z"}`
	require.NoError(t, os.WriteFile(lockPath, []byte(stale), 0o644))

	out, err := execute(t, dataDir, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "stale lock")

	out, err = execute(t, dataDir, "sessions", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 stale lock file(s)")
	assert.NoFileExists(t, lockPath)
}

func TestInvalidBackend(t *testing.T) {
	dataDir := t.TempDir()
	testEnv(t)

	sessionFlag = ""
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--data-dir", dataDir, "--backend", "postgres", "sessions", "list"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid configuration"), err.Error())
}

func TestShellRequiresTerminal(t *testing.T) {
	dataDir := testEnv(t)

	_, err := execute(t, dataDir, "shell")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
