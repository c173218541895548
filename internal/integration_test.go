// Package internal contains integration tests that verify the workspace
// packages work together: navigation, address-bar history, drag reordering
// and persistence across a restart of the session store.
package internal

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/Iron-Ham/classdesk/internal/event"
	"github.com/Iron-Ham/classdesk/internal/session"
	"github.com/Iron-Ham/classdesk/internal/tabkey"
	"github.com/Iron-Ham/classdesk/internal/workspace"
)

// openWorkspace restores session id from manager and wires history and
// persistence the way the shell does.
func openWorkspace(t *testing.T, manager *session.Manager, id string) (*workspace.Registry, *workspace.History, *workspace.Bridge) {
	t.Helper()
	ctx := context.Background()

	store, err := manager.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", id, err)
	}
	bridge := workspace.NewBridge(store, nil)
	reg := workspace.NewRegistry(nil, nil)
	reg.Init(bridge.Restore(ctx))
	bridge.Attach(ctx, reg)

	history := workspace.NewHistory(tabkey.ToPath(reg.Current()), reg.Bus())
	detach := workspace.NewLocationSync(reg, history, nil).Attach(reg.Bus())
	t.Cleanup(detach)
	return reg, history, bridge
}

func TestWorkspaceSurvivesRestart(t *testing.T) {
	for _, backend := range []session.Backend{session.BackendFile, session.BackendSQLite} {
		t.Run(string(backend), func(t *testing.T) {
			dataDir := t.TempDir()
			opts := session.Options{Backend: backend, DataDir: dataDir}

			manager, err := session.NewManager(opts)
			if err != nil {
				t.Fatalf("NewManager() error = %v", err)
			}
			reg, history, bridge := openWorkspace(t, manager, "room12")

			var mu sync.Mutex
			var seen []string
			reg.Subscribe(func(e event.Event) {
				mu.Lock()
				seen = append(seen, e.EventType())
				mu.Unlock()
			})

			nav := workspace.NewNavigator(reg, history, nil)
			nav.NavigateTo(tabkey.Classroom, workspace.NavigateOptions{})
			nav.NavigateTo("classroom/5a", workspace.NavigateOptions{ReplaceParent: true, Label: "Class 5A"})
			nav.NavigateTo(tabkey.StudentKey("ada-lovelace"), workspace.NavigateOptions{Label: "Ada Lovelace"})

			// Back in the address bar re-activates the class tab.
			if !history.Back() {
				t.Fatal("Back() = false")
			}
			if got := reg.Active(); got != "classroom/5a" {
				t.Errorf("Active() after Back = %q, want classroom/5a", got)
			}

			drag := workspace.NewDragController(reg)
			drag.OnDragStart("student-ada-lovelace")
			if !drag.OnDrop(tabkey.Home) {
				t.Fatal("OnDrop() = false")
			}
			nav.CloseTab(tabkey.Home)

			want := []tabkey.Key{"student-ada-lovelace", "classroom/5a"}
			if got := reg.Order(); !slices.Equal(got, want) {
				t.Fatalf("Order() = %v, want %v", got, want)
			}

			mu.Lock()
			for _, typ := range []string{event.TypeTabOpened, event.TypeTabLabeled, event.TypeTabsReordered, event.TypeTabClosed} {
				if !slices.Contains(seen, typ) {
					t.Errorf("no %s event among %v", typ, seen)
				}
			}
			mu.Unlock()

			bridge.Detach()
			if err := manager.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			// Restart against the same data directory.
			manager, err = session.NewManager(opts)
			if err != nil {
				t.Fatalf("NewManager() after restart error = %v", err)
			}
			defer manager.Close()
			restored, _, _ := openWorkspace(t, manager, "room12")

			if got := restored.Order(); !slices.Equal(got, want) {
				t.Errorf("restored Order() = %v, want %v", got, want)
			}
			if got := restored.Title("classroom/5a"); got != "Class 5A" {
				t.Errorf("restored classroom title = %q", got)
			}
			if got := restored.Title("student-ada-lovelace"); got != "Ada Lovelace" {
				t.Errorf("restored student title = %q", got)
			}
			// The classroom parent was replaced, not closed, so nothing else
			// is restored.
			if restored.Contains(tabkey.Classroom) || restored.Contains(tabkey.Home) {
				t.Errorf("restored unexpected tabs: %v", restored.Order())
			}
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	manager, err := session.NewManager(session.Options{Backend: session.BackendSQLite, DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer manager.Close()

	first, history, _ := openWorkspace(t, manager, "morning")
	workspace.NewNavigator(first, history, nil).NavigateTo(tabkey.Inbox, workspace.NavigateOptions{})

	second, _, _ := openWorkspace(t, manager, "afternoon")
	if got := second.Order(); !slices.Equal(got, []tabkey.Key{tabkey.Home}) {
		t.Errorf("new session Order() = %v, want [home]", got)
	}

	infos, err := manager.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "morning" {
		t.Errorf("List() = %+v, want only the session with stored tabs", infos)
	}
}
