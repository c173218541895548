package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyBindingMatches(t *testing.T) {
	tests := []struct {
		name     string
		binding  KeyBinding
		msg      tea.KeyMsg
		expected bool
	}{
		{
			name:     "simple rune match",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'x'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}},
			expected: true,
		},
		{
			name:     "simple rune mismatch",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'x'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}},
			expected: false,
		},
		{
			name:     "special key match",
			binding:  KeyBinding{KeyType: tea.KeyEnter},
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			expected: true,
		},
		{
			name:     "special key mismatch",
			binding:  KeyBinding{KeyType: tea.KeyEnter},
			msg:      tea.KeyMsg{Type: tea.KeyEsc},
			expected: false,
		},
		{
			name:     "alt required",
			binding:  KeyBinding{KeyType: tea.KeyLeft, Modifiers: ModAlt},
			msg:      tea.KeyMsg{Type: tea.KeyLeft},
			expected: false,
		},
		{
			name:     "alt matched",
			binding:  KeyBinding{KeyType: tea.KeyLeft, Modifiers: ModAlt},
			msg:      tea.KeyMsg{Type: tea.KeyLeft, Alt: true},
			expected: true,
		},
		{
			name:     "unexpected alt",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'h'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}, Alt: true},
			expected: false,
		},
		{
			name:     "catch-all rune",
			binding:  KeyBinding{KeyType: tea.KeyRunes},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}},
			expected: true,
		},
		{
			name:     "rune binding ignores special keys",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'x'},
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.Matches(tt.msg); got != tt.expected {
				t.Errorf("Matches() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKeymapGetBinding(t *testing.T) {
	km := DefaultKeymap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		mode Mode
		want Command
		ok   bool
	}{
		{"tab cycles", tea.KeyMsg{Type: tea.KeyTab}, ModeNormal, CmdNextTab, true},
		{"digit jumps", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}}, ModeNormal, CmdJumpToTab, true},
		{"ctrl+w closes", tea.KeyMsg{Type: tea.KeyCtrlW}, ModeNormal, CmdCloseTab, true},
		{"alt+left goes back", tea.KeyMsg{Type: tea.KeyLeft, Alt: true}, ModeNormal, CmdBack, true},
		{"enter confirms address", tea.KeyMsg{Type: tea.KeyEnter}, ModeAddress, CmdConfirm, true},
		{"letters are typed in address bar", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, ModeAddress, "", false},
		{"j moves down the menu", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, ModeOverflow, CmdMenuDown, true},
		{"l moves the drag target", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}, ModeDrag, CmdDragRight, true},
		{"unknown mode", tea.KeyMsg{Type: tea.KeyTab}, Mode("nope"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.GetBinding(tt.msg, tt.mode)
			if got != tt.want || ok != tt.ok {
				t.Errorf("GetBinding() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestModifiersString(t *testing.T) {
	tests := []struct {
		mods Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "ctrl+"},
		{ModAlt, "alt+"},
		{ModCtrl | ModShift, "ctrl+shift+"},
	}
	for _, tt := range tests {
		if got := tt.mods.String(); got != tt.want {
			t.Errorf("Modifier(%d).String() = %q, want %q", tt.mods, got, tt.want)
		}
	}
}

func TestKeyBindingString(t *testing.T) {
	tests := []struct {
		binding KeyBinding
		want    string
	}{
		{KeyBinding{KeyType: tea.KeyRunes, Rune: 'x'}, "x"},
		{KeyBinding{KeyType: tea.KeyRunes, Rune: ' '}, "space"},
		{KeyBinding{KeyType: tea.KeyEnter}, "enter"},
		{KeyBinding{KeyType: tea.KeyLeft, Modifiers: ModAlt}, "alt+left"},
	}
	for _, tt := range tests {
		if got := tt.binding.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGetBindingsForCommand(t *testing.T) {
	km := DefaultKeymap()

	bindings := km.GetBindingsForCommand(CmdCloseTab, ModeNormal)
	if len(bindings) != 2 {
		t.Fatalf("GetBindingsForCommand(close_tab) = %d bindings, want 2", len(bindings))
	}
	if got := km.GetBindingsForCommand(CmdJumpToTab, ModeNormal); len(got) != 9 {
		t.Errorf("GetBindingsForCommand(jump_to_tab) = %d bindings, want 9", len(got))
	}
}

func TestGetCategories(t *testing.T) {
	km := DefaultKeymap()

	cats := km.GetCategories(ModeNormal)
	want := []string{"Tabs", "Reorder", "Location", "Page", "Application"}
	if len(cats) != len(want) {
		t.Fatalf("GetCategories() = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("GetCategories()[%d] = %q, want %q", i, cats[i], want[i])
		}
	}
}

func TestHelpBindings(t *testing.T) {
	km := DefaultKeymap()

	help := km.HelpBindings(ModeNormal)
	if len(help) == 0 {
		t.Fatal("HelpBindings() returned nothing")
	}

	first := help[0].Help()
	if first.Key != "tab/l" || first.Desc != "next tab" {
		t.Errorf("first help entry = %+v, want tab/l next tab", first)
	}

	for _, b := range help {
		if b.Help().Desc == "" {
			t.Errorf("help entry %q has no description", b.Help().Key)
		}
	}

	byDesc := make(map[string]string)
	for _, b := range help {
		byDesc[b.Help().Desc] = b.Help().Key
	}
	want := map[string]string{
		"prev tab":  "shift+tab/h",
		"close":     "x/ctrl+w",
		"go to":     "g/ctrl+l",
		"back":      "[/alt+left",
		"prev link": "up/k",
		"quit":      "q/ctrl+c",
	}
	for desc, keys := range want {
		if got := byDesc[desc]; got != keys {
			t.Errorf("help for %q = %q, want %q", desc, got, keys)
		}
	}
	if len(km.HelpBindings(ModeNormal)) != len(help) {
		t.Error("HelpBindings() is not stable across calls")
	}
}

func TestHelpBindingsSkipsUndescribedCommands(t *testing.T) {
	km := DefaultKeymap()

	for _, b := range km.HelpBindings(ModeNormal) {
		if b.Help().Key == "1" {
			t.Errorf("jump keys have no description and should not appear, got %+v", b.Help())
		}
	}

	overflow := km.HelpBindings(ModeOverflow)
	for _, b := range overflow {
		if b.Help().Desc == "dismiss" && b.Help().Key != "esc/o" {
			t.Errorf("dismiss help = %q, want esc/o", b.Help().Key)
		}
	}
}

func TestDefaultKeymapCompleteness(t *testing.T) {
	km := DefaultKeymap()

	for _, mode := range []Mode{ModeNormal, ModeAddress, ModeOverflow, ModeDrag} {
		if len(km.GetModeBindings(mode)) == 0 {
			t.Errorf("mode %q has no bindings", mode)
		}
		for _, cmd := range []Command{CmdCancel} {
			if mode != ModeNormal && len(km.GetBindingsForCommand(cmd, mode)) == 0 {
				t.Errorf("mode %q has no binding for %q", mode, cmd)
			}
		}
	}

	normal := []Command{
		CmdNextTab, CmdPrevTab, CmdJumpToTab, CmdCloseTab, CmdNewTab, CmdMoveLeft,
		CmdMoveRight, CmdStartDrag, CmdOverflowMenu, CmdAddressBar, CmdBack,
		CmdForward, CmdLinkUp, CmdLinkDown, CmdFollowLink, CmdToggleHelp, CmdQuit,
	}
	for _, cmd := range normal {
		if len(km.GetBindingsForCommand(cmd, ModeNormal)) == 0 {
			t.Errorf("normal mode has no binding for %q", cmd)
		}
	}
}
