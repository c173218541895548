// Package keymap provides key binding definitions and lookup for the shell.
// Bindings are declared per input mode and resolved to named commands, so
// the Update loop dispatches on commands rather than raw keys.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the shell.
// Different modes have different key bindings active.
type Mode string

const (
	ModeNormal   Mode = "normal"   // Tab strip has focus
	ModeAddress  Mode = "address"  // Typing a path into the address bar
	ModeOverflow Mode = "overflow" // Overflow menu is open
	ModeDrag     Mode = "drag"     // Moving a tab with the keyboard
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Normal mode commands
const (
	CmdNextTab      Command = "next_tab"
	CmdPrevTab      Command = "prev_tab"
	CmdJumpToTab    Command = "jump_to_tab" // 1-9 keys
	CmdCloseTab     Command = "close_tab"
	CmdNewTab       Command = "new_tab"
	CmdMoveLeft     Command = "move_left"
	CmdMoveRight    Command = "move_right"
	CmdStartDrag    Command = "start_drag"
	CmdOverflowMenu Command = "overflow_menu"
	CmdAddressBar   Command = "address_bar"
	CmdBack         Command = "back"
	CmdForward      Command = "forward"
	CmdLinkUp       Command = "link_up"
	CmdLinkDown     Command = "link_down"
	CmdFollowLink   Command = "follow_link"
	CmdToggleHelp   Command = "toggle_help"
	CmdQuit         Command = "quit"
)

// Shared by the address, overflow and drag modes
const (
	CmdConfirm Command = "confirm"
	CmdCancel  Command = "cancel"
)

// Overflow menu commands
const (
	CmdMenuUp    Command = "menu_up"
	CmdMenuDown  Command = "menu_down"
	CmdMenuClose Command = "menu_close_tab"
)

// Drag mode commands
const (
	CmdDragLeft  Command = "drag_left"
	CmdDragRight Command = "drag_right"
)

// Modifier represents keyboard modifiers (Ctrl, Alt, Shift).
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModCtrl  Modifier = 1 << iota
	ModAlt
	ModShift
)

// String returns a human-readable representation of modifiers.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var s string
	if m&ModCtrl != 0 {
		s += "ctrl+"
	}
	if m&ModAlt != 0 {
		s += "alt+"
	}
	if m&ModShift != 0 {
		s += "shift+"
	}
	return s
}

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the primary key for this binding.
	// For special keys, use tea.KeyType constants (e.g., tea.KeyEnter).
	// For rune keys, use tea.KeyRunes and set Rune field.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys (when KeyType is tea.KeyRunes).
	Rune rune

	// Modifiers contains the modifier keys that must be pressed.
	Modifiers Modifier

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	// Bindings without one are left out of the help line.
	Description string

	// Category groups related bindings together in help display.
	Category string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}

	// If Rune is 0, this is a catch-all binding for any rune
	if kb.Rune == 0 {
		return true
	}

	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()

	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}

	switch kb.Rune {
	case ' ':
		return prefix + "space"
	default:
		return prefix + string(kb.Rune)
	}
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
// Returns the command and true if found, or empty command and false if not.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	// Name identifies this keymap (e.g., "default").
	Name string

	// Description provides a human-readable description.
	Description string

	// Modes maps each mode to its bindings.
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
// Returns the command and true if found, or empty command and false if not.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// GetModeBindings returns all bindings for a specific mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// GetBindingsForCommand returns all bindings that trigger a specific command.
func (km *Keymap) GetBindingsForCommand(cmd Command, mode Mode) []KeyBinding {
	var result []KeyBinding
	for _, binding := range km.GetModeBindings(mode) {
		if binding.Command == cmd {
			result = append(result, binding)
		}
	}
	return result
}

// GetCategories returns all unique categories in a mode's bindings.
func (km *Keymap) GetCategories(mode Mode) []string {
	seen := make(map[string]bool)
	var categories []string

	for _, binding := range km.GetModeBindings(mode) {
		if binding.Category != "" && !seen[binding.Category] {
			seen[binding.Category] = true
			categories = append(categories, binding.Category)
		}
	}
	return categories
}

// HelpBindings converts a mode's described bindings into bubbles key
// bindings for the help line. Keys bound to the same command are merged
// into one entry, in declaration order. A binding without a description
// only contributes its key to a command that already has one.
func (km *Keymap) HelpBindings(mode Mode) []key.Binding {
	var order []Command
	keys := make(map[Command][]string)
	desc := make(map[Command]string)

	for _, b := range km.GetModeBindings(mode) {
		_, seen := keys[b.Command]
		if b.Description == "" && !seen {
			continue
		}
		if !seen {
			order = append(order, b.Command)
			desc[b.Command] = b.Description
		}
		keys[b.Command] = append(keys[b.Command], b.String())
	}

	out := make([]key.Binding, 0, len(order))
	for _, cmd := range order {
		ks := keys[cmd]
		out = append(out, key.NewBinding(
			key.WithKeys(ks...),
			key.WithHelp(strings.Join(ks, "/"), desc[cmd]),
		))
	}
	return out
}
