package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the default keymap configuration.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:        "default",
		Description: "Default classdesk key bindings",
		Modes: map[Mode]*ModeBindings{
			ModeNormal:   defaultNormalBindings(),
			ModeAddress:  defaultAddressBindings(),
			ModeOverflow: defaultOverflowBindings(),
			ModeDrag:     defaultDragBindings(),
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	bindings := []KeyBinding{
		// Tab navigation
		{KeyType: tea.KeyTab, Command: CmdNextTab, Description: "next tab", Category: "Tabs"},
		{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdNextTab, Category: "Tabs"},
		{KeyType: tea.KeyShiftTab, Command: CmdPrevTab, Description: "prev tab", Category: "Tabs"},
		{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdPrevTab, Category: "Tabs"},
	}
	for r := '1'; r <= '9'; r++ {
		bindings = append(bindings, KeyBinding{KeyType: tea.KeyRunes, Rune: r, Command: CmdJumpToTab, Category: "Tabs"})
	}
	bindings = append(bindings,
		KeyBinding{KeyType: tea.KeyRunes, Rune: 't', Command: CmdNewTab, Description: "new tab", Category: "Tabs"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'x', Command: CmdCloseTab, Description: "close", Category: "Tabs"},
		KeyBinding{KeyType: tea.KeyCtrlW, Command: CmdCloseTab, Category: "Tabs"},

		// Reordering
		KeyBinding{KeyType: tea.KeyRunes, Rune: '<', Command: CmdMoveLeft, Description: "move left", Category: "Reorder"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: '>', Command: CmdMoveRight, Description: "move right", Category: "Reorder"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'm', Command: CmdStartDrag, Description: "drag", Category: "Reorder"},

		// Menus and location
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'o', Command: CmdOverflowMenu, Description: "more tabs", Category: "Location"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'g', Command: CmdAddressBar, Description: "go to", Category: "Location"},
		KeyBinding{KeyType: tea.KeyCtrlL, Command: CmdAddressBar, Category: "Location"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: '[', Command: CmdBack, Description: "back", Category: "Location"},
		KeyBinding{KeyType: tea.KeyLeft, Modifiers: ModAlt, Command: CmdBack, Category: "Location"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: ']', Command: CmdForward, Description: "forward", Category: "Location"},
		KeyBinding{KeyType: tea.KeyRight, Modifiers: ModAlt, Command: CmdForward, Category: "Location"},

		// Page links
		KeyBinding{KeyType: tea.KeyUp, Command: CmdLinkUp, Description: "prev link", Category: "Page"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdLinkUp, Category: "Page"},
		KeyBinding{KeyType: tea.KeyDown, Command: CmdLinkDown, Description: "next link", Category: "Page"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdLinkDown, Category: "Page"},
		KeyBinding{KeyType: tea.KeyEnter, Command: CmdFollowLink, Description: "open link", Category: "Page"},

		// Application
		KeyBinding{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "help", Category: "Application"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "quit", Category: "Application"},
		KeyBinding{KeyType: tea.KeyCtrlC, Command: CmdQuit, Category: "Application"},
	)
	return &ModeBindings{Mode: ModeNormal, Bindings: bindings}
}

func defaultAddressBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeAddress,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "go", Category: "Address"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "cancel", Category: "Address"},
			{KeyType: tea.KeyCtrlC, Command: CmdCancel, Category: "Address"},
		},
	}
}

func defaultOverflowBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeOverflow,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyUp, Command: CmdMenuUp, Description: "up", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdMenuUp, Category: "Menu"},
			{KeyType: tea.KeyDown, Command: CmdMenuDown, Description: "down", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdMenuDown, Category: "Menu"},
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "open", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: 'x', Command: CmdMenuClose, Description: "close tab", Category: "Menu"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "dismiss", Category: "Menu"},
			{KeyType: tea.KeyRunes, Rune: 'o', Command: CmdCancel, Category: "Menu"},
		},
	}
}

func defaultDragBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeDrag,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyLeft, Command: CmdDragLeft, Description: "target left", Category: "Drag"},
			{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdDragLeft, Category: "Drag"},
			{KeyType: tea.KeyRight, Command: CmdDragRight, Description: "target right", Category: "Drag"},
			{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdDragRight, Category: "Drag"},
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "drop", Category: "Drag"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "cancel", Category: "Drag"},
		},
	}
}
