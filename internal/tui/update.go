package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/classdesk/internal/tui/keymap"
	"github.com/Iron-Ham/classdesk/internal/tui/msg"
	"github.com/Iron-Ham/classdesk/internal/tui/view"
	"github.com/Iron-Ham/classdesk/internal/workspace"
)

// Update handles messages and updates the model
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
		m.help.Width = message.Width
		m.address.Width = max(10, message.Width-8)
		return m, nil

	case msg.ConfigReloadedMsg:
		if message.Config != nil {
			m.applyConfig(message.Config)
		}
		return m, nil

	case msg.ErrMsg:
		if message.Err != nil {
			m.errMsg = message.Err.Error()
			m.logger.Warn("error reported to shell", "error", m.errMsg)
		}
		return m, nil

	case msg.NavigateMsg:
		m.goToPath(message.Path)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(message)

	case tea.MouseMsg:
		m.handleMouse(message)
		return m, nil
	}

	if m.mode == keymap.ModeAddress {
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(message)
		return m, cmd
	}
	return m, nil
}

// handleKey dispatches a key press according to the current mode.
func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""

	cmd, ok := m.keymap.GetBinding(k, m.mode)
	if !ok {
		if m.mode == keymap.ModeAddress {
			var tcmd tea.Cmd
			m.address, tcmd = m.address.Update(k)
			return m, tcmd
		}
		return m, nil
	}

	switch m.mode {
	case keymap.ModeAddress:
		return m.handleAddressCommand(cmd)
	case keymap.ModeOverflow:
		m.handleOverflowCommand(cmd)
		return m, nil
	case keymap.ModeDrag:
		m.handleDragCommand(cmd)
		return m, nil
	}
	return m.handleNormalCommand(cmd, k)
}

func (m Model) handleNormalCommand(cmd keymap.Command, k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdNextTab:
		m.nav.Next()
	case keymap.CmdPrevTab:
		m.nav.Prev()
	case keymap.CmdJumpToTab:
		if runes := k.Runes; len(runes) == 1 {
			m.nav.JumpTo(int(runes[0] - '1'))
		}
	case keymap.CmdNewTab:
		m.nav.ShowPlaceholder()
	case keymap.CmdCloseTab:
		m.closeCurrent()
	case keymap.CmdMoveLeft:
		m.moveActive(-1)
	case keymap.CmdMoveRight:
		m.moveActive(1)
	case keymap.CmdStartDrag:
		if active := m.reg.Active(); active != "" {
			m.drag.OnDragStart(active)
			m.dragTarget = active
			m.mode = keymap.ModeDrag
		}
	case keymap.CmdOverflowMenu:
		if len(m.Split().Overflow) > 0 {
			m.menuIndex = 0
			m.mode = keymap.ModeOverflow
		}
	case keymap.CmdAddressBar:
		m.address.SetValue(m.history.Path())
		m.address.CursorEnd()
		m.mode = keymap.ModeAddress
		focus := m.address.Focus()
		return m, focus
	case keymap.CmdBack:
		m.history.Back()
	case keymap.CmdForward:
		m.history.Forward()
	case keymap.CmdLinkUp:
		m.stepLink(-1)
	case keymap.CmdLinkDown:
		m.stepLink(1)
	case keymap.CmdFollowLink:
		m.followLink()
	case keymap.CmdToggleHelp:
		m.showHelp = !m.showHelp
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleAddressCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdConfirm:
		path := strings.TrimSpace(m.address.Value())
		m.exitAddress()
		if path != "" {
			m.goToPath(path)
		}
	case keymap.CmdCancel:
		m.exitAddress()
	}
	return m, nil
}

func (m *Model) exitAddress() {
	m.address.Blur()
	m.address.Reset()
	m.mode = keymap.ModeNormal
}

func (m *Model) handleOverflowCommand(cmd keymap.Command) {
	items := m.Split().Overflow
	if len(items) == 0 {
		m.mode = keymap.ModeNormal
		return
	}
	m.menuIndex = clamp(m.menuIndex, 0, len(items)-1)

	switch cmd {
	case keymap.CmdMenuUp:
		m.menuIndex = clamp(m.menuIndex-1, 0, len(items)-1)
	case keymap.CmdMenuDown:
		m.menuIndex = clamp(m.menuIndex+1, 0, len(items)-1)
	case keymap.CmdConfirm:
		m.nav.NavigateTo(items[m.menuIndex], workspace.NavigateOptions{})
		m.mode = keymap.ModeNormal
	case keymap.CmdMenuClose:
		m.nav.CloseTab(items[m.menuIndex])
		if remaining := len(m.Split().Overflow); remaining == 0 {
			m.mode = keymap.ModeNormal
		} else {
			m.menuIndex = clamp(m.menuIndex, 0, remaining-1)
		}
	case keymap.CmdCancel:
		m.mode = keymap.ModeNormal
	}
}

func (m *Model) handleDragCommand(cmd keymap.Command) {
	if _, ok := m.drag.Dragging(); !ok {
		m.mode = keymap.ModeNormal
		return
	}

	switch cmd {
	case keymap.CmdDragLeft:
		m.stepDragTarget(-1)
	case keymap.CmdDragRight:
		m.stepDragTarget(1)
	case keymap.CmdConfirm:
		if m.drag.OnDrop(m.dragTarget) {
			m.logger.Debug("tab moved", "tab", string(m.reg.Active()), "index", m.reg.Index(m.reg.Active()))
		}
		m.dragTarget = ""
		m.mode = keymap.ModeNormal
	case keymap.CmdCancel:
		m.drag.OnDragEnd()
		m.dragTarget = ""
		m.mode = keymap.ModeNormal
	}
}

func (m *Model) stepDragTarget(delta int) {
	order := m.reg.Order()
	idx := m.reg.Index(m.dragTarget)
	if idx < 0 {
		return
	}
	m.dragTarget = order[clamp(idx+delta, 0, len(order)-1)]
	m.drag.OnDragOver(m.dragTarget)
}

// moveActive swaps the active tab with its neighbour through the drag
// controller, the same path a mouse drop takes.
func (m *Model) moveActive(delta int) {
	active := m.reg.Active()
	idx := m.reg.Index(active)
	next := idx + delta
	if idx < 0 || next < 0 || next >= m.reg.Len() {
		return
	}
	m.drag.OnDragStart(active)
	m.drag.OnDrop(m.reg.Order()[next])
}

// closeCurrent closes the active tab. With the placeholder showing it
// returns to the last tab instead.
func (m *Model) closeCurrent() {
	if active := m.reg.Active(); active != "" {
		m.nav.CloseTab(active)
		return
	}
	if order := m.reg.Order(); len(order) > 0 {
		m.nav.NavigateTo(order[len(order)-1], workspace.NavigateOptions{})
	}
}

// goToPath navigates as if path had been typed into the address bar.
func (m *Model) goToPath(path string) {
	if m.history.Path() == workspacePath(path) {
		m.sync.OnPath(path)
		return
	}
	m.history.Push(path)
}

// workspacePath normalizes a typed path the way the history stores it.
func workspacePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}

// selectedLink returns the selection index for page, resetting it when the
// current page changed since the selection was made.
func (m Model) selectedLink(page Page) int {
	if len(page.Links) == 0 || m.linkKey != m.reg.Current() {
		return 0
	}
	return clamp(m.linkIndex, 0, len(page.Links)-1)
}

func (m *Model) stepLink(delta int) {
	page := m.page()
	if len(page.Links) == 0 {
		return
	}
	m.linkIndex = clamp(m.selectedLink(page)+delta, 0, len(page.Links)-1)
	m.linkKey = m.reg.Current()
}

func (m *Model) followLink() {
	page := m.page()
	if len(page.Links) == 0 {
		return
	}
	link := page.Links[m.selectedLink(page)]
	m.nav.NavigateTo(link.Key, workspace.NavigateOptions{
		ReplaceParent: link.ReplaceParent,
		Label:         link.Label,
	})
}

// handleMouse maps clicks and drags on the tab strip (row 0).
func (m *Model) handleMouse(e tea.MouseMsg) {
	dragged, dragging := m.drag.Dragging()
	if e.Y != 0 {
		if e.Action == tea.MouseActionRelease && dragging {
			m.drag.OnDragEnd()
		}
		m.mouseDown = ""
		return
	}

	region, hit := view.HitTest(m.stripRegions(), e.X)

	switch e.Action {
	case tea.MouseActionPress:
		if !hit {
			return
		}
		switch e.Button {
		case tea.MouseButtonLeft:
			m.mouseDown = ""
			if region.Target == view.TargetTab {
				m.mouseDown = region.Key
				m.drag.OnDragStart(region.Key)
			}
		case tea.MouseButtonMiddle:
			if region.Target == view.TargetTab {
				m.nav.CloseTab(region.Key)
			}
		}

	case tea.MouseActionMotion:
		if dragging && hit && region.Target == view.TargetTab {
			m.drag.OnDragOver(region.Key)
		}

	case tea.MouseActionRelease:
		pressed := m.mouseDown
		m.mouseDown = ""
		switch {
		case dragging && hit && region.Target == view.TargetTab && region.Key != dragged:
			m.drag.OnDrop(region.Key)
		case dragging:
			m.drag.OnDragEnd()
			if hit && region.Target == view.TargetTab && region.Key == pressed {
				m.nav.NavigateTo(region.Key, workspace.NavigateOptions{})
			}
		case hit:
			m.clickControl(region)
		}
	}
}

// clickControl activates a non-tab control of the strip.
func (m *Model) clickControl(region view.Region) {
	switch region.Target {
	case view.TargetNewTab:
		m.nav.ShowPlaceholder()
	case view.TargetOverflow:
		if m.mode == keymap.ModeOverflow {
			m.mode = keymap.ModeNormal
			return
		}
		m.menuIndex = 0
		m.mode = keymap.ModeOverflow
	case view.TargetAux:
		m.showHelp = !m.showHelp
	}
}

func (m Model) stripRegions() []view.Region {
	_, regions := view.RenderTabStrip(m.styles, m.stripState())
	return regions
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
