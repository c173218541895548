package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/classdesk/internal/tabstrip"
	"github.com/Iron-Ham/classdesk/internal/tui/keymap"
	"github.com/Iron-Ham/classdesk/internal/tui/view"
	"github.com/Iron-Ham/classdesk/internal/workspace"
)

// View renders the shell: tab strip, overflow menu when open, address bar,
// page content, error line and help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	strip, _ := view.RenderTabStrip(m.styles, m.stripState())
	top := []string{strip}
	if m.mode == keymap.ModeOverflow {
		top = append(top, view.RenderOverflowMenu(m.styles, m.overflowState()))
	}
	top = append(top, view.RenderAddressBar(m.styles, view.AddressBarState{
		Path:       m.history.Path(),
		Editing:    m.mode == keymap.ModeAddress,
		InputView:  m.address.View(),
		CanBack:    m.history.CanGoBack(),
		CanForward: m.history.CanGoForward(),
	}))

	var bottom []string
	if m.errMsg != "" {
		bottom = append(bottom, m.styles.Error.Render(m.errMsg))
	}
	if m.showHelp {
		bottom = append(bottom, view.RenderHelpBar(m.help, m.keymap.HelpBindings(m.mode)))
	}

	header := lipgloss.JoinVertical(lipgloss.Left, top...)
	footer := strings.Join(bottom, "\n")
	height := m.height - lipgloss.Height(header)
	if footer != "" {
		height -= lipgloss.Height(footer)
	}

	page := m.page()
	links := make([]string, len(page.Links))
	for i, l := range page.Links {
		links[i] = l.Label
	}
	content := view.RenderContent(m.styles, view.ContentState{
		Title:       page.Title,
		Description: page.Description,
		Links:       links,
		Selected:    m.selectedLink(page),
		Width:       m.width,
		Height:      max(3, height),
	})

	parts := []string{header, content}
	if footer != "" {
		parts = append(parts, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// stripState collects what the tab strip renderer needs.
func (m Model) stripState() view.TabStripState {
	split := m.Split()
	st := view.TabStripState{
		Width:             m.width,
		Tabs:              tabstrip.Descriptors(split.Visible, m.reg.Active(), m.reg.Title),
		TabWidth:          split.TabWidth,
		OverflowCount:     len(split.Overflow),
		PlaceholderActive: m.reg.PlaceholderActive(),
		AuxVisible:        m.showAux,
		HelpShown:         m.showHelp,
		Layout:            m.layout,
	}
	if dragged, ok := m.drag.Dragging(); ok {
		st.Dragged = dragged
	}
	if target, side, ok := m.drag.Indicator(); ok {
		st.DropTarget = target
		st.DropAfter = side == workspace.DropAfter
	}
	return st
}

func (m Model) overflowState() view.OverflowMenuState {
	items := m.Split().Overflow
	return view.OverflowMenuState{
		Items:    tabstrip.Descriptors(items, m.reg.Active(), m.reg.Title),
		Selected: clamp(m.menuIndex, 0, max(0, len(items)-1)),
	}
}
