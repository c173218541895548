package view

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/classdesk/internal/tabstrip"
	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

// menuItemWidth caps the label width of overflow menu entries.
const menuItemWidth = 32

// OverflowMenuState holds the overflow menu's items and selection.
type OverflowMenuState struct {
	Items    []tabstrip.Descriptor
	Selected int
}

// RenderOverflowMenu draws the overflow menu as a bordered list, one tab
// per line, in tab order.
func RenderOverflowMenu(s *styles.ThemedStyles, st OverflowMenuState) string {
	if len(st.Items) == 0 {
		return ""
	}

	lines := make([]string, len(st.Items))
	for i, d := range st.Items {
		text := ansi.Truncate(Glyph(d.IconID)+" "+d.Label, menuItemWidth, "…")
		style := s.MenuItem
		if i == st.Selected {
			style = s.MenuItemSelected
		}
		lines[i] = style.Width(menuItemWidth).Render(text)
	}
	return s.MenuContainer.Render(strings.Join(lines, "\n"))
}
