package view

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

// NewHelp returns a help model styled with the theme.
func NewHelp(s *styles.ThemedStyles) help.Model {
	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.HelpBar
	h.Styles.ShortSeparator = s.Muted
	h.Styles.Ellipsis = s.Muted
	return h
}

// RenderHelpBar draws the key bindings of the current mode on one line.
func RenderHelpBar(h help.Model, bindings []key.Binding) string {
	return h.ShortHelpView(bindings)
}
