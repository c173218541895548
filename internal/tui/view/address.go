package view

import (
	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

// AddressBarState holds what the address bar shows.
type AddressBarState struct {
	Path       string
	Editing    bool
	InputView  string // rendered text input, used while editing
	CanBack    bool
	CanForward bool
}

// RenderAddressBar draws the back/forward arrows and the current path, or
// the text input while the user is typing a path.
func RenderAddressBar(s *styles.ThemedStyles, st AddressBarState) string {
	back, forward := s.Muted.Render("‹"), s.Muted.Render("›")
	if st.CanBack {
		back = s.Primary.Render("‹")
	}
	if st.CanForward {
		forward = s.Primary.Render("›")
	}

	prefix := back + " " + forward + " "
	if st.Editing {
		return s.AddressBar.Render(prefix + st.InputView)
	}
	return s.AddressBar.Render(prefix + s.AddressPrompt.Render("›") + " " + s.AddressPath.Render(st.Path))
}
