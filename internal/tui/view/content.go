package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

// ContentState holds the page being shown in the content area.
type ContentState struct {
	Title       string
	Description string
	Links       []string
	Selected    int
	Width       int
	Height      int
}

// RenderContent draws the page title, its description and its numbered
// links inside the content box.
func RenderContent(s *styles.ThemedStyles, st ContentState) string {
	var b strings.Builder
	b.WriteString(s.ContentTitle.Render(st.Title))
	b.WriteString("\n")
	if st.Description != "" {
		b.WriteString(st.Description)
		b.WriteString("\n")
	}

	if len(st.Links) > 0 {
		b.WriteString("\n")
		for i, link := range st.Links {
			line := fmt.Sprintf("  %s", link)
			if i == st.Selected {
				line = s.Primary.Bold(true).Render("▸ " + link)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	box := s.ContentBox
	if st.Width > 0 {
		box = box.Width(max(0, st.Width-box.GetHorizontalBorderSize()))
	}
	if st.Height > 0 {
		box = box.Height(max(0, st.Height-box.GetVerticalBorderSize()))
	}
	return box.Render(strings.TrimRight(b.String(), "\n"))
}
