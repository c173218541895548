// Package view renders the shell's widgets. Each renderer takes a plain
// state struct so it can be tested without a running program.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/classdesk/internal/tabkey"
	"github.com/Iron-Ham/classdesk/internal/tabstrip"
	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

// Hit targets in the tab strip.
const (
	TargetTab      = "tab"
	TargetNewTab   = "new-tab"
	TargetOverflow = "overflow"
	TargetAux      = "aux"
)

// Region is a clickable span of the tab strip, in cells [Start, End).
type Region struct {
	Start, End int
	Target     string
	Key        tabkey.Key // set for TargetTab
}

// Contains reports whether column x falls inside the region.
func (r Region) Contains(x int) bool {
	return x >= r.Start && x < r.End
}

// TabStripState holds everything needed to draw the tab strip.
type TabStripState struct {
	Width             int
	Tabs              []tabstrip.Descriptor // visible tabs, in order
	TabWidth          int
	OverflowCount     int
	PlaceholderActive bool
	AuxVisible        bool
	HelpShown         bool

	Dragged    tabkey.Key
	DropTarget tabkey.Key
	DropAfter  bool

	Layout tabstrip.Layout
}

// glyphs maps tabstrip icon IDs to single-cell glyphs.
var glyphs = map[string]string{
	tabstrip.IconHome:      "⌂",
	tabstrip.IconClassroom: "▣",
	tabstrip.IconStudents:  "☷",
	tabstrip.IconStudent:   "☺",
	tabstrip.IconGrades:    "▤",
	tabstrip.IconInbox:     "✉",
	tabstrip.IconTimetable: "▦",
	tabstrip.IconNewTab:    "+",
	tabstrip.IconUnknown:   "•",
}

// Glyph returns the glyph for an icon ID.
func Glyph(iconID string) string {
	if g, ok := glyphs[iconID]; ok {
		return g
	}
	return glyphs[tabstrip.IconUnknown]
}

// RenderTabStrip draws the strip as a single line and returns the clickable
// regions. Every tab occupies exactly TabWidth cells followed by one gap, so
// the rendered width matches the capacity computed by tabstrip.
func RenderTabStrip(s *styles.ThemedStyles, st TabStripState) (string, []Region) {
	var b strings.Builder
	var regions []Region
	x := 0
	gap := strings.Repeat(" ", max(0, st.Layout.Gap))

	for _, d := range st.Tabs {
		style := s.TabInactive
		switch {
		case d.Key == st.Dragged:
			style = s.TabDragged
		case d.Active:
			style = s.TabActive
		}

		cell := renderTab(s, style, d, st.TabWidth, dropMarker(st, d.Key))
		b.WriteString(cell)
		regions = append(regions, Region{Start: x, End: x + st.TabWidth, Target: TargetTab, Key: d.Key})
		x += st.TabWidth

		b.WriteString(gap)
		x += len(gap)
	}

	if st.PlaceholderActive {
		d := tabstrip.Descriptor{Key: tabkey.NewTab, Label: tabkey.FallbackTitle(tabkey.NewTab), IconID: tabstrip.IconNewTab, Active: true}
		b.WriteString(renderTab(s, s.NewTabActive, d, st.TabWidth, 0))
		regions = append(regions, Region{Start: x, End: x + st.TabWidth, Target: TargetNewTab})
		x += st.TabWidth
	} else if st.Layout.NewTabWidth > 0 {
		b.WriteString(fit(s.NewTab, "+", st.Layout.NewTabWidth))
		regions = append(regions, Region{Start: x, End: x + st.Layout.NewTabWidth, Target: TargetNewTab})
		x += st.Layout.NewTabWidth
	}

	if st.OverflowCount > 0 && st.Layout.OverflowWidth > 0 {
		b.WriteString(fit(s.OverflowButton, fmt.Sprintf("+%d ▾", st.OverflowCount), st.Layout.OverflowWidth))
		regions = append(regions, Region{Start: x, End: x + st.Layout.OverflowWidth, Target: TargetOverflow})
		x += st.Layout.OverflowWidth
	}

	if st.AuxVisible && st.Layout.AuxWidth > 0 {
		if pad := st.Width - st.Layout.AuxWidth - x; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
			x += pad
		}
		label := "?"
		if st.HelpShown {
			label = "✕"
		}
		b.WriteString(fit(s.AuxButton, label, st.Layout.AuxWidth))
		regions = append(regions, Region{Start: x, End: x + st.Layout.AuxWidth, Target: TargetAux})
	}

	return b.String(), regions
}

// HitTest returns the region under column x.
func HitTest(regions []Region, x int) (Region, bool) {
	for _, r := range regions {
		if r.Contains(x) {
			return r, true
		}
	}
	return Region{}, false
}

// dropMarker returns the marker rune for key: '▏' before, '▕' after, or 0.
func dropMarker(st TabStripState, key tabkey.Key) rune {
	if st.DropTarget == "" || key != st.DropTarget {
		return 0
	}
	if st.DropAfter {
		return '▕'
	}
	return '▏'
}

// renderTab draws one tab in exactly width cells: a one-cell edge on each
// side and the glyph plus label, truncated with an ellipsis.
func renderTab(s *styles.ThemedStyles, style lipgloss.Style, d tabstrip.Descriptor, width int, marker rune) string {
	if width <= 0 {
		return ""
	}
	if width < 3 {
		return style.Render(strings.Repeat(" ", width))
	}

	left, right := style.Render(" "), style.Render(" ")
	switch marker {
	case '▏':
		left = s.DropIndicator.Inherit(style).Render(string(marker))
	case '▕':
		right = s.DropIndicator.Inherit(style).Render(string(marker))
	}

	inner := width - 2
	text := ansi.Truncate(Glyph(d.IconID)+" "+d.Label, inner, "…")
	return left + style.Width(inner).Render(text) + right
}

// fit centers text in a control exactly width cells wide.
func fit(style lipgloss.Style, text string, width int) string {
	text = ansi.Truncate(text, width, "")
	return style.Width(width).Align(lipgloss.Center).Render(text)
}
