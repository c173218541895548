package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/classdesk/internal/tabkey"
	"github.com/Iron-Ham/classdesk/internal/tabstrip"
	"github.com/Iron-Ham/classdesk/internal/tui/styles"
)

func testStyles() *styles.ThemedStyles {
	return styles.NewThemedStyles(styles.DefaultPalette())
}

func stripState(width int, order []tabkey.Key, active tabkey.Key, placeholder bool) TabStripState {
	layout := tabstrip.DefaultLayout()
	split := tabstrip.Compute(order, active, tabstrip.Params{Width: width, PlaceholderActive: placeholder}, layout)
	return TabStripState{
		Width:             width,
		Tabs:              tabstrip.Descriptors(split.Visible, active, nil),
		TabWidth:          split.TabWidth,
		OverflowCount:     len(split.Overflow),
		PlaceholderActive: placeholder,
		Layout:            layout,
	}
}

func TestRenderTabStrip_Regions(t *testing.T) {
	order := []tabkey.Key{tabkey.Home, tabkey.Inbox, tabkey.Timetable}
	st := stripState(120, order, tabkey.Home, false)

	out, regions := RenderTabStrip(testStyles(), st)

	want := []Region{
		{Start: 0, End: 24, Target: TargetTab, Key: tabkey.Home},
		{Start: 25, End: 49, Target: TargetTab, Key: tabkey.Inbox},
		{Start: 50, End: 74, Target: TargetTab, Key: tabkey.Timetable},
		{Start: 75, End: 80, Target: TargetNewTab},
	}
	if len(regions) != len(want) {
		t.Fatalf("regions = %+v, want %+v", regions, want)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Errorf("regions[%d] = %+v, want %+v", i, regions[i], want[i])
		}
	}
	if w := lipgloss.Width(out); w != 80 {
		t.Errorf("rendered width = %d, want 80", w)
	}
	if strings.Contains(out, "\n") {
		t.Error("tab strip should render on a single line")
	}
}

func TestRenderTabStrip_FitsWidth(t *testing.T) {
	order := tabkey.StaticKeys()
	for _, width := range []int{30, 50, 70, 90, 120, 160} {
		for _, placeholder := range []bool{false, true} {
			st := stripState(width, order, tabkey.Profile, placeholder)
			out, _ := RenderTabStrip(testStyles(), st)
			if len(st.Tabs) > 1 && lipgloss.Width(out) > width {
				t.Errorf("width %d placeholder=%v: rendered %d cells", width, placeholder, lipgloss.Width(out))
			}
			if got := st.Tabs[len(st.Tabs)-1].Key; got != tabkey.Profile {
				t.Errorf("width %d: last visible tab = %q, want the active tab", width, got)
			}
		}
	}
}

func TestRenderTabStrip_OverflowAndPlaceholder(t *testing.T) {
	st := stripState(70, tabkey.StaticKeys(), tabkey.Home, true)
	if st.OverflowCount == 0 {
		t.Fatal("expected overflow at width 70")
	}

	out, regions := RenderTabStrip(testStyles(), st)

	var targets []string
	for _, r := range regions {
		targets = append(targets, r.Target)
	}
	last := targets[len(targets)-2:]
	if last[0] != TargetNewTab || last[1] != TargetOverflow {
		t.Errorf("trailing controls = %v, want new-tab then overflow", last)
	}
	if !strings.Contains(out, "New Tab") {
		t.Error("active placeholder should render as a tab")
	}
	if !strings.Contains(out, "+5 ▾") {
		t.Error("overflow button should count the five hidden tabs")
	}
}

func TestRenderTabStrip_AuxAtRightEdge(t *testing.T) {
	st := stripState(100, []tabkey.Key{tabkey.Home}, tabkey.Home, false)
	st.AuxVisible = true

	out, regions := RenderTabStrip(testStyles(), st)

	aux := regions[len(regions)-1]
	if aux.Target != TargetAux || aux.End != 100 {
		t.Errorf("aux region = %+v, want ending at 100", aux)
	}
	if lipgloss.Width(out) != 100 {
		t.Errorf("rendered width = %d, want 100", lipgloss.Width(out))
	}
}

func TestRenderTabStrip_TruncatesLongLabels(t *testing.T) {
	st := stripState(120, []tabkey.Key{"student-ada-lovelace"}, "student-ada-lovelace", false)
	st.Tabs[0].Label = "Augusta Ada King, Countess of Lovelace"

	out, _ := RenderTabStrip(testStyles(), st)

	if !strings.Contains(out, "…") {
		t.Error("long label should be truncated with an ellipsis")
	}
	if lipgloss.Width(out) != st.TabWidth+st.Layout.Gap+st.Layout.NewTabWidth {
		t.Errorf("rendered width = %d", lipgloss.Width(out))
	}
}

func TestRenderTabStrip_DropMarker(t *testing.T) {
	order := []tabkey.Key{tabkey.Home, tabkey.Inbox, tabkey.Timetable}

	tests := []struct {
		name  string
		after bool
		want  string
	}{
		{"before", false, "▏"},
		{"after", true, "▕"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := stripState(120, order, tabkey.Home, false)
			st.Dragged = tabkey.Home
			st.DropTarget = tabkey.Inbox
			st.DropAfter = tt.after

			out, _ := RenderTabStrip(testStyles(), st)
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected drop marker %q", tt.want)
			}
			if lipgloss.Width(out) != 80 {
				t.Errorf("drop marker changed strip width to %d", lipgloss.Width(out))
			}
		})
	}
}

func TestHitTest(t *testing.T) {
	regions := []Region{
		{Start: 0, End: 10, Target: TargetTab, Key: tabkey.Home},
		{Start: 11, End: 16, Target: TargetNewTab},
	}

	tests := []struct {
		x      int
		want   string
		wantOK bool
	}{
		{0, TargetTab, true},
		{9, TargetTab, true},
		{10, "", false},
		{11, TargetNewTab, true},
		{16, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		r, ok := HitTest(regions, tt.x)
		if ok != tt.wantOK || r.Target != tt.want {
			t.Errorf("HitTest(%d) = %q, %v; want %q, %v", tt.x, r.Target, ok, tt.want, tt.wantOK)
		}
	}
}

func TestGlyph(t *testing.T) {
	if Glyph(tabstrip.IconHome) != "⌂" {
		t.Errorf("Glyph(home) = %q", Glyph(tabstrip.IconHome))
	}
	if Glyph("no-such-icon") != Glyph(tabstrip.IconUnknown) {
		t.Error("unknown icons should use the fallback glyph")
	}
}

func TestRenderOverflowMenu(t *testing.T) {
	if RenderOverflowMenu(testStyles(), OverflowMenuState{}) != "" {
		t.Error("empty menu should render nothing")
	}

	items := tabstrip.Descriptors([]tabkey.Key{tabkey.Inbox, tabkey.Timetable}, "", nil)
	out := RenderOverflowMenu(testStyles(), OverflowMenuState{Items: items, Selected: 1})
	for _, want := range []string{"Inbox", "Timetable"} {
		if !strings.Contains(out, want) {
			t.Errorf("menu missing %q", want)
		}
	}
}

func TestRenderAddressBar(t *testing.T) {
	s := testStyles()

	out := RenderAddressBar(s, AddressBarState{Path: "/classroom/5a"})
	if !strings.Contains(out, "/classroom/5a") {
		t.Errorf("address bar = %q, want the path", out)
	}

	out = RenderAddressBar(s, AddressBarState{Path: "/ignored", Editing: true, InputView: "typing"})
	if !strings.Contains(out, "typing") || strings.Contains(out, "/ignored") {
		t.Errorf("editing address bar = %q, want only the input", out)
	}
}

func TestRenderContent(t *testing.T) {
	out := RenderContent(testStyles(), ContentState{
		Title:       "Class 5A",
		Description: "3 students.",
		Links:       []string{"Roster", "Grades"},
		Selected:    1,
		Width:       60,
		Height:      10,
	})

	for _, want := range []string{"Class 5A", "3 students.", "Roster", "▸ Grades"} {
		if !strings.Contains(out, want) {
			t.Errorf("content missing %q", want)
		}
	}
	if w := lipgloss.Width(out); w != 60 {
		t.Errorf("content width = %d, want 60", w)
	}
	if h := lipgloss.Height(out); h != 10 {
		t.Errorf("content height = %d, want 10", h)
	}
}
