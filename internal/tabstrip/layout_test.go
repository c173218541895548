package tabstrip

import (
	"slices"
	"testing"

	"github.com/Iron-Ham/classdesk/internal/tabkey"
)

func keys(ss ...string) []tabkey.Key {
	out := make([]tabkey.Key, len(ss))
	for i, s := range ss {
		out[i] = tabkey.Key(s)
	}
	return out
}

func TestLayout_TabWidth(t *testing.T) {
	l := DefaultLayout()
	tests := []struct {
		count int
		want  int
	}{
		{1, 24}, {3, 24}, {4, 20}, {6, 20}, {7, 16}, {10, 16}, {11, 12}, {40, 12},
	}
	for _, tt := range tests {
		if got := l.TabWidth(tt.count); got != tt.want {
			t.Errorf("TabWidth(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestLayout_Capacity(t *testing.T) {
	l := DefaultLayout()
	tests := []struct {
		name string
		n    int
		p    Params
		want int
	}{
		{"all fit", 5, Params{Width: 110}, 5},
		{"one short of all", 5, Params{Width: 109}, 4},
		{"tier widens at three", 5, Params{Width: 95}, 3},
		{"two", 5, Params{Width: 86}, 2},
		{"one", 5, Params{Width: 61}, 1},
		{"minimum one", 5, Params{Width: 10}, 1},
		{"no tabs", 0, Params{Width: 10}, 0},
		{"placeholder costs a tab", 5, Params{Width: 110, PlaceholderActive: true}, 3},
		{"aux control", 5, Params{Width: 110, AuxVisible: true}, 4},
		{"single tab", 1, Params{Width: 30}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Capacity(tt.n, tt.p); got != tt.want {
				t.Errorf("Capacity(%d, %+v) = %d, want %d", tt.n, tt.p, got, tt.want)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	order := keys("a", "b", "c", "d", "e")
	tests := []struct {
		name         string
		active       tabkey.Key
		capacity     int
		wantVisible  []tabkey.Key
		wantOverflow []tabkey.Key
	}{
		{"active overflowing takes last slot", "e", 3, keys("a", "b", "e"), keys("c", "d")},
		{"active in middle of overflow", "d", 3, keys("a", "b", "d"), keys("c", "e")},
		{"active already visible", "b", 3, keys("a", "b", "c"), keys("d", "e")},
		{"active in last slot", "c", 3, keys("a", "b", "c"), keys("d", "e")},
		{"no active", "", 2, keys("a", "b"), keys("c", "d", "e")},
		{"capacity one", "e", 1, keys("e"), keys("a", "b", "c", "d")},
		{"everything fits", "e", 9, keys("a", "b", "c", "d", "e"), keys()},
		{"zero capacity", "a", 0, nil, keys("a", "b", "c", "d", "e")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, overflow := Partition(order, tt.active, tt.capacity)
			if !slices.Equal(visible, tt.wantVisible) {
				t.Errorf("visible = %v, want %v", visible, tt.wantVisible)
			}
			if !slices.Equal(overflow, tt.wantOverflow) {
				t.Errorf("overflow = %v, want %v", overflow, tt.wantOverflow)
			}
		})
	}
}

func TestPartition_DoesNotMutateOrder(t *testing.T) {
	order := keys("a", "b", "c", "d")
	visible, _ := Partition(order, "d", 2)
	visible[0] = "z"

	if !slices.Equal(order, keys("a", "b", "c", "d")) {
		t.Errorf("order mutated: %v", order)
	}
}

func TestCompute_ActiveAlwaysVisible(t *testing.T) {
	l := DefaultLayout()
	order := keys("home", "inbox", "timetable", "classroom", "classroom/5a",
		"classroom/5a/grades", "student-ann", "student-bo", "profile", "students",
		"classroom/7c", "classroom/7c/students")
	minWidth := l.TabWidth(1) + l.Gap + l.NewTabWidth + l.OverflowWidth

	for width := minWidth; width <= 300; width++ {
		for _, active := range order {
			split := Compute(order, active, Params{Width: width}, l)
			if !slices.Contains(split.Visible, active) {
				t.Fatalf("width %d: active %q not visible in %v", width, active, split.Visible)
			}
			if len(split.Visible)+len(split.Overflow) != len(order) {
				t.Fatalf("width %d: split lost tabs: %v + %v", width, split.Visible, split.Overflow)
			}
		}
	}
}

func TestCompute_TabWidthFollowsCapacity(t *testing.T) {
	split := Compute(keys("a", "b", "c", "d", "e"), "a", Params{Width: 95}, DefaultLayout())

	if len(split.Visible) != 3 || split.TabWidth != 24 {
		t.Errorf("Compute() = %d visible at width %d, want 3 at 24", len(split.Visible), split.TabWidth)
	}
}

func TestLayout_Validate(t *testing.T) {
	if err := DefaultLayout().Validate(); err != nil {
		t.Errorf("DefaultLayout().Validate() = %v", err)
	}

	bad := []Layout{
		{},
		{Tiers: []Tier{{MaxTabs: 3, Width: 0}}},
		{Tiers: []Tier{{MaxTabs: 5, Width: 20}, {MaxTabs: 3, Width: 10}, {Width: 8}}},
		{Tiers: []Tier{{Width: 10}}, Gap: -1},
	}
	for i, l := range bad {
		if err := l.Validate(); err == nil {
			t.Errorf("layout %d: Validate() = nil, want error", i)
		}
	}
}
