// Package tabstrip computes which tabs fit in the tab strip and which spill
// into the overflow menu. All functions are pure: callers recompute the
// split whenever the tab order, the active tab or the available width changes.
//
// Widths are measured in terminal cells.
package tabstrip

import (
	"fmt"
	"slices"

	"github.com/Iron-Ham/classdesk/internal/tabkey"
)

// Tier maps a maximum tab count to the width each tab gets at that count.
type Tier struct {
	MaxTabs int `mapstructure:"max_tabs" yaml:"max_tabs"`
	Width   int `mapstructure:"width" yaml:"width"`
}

// Layout holds the tab strip's sizing constants.
type Layout struct {
	// Tiers must be sorted by MaxTabs. Counts above the last tier use its width.
	Tiers         []Tier
	Gap           int // space between adjacent tabs
	NewTabWidth   int // new-tab button
	OverflowWidth int // overflow menu button, shown only when tabs overflow
	AuxWidth      int // auxiliary control at the right edge, when visible
}

// DefaultLayout returns the built-in sizing constants.
func DefaultLayout() Layout {
	return Layout{
		Tiers: []Tier{
			{MaxTabs: 3, Width: 24},
			{MaxTabs: 6, Width: 20},
			{MaxTabs: 10, Width: 16},
			{MaxTabs: 0, Width: 12}, // any count
		},
		Gap:           1,
		NewTabWidth:   5,
		OverflowWidth: 7,
		AuxWidth:      5,
	}
}

// Validate reports the first problem with l, if any.
func (l Layout) Validate() error {
	if len(l.Tiers) == 0 {
		return fmt.Errorf("at least one width tier is required")
	}
	prev := 0
	for i, t := range l.Tiers {
		if t.Width <= 0 {
			return fmt.Errorf("tier %d: width must be positive", i)
		}
		last := i == len(l.Tiers)-1
		if !last && t.MaxTabs <= prev {
			return fmt.Errorf("tier %d: max_tabs must increase", i)
		}
		prev = t.MaxTabs
	}
	if l.Gap < 0 || l.NewTabWidth < 0 || l.OverflowWidth < 0 || l.AuxWidth < 0 {
		return fmt.Errorf("control widths must not be negative")
	}
	return nil
}

// TabWidth returns the per-tab width when count tabs are shown.
func (l Layout) TabWidth(count int) int {
	for _, t := range l.Tiers {
		if count <= t.MaxTabs {
			return t.Width
		}
	}
	if len(l.Tiers) == 0 {
		return 0
	}
	return l.Tiers[len(l.Tiers)-1].Width
}

// Params describes the strip being laid out.
type Params struct {
	Width             int  // available width
	PlaceholderActive bool // the new-tab page is current and renders as a tab
	AuxVisible        bool // the auxiliary control is shown
}

// Capacity returns how many of n tabs fit in p.Width. It tries n, n-1, ...
// and returns the first count whose tabs, gaps and controls fit. At least one
// tab is always shown when n > 0.
func (l Layout) Capacity(n int, p Params) int {
	for trial := n; trial > 0; trial-- {
		if l.required(trial, n, p) <= p.Width {
			return trial
		}
	}
	return min(n, 1)
}

func (l Layout) required(trial, n int, p Params) int {
	tab := l.TabWidth(trial)
	w := trial*tab + trial*l.Gap
	if p.PlaceholderActive {
		w += tab
	} else {
		w += l.NewTabWidth
	}
	if trial < n {
		w += l.OverflowWidth
	}
	if p.AuxVisible {
		w += l.AuxWidth
	}
	return w
}

// Split is the result of laying out the tab strip.
type Split struct {
	Visible  []tabkey.Key
	Overflow []tabkey.Key
	TabWidth int
}

// Partition splits order into at most capacity visible tabs and the rest.
// If active would overflow it takes the last visible slot; every other tab
// keeps its relative order in both lists.
func Partition(order []tabkey.Key, active tabkey.Key, capacity int) (visible, overflow []tabkey.Key) {
	capacity = max(0, min(capacity, len(order)))
	if capacity == 0 {
		return nil, slices.Clone(order)
	}
	idx := slices.Index(order, active)
	if idx < capacity {
		return slices.Clone(order[:capacity]), slices.Clone(order[capacity:])
	}

	visible = make([]tabkey.Key, 0, capacity)
	visible = append(visible, order[:capacity-1]...)
	visible = append(visible, active)

	overflow = make([]tabkey.Key, 0, len(order)-capacity)
	for _, k := range order[capacity-1:] {
		if k != active {
			overflow = append(overflow, k)
		}
	}
	return visible, overflow
}

// Compute lays out order in p.Width.
func Compute(order []tabkey.Key, active tabkey.Key, p Params, l Layout) Split {
	capacity := l.Capacity(len(order), p)
	visible, overflow := Partition(order, active, capacity)
	return Split{Visible: visible, Overflow: overflow, TabWidth: l.TabWidth(capacity)}
}
