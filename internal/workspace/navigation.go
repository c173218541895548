package workspace

import (
	"github.com/Iron-Ham/classdesk/internal/logging"
	"github.com/Iron-Ham/classdesk/internal/tabkey"
)

// Location is the address bar the workspace keeps in sync with the active tab.
type Location interface {
	// Path returns the current path, always starting with "/".
	Path() string
	// Push navigates to path, adding a history entry.
	Push(path string)
	// Replace navigates to path, replacing the current history entry.
	Replace(path string)
}

// NavigateOptions controls a NavigateTo call.
type NavigateOptions struct {
	// ReplaceParent makes the target take over its parent's tab slot when
	// the parent is open (e.g. drilling from a class into its roster).
	ReplaceParent bool
	// Label is stored as the tab's display label when non-empty.
	Label string
}

// Navigator turns navigation intents into registry mutations and location
// changes. Repeating a call with identical arguments leaves the workspace
// unchanged.
type Navigator struct {
	reg    *Registry
	loc    Location
	logger *logging.Logger
}

// NewNavigator creates a Navigator over reg and loc.
func NewNavigator(reg *Registry, loc Location, logger *logging.Logger) *Navigator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Navigator{reg: reg, loc: loc, logger: logger.WithComponent("navigation")}
}

// NavigateTo opens (or re-activates) key, updates the location and makes key
// the active tab.
func (n *Navigator) NavigateTo(key tabkey.Key, opts NavigateOptions) {
	switch key.Kind() {
	case tabkey.KindInvalid:
		n.logger.WithTab(string(key)).Warn("ignoring navigation to invalid key")
		return
	case tabkey.KindPlaceholder:
		n.ShowPlaceholder()
		return
	}

	parent, hasParent := tabkey.Parent(key)
	if opts.ReplaceParent && hasParent && n.reg.Contains(parent) {
		n.logger.WithTab(string(key)).Debug("replacing parent tab", "parent", string(parent))
		n.reg.Replace(key, parent, opts.Label)
	} else {
		n.reg.Open(key, opts.Label)
	}

	n.setLocation(tabkey.ToPath(key), true)
	n.reg.SetActive(key)
}

// CloseTab closes key. When the active tab changes the location follows it;
// when no tabs remain the new-tab placeholder becomes current.
func (n *Navigator) CloseTab(key tabkey.Key) {
	before := n.reg.Active()
	n.reg.Close(key)

	if n.reg.Len() == 0 {
		n.ShowPlaceholder()
		return
	}
	if after := n.reg.Active(); after != before && after != "" {
		n.setLocation(tabkey.ToPath(after), false)
	}
}

// ShowPlaceholder makes the new-tab page current.
func (n *Navigator) ShowPlaceholder() {
	n.reg.ShowPlaceholder()
	n.setLocation(tabkey.ToPath(tabkey.NewTab), true)
}

// Next activates the tab after the current one, wrapping around.
func (n *Navigator) Next() {
	n.step(1)
}

// Prev activates the tab before the current one, wrapping around.
func (n *Navigator) Prev() {
	n.step(-1)
}

// JumpTo activates the tab at index (0-based). Out-of-range indexes are ignored.
func (n *Navigator) JumpTo(index int) {
	order := n.reg.Order()
	if index < 0 || index >= len(order) {
		return
	}
	n.NavigateTo(order[index], NavigateOptions{})
}

func (n *Navigator) step(delta int) {
	order := n.reg.Order()
	if len(order) == 0 {
		return
	}
	idx := n.reg.Index(n.reg.Active())
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(order) - 1
	default:
		idx = (idx + delta + len(order)) % len(order)
	}
	n.NavigateTo(order[idx], NavigateOptions{})
}

func (n *Navigator) setLocation(path string, push bool) {
	if n.loc == nil || n.loc.Path() == path {
		return
	}
	if push {
		n.loc.Push(path)
	} else {
		n.loc.Replace(path)
	}
}
