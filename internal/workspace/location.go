package workspace

import (
	"strings"
	"sync"

	"github.com/Iron-Ham/classdesk/internal/event"
	"github.com/Iron-Ham/classdesk/internal/logging"
	"github.com/Iron-Ham/classdesk/internal/tabkey"
)

// LocationSync reconciles the registry with the address bar. It never
// reorders tabs: a path naming an open tab only activates it, and a path
// naming a closed tab appends it.
//
// Hosts may deliver the same location change twice in a row. Each call reads
// the live registry, so the second delivery finds the tab already open and
// active and changes nothing.
type LocationSync struct {
	reg    *Registry
	loc    Location
	logger *logging.Logger
}

// NewLocationSync creates a LocationSync. loc is used to redirect invalid
// paths to the home page and may be nil.
func NewLocationSync(reg *Registry, loc Location, logger *logging.Logger) *LocationSync {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &LocationSync{reg: reg, loc: loc, logger: logger.WithComponent("location")}
}

// OnLocationChanged handles a new address-bar location given as path segments.
func (s *LocationSync) OnLocationChanged(segments []string) {
	key, err := tabkey.FromSegments(segments)
	if err != nil {
		s.logger.Warn("invalid location, redirecting home", "path", "/"+strings.Join(segments, "/"), "error", err.Error())
		if s.loc != nil {
			s.loc.Replace(tabkey.ToPath(tabkey.Home))
		}
		return
	}

	if key == tabkey.NewTab {
		s.reg.ShowPlaceholder()
		return
	}
	if !s.reg.Contains(key) {
		s.reg.Open(key, "")
	}
	s.reg.SetActive(key)
}

// OnPath handles a new address-bar location given as a raw path.
func (s *LocationSync) OnPath(path string) {
	s.OnLocationChanged(SplitPath(path))
}

// Attach subscribes the sync to location events on bus and returns a
// function that detaches it.
func (s *LocationSync) Attach(bus *event.Bus) (detach func()) {
	id := bus.Subscribe(event.TypeLocationChanged, func(e event.Event) {
		if changed, ok := e.(event.LocationChangedEvent); ok {
			s.OnPath(changed.Path)
		}
	})
	return func() { bus.Unsubscribe(id) }
}

// SplitPath splits a path into segments, ignoring leading and trailing
// slashes. Empty inner segments are kept so that they can be rejected.
func SplitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// History is an in-memory Location with back/forward navigation. Every path
// change is published as a location.changed event on its bus.
type History struct {
	mu      sync.Mutex
	entries []string
	index   int
	bus     *event.Bus
}

// NewHistory creates a History positioned at initial ("/" when empty).
func NewHistory(initial string, bus *event.Bus) *History {
	return &History{entries: []string{normalizePath(initial)}, bus: bus}
}

// Path returns the current path.
func (h *History) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Push adds path after the current entry, discarding forward entries.
func (h *History) Push(path string) {
	path = normalizePath(path)
	h.mu.Lock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
	h.mu.Unlock()

	h.notify(path, true)
}

// Replace overwrites the current entry.
func (h *History) Replace(path string) {
	path = normalizePath(path)
	h.mu.Lock()
	h.entries[h.index] = path
	h.mu.Unlock()

	h.notify(path, false)
}

// Back moves one entry back. Returns false at the start of history.
func (h *History) Back() bool {
	return h.move(-1)
}

// Forward moves one entry forward. Returns false at the end of history.
func (h *History) Forward() bool {
	return h.move(1)
}

// CanGoBack reports whether Back would move.
func (h *History) CanGoBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanGoForward reports whether Forward would move.
func (h *History) CanGoForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *History) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	path := h.entries[next]
	h.mu.Unlock()

	h.notify(path, false)
	return true
}

func (h *History) notify(path string, pushed bool) {
	if h.bus != nil {
		h.bus.Publish(event.NewLocationChangedEvent(path, pushed))
	}
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
