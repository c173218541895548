// Package workspace implements the multi-tab workspace session: the tab
// registry and the controllers that mutate it (navigation, address-bar
// synchronization, drag reordering) plus the bridge that persists it.
//
// All registry operations are total. Invalid input, such as closing a key
// that is not open or activating a key that is not in the order, is a silent
// no-op. Every mutation publishes an event on the registry's bus after the
// registry lock has been released, so subscribers may read the registry from
// inside their handlers.
package workspace

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/Iron-Ham/classdesk/internal/event"
	"github.com/Iron-Ham/classdesk/internal/logging"
	"github.com/Iron-Ham/classdesk/internal/tabkey"
)

// State is a serializable snapshot of the registry.
type State struct {
	Order           []tabkey.Key
	ProfileLabels   map[tabkey.Key]string
	ClassroomLabels map[tabkey.Key]string
}

// DefaultState is the state used when nothing valid was persisted:
// a single home tab and no labels.
func DefaultState() State {
	return State{
		Order:           []tabkey.Key{tabkey.Home},
		ProfileLabels:   map[tabkey.Key]string{},
		ClassroomLabels: map[tabkey.Key]string{},
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLabelPruning removes a tab's label when the tab is closed. By default
// labels outlive their tabs so that reopening a tab keeps its title.
func WithLabelPruning(enabled bool) RegistryOption {
	return func(r *Registry) { r.pruneLabels = enabled }
}

// Registry is the canonical ordered list of open tabs, the active tab, and
// the per-family label maps. It is safe for concurrent use.
type Registry struct {
	mu          sync.Mutex
	order       []tabkey.Key
	active      tabkey.Key
	placeholder bool
	labels      map[string]map[tabkey.Key]string // family -> key -> label

	pruneLabels bool
	bus         *event.Bus
	logger      *logging.Logger
}

// NewRegistry creates an empty registry publishing on bus.
func NewRegistry(bus *event.Bus, logger *logging.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if bus == nil {
		bus = event.NewBus(logger)
	}
	r := &Registry{
		labels: map[string]map[tabkey.Key]string{
			tabkey.FamilyProfile:   {},
			tabkey.FamilyClassroom: {},
		},
		bus:    bus,
		logger: logger.WithComponent("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bus returns the bus the registry publishes on.
func (r *Registry) Bus() *event.Bus {
	return r.bus
}

// Subscribe registers fn for every tab event ("tabs.*") and returns a
// function that removes the subscription.
func (r *Registry) Subscribe(fn event.Handler) (unsubscribe func()) {
	id := r.bus.SubscribeAll(func(e event.Event) {
		if strings.HasPrefix(e.EventType(), "tabs.") {
			fn(e)
		}
	})
	return func() { r.bus.Unsubscribe(id) }
}

// Init replaces the whole registry state with a snapshot. Duplicate,
// malformed and placeholder keys are dropped; labels are kept only for keys
// of the matching family. The active tab is cleared unless it is still open.
func (r *Registry) Init(state State) {
	r.mu.Lock()
	order := make([]tabkey.Key, 0, len(state.Order))
	for _, k := range state.Order {
		if !isTabKey(k) || slices.Contains(order, k) {
			r.logger.Warn("dropping key from restored state", "tab", string(k))
			continue
		}
		order = append(order, k)
	}
	r.order = order
	r.labels[tabkey.FamilyProfile] = filterLabels(state.ProfileLabels, tabkey.FamilyProfile)
	r.labels[tabkey.FamilyClassroom] = filterLabels(state.ClassroomLabels, tabkey.FamilyClassroom)
	if !slices.Contains(r.order, r.active) {
		r.active = ""
	}
	count := len(r.order)
	r.mu.Unlock()

	r.publish(event.NewStateRestoredEvent(count))
}

// Open adds key to the end of the order, or, if it is already open, merges
// label into its metadata without moving it. An empty label leaves stored
// metadata untouched. Returns the resulting order.
func (r *Registry) Open(key tabkey.Key, label string) []tabkey.Key {
	if !isTabKey(key) {
		return r.Order()
	}

	r.mu.Lock()
	var events []event.Event
	if !slices.Contains(r.order, key) {
		// The key is filtered out of the live order before appending so a
		// duplicate delivery can never produce a second copy.
		r.order = append(without(r.order, key), key)
		events = append(events, event.NewTabOpenedEvent(string(key), len(r.order)-1, ""))
	}
	if e, ok := r.mergeLabel(key, label); ok {
		events = append(events, e)
	}
	r.checkInvariants()
	order := slices.Clone(r.order)
	r.mu.Unlock()

	r.publish(events...)
	return order
}

// Close removes key from the order. The placeholder is never closable.
// When the active tab is closed the new active tab is the one now at the
// closed tab's index, else the one before it, else none.
func (r *Registry) Close(key tabkey.Key) {
	if key == tabkey.NewTab {
		return
	}

	r.mu.Lock()
	idx := slices.Index(r.order, key)
	if idx < 0 {
		r.mu.Unlock()
		return
	}

	r.order = slices.Delete(slices.Clone(r.order), idx, idx+1)
	var events []event.Event
	var newActive tabkey.Key
	if r.active == key {
		previous := r.active
		r.active = successor(r.order, idx)
		newActive = r.active
		events = append(events, event.NewTabActivatedEvent(string(r.active), string(previous)))
	}
	if r.pruneLabels {
		if family := key.Family(); family != "" {
			delete(r.labels[family], key)
		}
	}
	r.checkInvariants()
	r.mu.Unlock()

	events = append([]event.Event{event.NewTabClosedEvent(string(key), idx, string(newActive))}, events...)
	r.publish(events...)
}

// Replace removes parent and any existing copy of child, then inserts child
// at the index parent occupied. If parent is not open, child is appended.
// If parent was active, child becomes active.
func (r *Registry) Replace(child, parent tabkey.Key, label string) []tabkey.Key {
	if !isTabKey(child) {
		return r.Order()
	}

	r.mu.Lock()
	parentIdx := -1
	if parent != "" && parent != child {
		parentIdx = slices.Index(r.order, parent)
	}

	filtered := without(without(r.order, parent), child)
	insertAt := len(filtered)
	replaced := ""
	if parentIdx >= 0 {
		insertAt = min(parentIdx, len(filtered))
		replaced = string(parent)
	}
	r.order = slices.Insert(filtered, insertAt, child)

	var events []event.Event
	events = append(events, event.NewTabOpenedEvent(string(child), insertAt, replaced))
	if parentIdx >= 0 && r.active == parent {
		r.active = child
		events = append(events, event.NewTabActivatedEvent(string(child), string(parent)))
	}
	if e, ok := r.mergeLabel(child, label); ok {
		events = append(events, e)
	}
	r.checkInvariants()
	order := slices.Clone(r.order)
	r.mu.Unlock()

	r.publish(events...)
	return order
}

// SetActive makes key the active tab if it is open; otherwise it does nothing.
// Activating a real tab hides the new-tab placeholder.
func (r *Registry) SetActive(key tabkey.Key) {
	r.mu.Lock()
	if !slices.Contains(r.order, key) {
		r.mu.Unlock()
		return
	}
	if r.active == key && !r.placeholder {
		r.mu.Unlock()
		return
	}
	previous := r.current()
	r.active = key
	r.placeholder = false
	r.mu.Unlock()

	r.publish(event.NewTabActivatedEvent(string(key), string(previous)))
}

// ShowPlaceholder clears the active tab and marks the new-tab page current.
func (r *Registry) ShowPlaceholder() {
	r.mu.Lock()
	if r.placeholder {
		r.mu.Unlock()
		return
	}
	previous := r.current()
	r.active = ""
	r.placeholder = true
	r.mu.Unlock()

	r.publish(event.NewTabActivatedEvent(string(tabkey.NewTab), string(previous)))
}

// Move removes key and reinserts it at index to (clamped to the order).
func (r *Registry) Move(key tabkey.Key, to int) {
	r.mu.Lock()
	from := slices.Index(r.order, key)
	if from < 0 {
		r.mu.Unlock()
		return
	}
	filtered := without(r.order, key)
	to = max(0, min(to, len(filtered)))
	if to == from {
		r.mu.Unlock()
		return
	}
	r.order = slices.Insert(filtered, to, key)
	r.checkInvariants()
	order := keysToStrings(r.order)
	r.mu.Unlock()

	r.publish(event.NewTabsReorderedEvent(string(key), from, to, order))
}

// Order returns a copy of the tab order.
func (r *Registry) Order() []tabkey.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Active returns the active tab, or "" when none is active.
func (r *Registry) Active() tabkey.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// PlaceholderActive reports whether the new-tab page is current.
func (r *Registry) PlaceholderActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.placeholder
}

// Current returns the key the content area should render: the active tab,
// the placeholder, or "" when neither is set.
func (r *Registry) Current() tabkey.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current()
}

func (r *Registry) current() tabkey.Key {
	if r.placeholder {
		return tabkey.NewTab
	}
	return r.active
}

// Contains reports whether key is open.
func (r *Registry) Contains(key tabkey.Key) bool {
	return r.Index(key) >= 0
}

// Index returns the position of key in the order, or -1.
func (r *Registry) Index(key tabkey.Key) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Index(r.order, key)
}

// Len returns the number of open tabs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Label returns the stored label for key, if its family has one.
func (r *Registry) Label(key tabkey.Key) (string, bool) {
	family := key.Family()
	if family == "" {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	label, ok := r.labels[family][key]
	return label, ok
}

// Title returns the display title for key: its stored label, or a title
// derived from the key itself.
func (r *Registry) Title(key tabkey.Key) string {
	if label, ok := r.Label(key); ok && label != "" {
		return label
	}
	return tabkey.FallbackTitle(key)
}

// Snapshot returns a copy of the persisted part of the registry.
func (r *Registry) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return State{
		Order:           slices.Clone(r.order),
		ProfileLabels:   maps.Clone(r.labels[tabkey.FamilyProfile]),
		ClassroomLabels: maps.Clone(r.labels[tabkey.FamilyClassroom]),
	}
}

// mergeLabel stores label for key. Caller must hold r.mu.
func (r *Registry) mergeLabel(key tabkey.Key, label string) (event.Event, bool) {
	family := key.Family()
	if family == "" || label == "" {
		return nil, false
	}
	if r.labels[family][key] == label {
		return nil, false
	}
	r.labels[family][key] = label
	return event.NewTabLabeledEvent(string(key), family, label), true
}

// checkInvariants repairs duplicate keys and a dangling active key.
// Neither should happen; both are logged when they do. Caller must hold r.mu.
func (r *Registry) checkInvariants() {
	seen := make(map[tabkey.Key]struct{}, len(r.order))
	deduped := r.order[:0:0]
	for _, k := range r.order {
		if _, dup := seen[k]; dup {
			r.logger.Error("duplicate key in tab order", "tab", string(k))
			continue
		}
		seen[k] = struct{}{}
		deduped = append(deduped, k)
	}
	r.order = deduped

	if r.active != "" {
		if _, ok := seen[r.active]; !ok {
			r.logger.Error("active key not in tab order", "tab", string(r.active))
			r.active = ""
		}
	}
}

func (r *Registry) publish(events ...event.Event) {
	for _, e := range events {
		r.bus.Publish(e)
	}
}

// isTabKey reports whether k may be stored in the order.
func isTabKey(k tabkey.Key) bool {
	kind := k.Kind()
	return kind != tabkey.KindInvalid && kind != tabkey.KindPlaceholder
}

// successor picks the tab that takes over after the one at idx was removed.
func successor(order []tabkey.Key, idx int) tabkey.Key {
	switch {
	case idx < len(order):
		return order[idx]
	case idx > 0:
		return order[idx-1]
	case len(order) > 0:
		return order[len(order)-1]
	default:
		return ""
	}
}

func without(order []tabkey.Key, key tabkey.Key) []tabkey.Key {
	out := make([]tabkey.Key, 0, len(order))
	for _, k := range order {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

func filterLabels(in map[tabkey.Key]string, family string) map[tabkey.Key]string {
	out := make(map[tabkey.Key]string, len(in))
	for k, v := range in {
		if k.Family() == family && v != "" {
			out[k] = v
		}
	}
	return out
}

func keysToStrings(keys []tabkey.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
