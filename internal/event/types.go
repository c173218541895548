package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event types published by the workspace.
const (
	TypeTabOpened       = "tabs.opened"
	TypeTabClosed       = "tabs.closed"
	TypeTabActivated    = "tabs.activated"
	TypeTabsReordered   = "tabs.reordered"
	TypeTabLabeled      = "tabs.labeled"
	TypeStateRestored   = "tabs.restored"
	TypeLocationChanged = "location.changed"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// Keys are carried as plain strings so this package stays free of
// dependencies on the workspace packages that publish these events.

// TabOpenedEvent is emitted when a key is added to the tab order.
type TabOpenedEvent struct {
	baseEvent
	Key   string
	Index int
	// Replaced is the parent key removed by a replace-parent navigation, if any.
	Replaced string
}

// NewTabOpenedEvent creates a TabOpenedEvent.
func NewTabOpenedEvent(key string, index int, replaced string) TabOpenedEvent {
	return TabOpenedEvent{baseEvent: newBaseEvent(TypeTabOpened), Key: key, Index: index, Replaced: replaced}
}

// TabClosedEvent is emitted when a key is removed from the tab order.
type TabClosedEvent struct {
	baseEvent
	Key       string
	Index     int
	NewActive string // empty when no tab is active afterwards or active did not change
}

// NewTabClosedEvent creates a TabClosedEvent.
func NewTabClosedEvent(key string, index int, newActive string) TabClosedEvent {
	return TabClosedEvent{baseEvent: newBaseEvent(TypeTabClosed), Key: key, Index: index, NewActive: newActive}
}

// TabActivatedEvent is emitted when the active key changes.
type TabActivatedEvent struct {
	baseEvent
	Key      string // empty when the active tab was cleared
	Previous string
}

// NewTabActivatedEvent creates a TabActivatedEvent.
func NewTabActivatedEvent(key, previous string) TabActivatedEvent {
	return TabActivatedEvent{baseEvent: newBaseEvent(TypeTabActivated), Key: key, Previous: previous}
}

// TabsReorderedEvent is emitted when an existing key moves within the order.
type TabsReorderedEvent struct {
	baseEvent
	Key   string
	From  int
	To    int
	Order []string
}

// NewTabsReorderedEvent creates a TabsReorderedEvent.
func NewTabsReorderedEvent(key string, from, to int, order []string) TabsReorderedEvent {
	return TabsReorderedEvent{baseEvent: newBaseEvent(TypeTabsReordered), Key: key, From: from, To: to, Order: order}
}

// TabLabeledEvent is emitted when a label is stored in a metadata map.
type TabLabeledEvent struct {
	baseEvent
	Key    string
	Family string
	Label  string
}

// NewTabLabeledEvent creates a TabLabeledEvent.
func NewTabLabeledEvent(key, family, label string) TabLabeledEvent {
	return TabLabeledEvent{baseEvent: newBaseEvent(TypeTabLabeled), Key: key, Family: family, Label: label}
}

// StateRestoredEvent is emitted when the registry is re-initialized from a snapshot.
type StateRestoredEvent struct {
	baseEvent
	TabCount int
}

// NewStateRestoredEvent creates a StateRestoredEvent.
func NewStateRestoredEvent(tabCount int) StateRestoredEvent {
	return StateRestoredEvent{baseEvent: newBaseEvent(TypeStateRestored), TabCount: tabCount}
}

// LocationChangedEvent is emitted by a location when its path changes.
type LocationChangedEvent struct {
	baseEvent
	Path string
	// Pushed is true for a new history entry and false for replace/back/forward.
	Pushed bool
}

// NewLocationChangedEvent creates a LocationChangedEvent.
func NewLocationChangedEvent(path string, pushed bool) LocationChangedEvent {
	return LocationChangedEvent{baseEvent: newBaseEvent(TypeLocationChanged), Path: path, Pushed: pushed}
}
