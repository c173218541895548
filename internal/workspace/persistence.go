package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/Iron-Ham/classdesk/internal/errors"
	"github.com/Iron-Ham/classdesk/internal/event"
	"github.com/Iron-Ham/classdesk/internal/logging"
	"github.com/Iron-Ham/classdesk/internal/tabkey"
)

// Keys under which the registry state is written to the session store. All
// of them share KeyPrefix.
const (
	KeyPrefix          = "classdesk.tabs."
	OrderKey           = KeyPrefix + "order"
	ProfileLabelsKey   = KeyPrefix + "profileLabels"
	ClassroomLabelsKey = KeyPrefix + "classroomLabels"
)

// StateStore is the session-scoped storage the bridge reads and writes.
// Load and Delete must return an error matching errors.ErrNotFound for
// absent keys.
type StateStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Bridge keeps a Registry and a StateStore in sync. Order and label maps are
// written as three independent entries: the order as a JSON string array and
// each label map as a JSON array of [key, value] pairs sorted by key.
type Bridge struct {
	store  StateStore
	logger *logging.Logger

	mu     sync.Mutex
	detach func()
}

// NewBridge creates a Bridge over store.
func NewBridge(store StateStore, logger *logging.Logger) *Bridge {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Bridge{store: store, logger: logger.WithComponent("persistence")}
}

// Restore reads the persisted state. A missing order entry yields the default
// state. Any unreadable or malformed entry discards everything read so far
// and also yields the default state; the failure is logged, never returned.
// A missing label entry is treated as an empty map.
func (b *Bridge) Restore(ctx context.Context) State {
	exists, err := b.store.Exists(ctx, OrderKey)
	if err != nil {
		b.logger.Warn("tab state store is unreadable, using defaults", "error", err.Error())
		return DefaultState()
	}
	if !exists {
		b.logger.Debug("no persisted tab state, using defaults")
		return DefaultState()
	}

	state, err := b.load(ctx)
	if err != nil {
		if errors.IsNotFound(err) {
			b.logger.Debug("no persisted tab state, using defaults")
		} else {
			b.logger.Warn("discarding persisted tab state", "error", err.Error())
		}
		return DefaultState()
	}
	b.logger.Debug("restored tab state", "tab_count", len(state.Order))
	return state
}

func (b *Bridge) load(ctx context.Context) (State, error) {
	raw, err := b.store.Load(ctx, OrderKey)
	if err != nil {
		return State{}, err
	}
	var order []string
	if err := json.Unmarshal(raw, &order); err != nil {
		return State{}, errors.CorruptState(OrderKey, err)
	}
	state := State{Order: make([]tabkey.Key, 0, len(order))}
	for _, s := range order {
		k := tabkey.Key(s)
		if !isTabKey(k) {
			return State{}, errors.CorruptState(OrderKey, fmt.Errorf("invalid tab key %q", s))
		}
		if slices.Contains(state.Order, k) {
			return State{}, errors.CorruptState(OrderKey, fmt.Errorf("duplicate tab key %q", s))
		}
		state.Order = append(state.Order, k)
	}

	if state.ProfileLabels, err = b.loadLabels(ctx, ProfileLabelsKey, tabkey.FamilyProfile); err != nil {
		return State{}, err
	}
	if state.ClassroomLabels, err = b.loadLabels(ctx, ClassroomLabelsKey, tabkey.FamilyClassroom); err != nil {
		return State{}, err
	}
	return state, nil
}

func (b *Bridge) loadLabels(ctx context.Context, storeKey, family string) (map[tabkey.Key]string, error) {
	labels := map[tabkey.Key]string{}
	raw, err := b.store.Load(ctx, storeKey)
	if errors.IsNotFound(err) {
		return labels, nil
	}
	if err != nil {
		return nil, err
	}

	var pairs [][]string
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, errors.CorruptState(storeKey, err)
	}
	for _, p := range pairs {
		if len(p) != 2 {
			return nil, errors.CorruptState(storeKey, fmt.Errorf("entry has %d elements, want 2", len(p)))
		}
		k := tabkey.Key(p[0])
		if k.Family() != family {
			return nil, errors.CorruptState(storeKey, fmt.Errorf("key %q is not a %s key", p[0], family))
		}
		labels[k] = p[1]
	}
	return labels, nil
}

// Save writes all three entries for state.
func (b *Bridge) Save(ctx context.Context, state State) error {
	order, err := json.Marshal(keysToStrings(state.Order))
	if err != nil {
		return err
	}
	entries := []struct {
		key  string
		data []byte
	}{
		{OrderKey, order},
		{ProfileLabelsKey, encodeLabels(state.ProfileLabels)},
		{ClassroomLabelsKey, encodeLabels(state.ClassroomLabels)},
	}
	for _, e := range entries {
		if err := b.store.Save(ctx, e.key, e.data); err != nil {
			return fmt.Errorf("save %s: %w", e.key, err)
		}
	}
	return nil
}

// Clear deletes every stored tab entry, so the next Restore yields the
// default state.
func (b *Bridge) Clear(ctx context.Context) error {
	keys, err := b.store.List(ctx, KeyPrefix)
	if err != nil {
		return fmt.Errorf("list tab state: %w", err)
	}
	for _, key := range keys {
		if err := b.store.Delete(ctx, key); err != nil && !errors.IsNotFound(err) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	b.logger.Debug("cleared tab state", "entries", len(keys))
	return nil
}

// Attach writes the registry's state whenever its order or labels change.
// Activation changes are not persisted. Any previous attachment is detached.
func (b *Bridge) Attach(ctx context.Context, reg *Registry) {
	unsubscribe := reg.Subscribe(func(e event.Event) {
		switch e.EventType() {
		case event.TypeTabActivated, event.TypeStateRestored:
			return
		}
		if err := b.Save(ctx, reg.Snapshot()); err != nil {
			b.logger.Error("failed to persist tab state", "event", e.EventType(), "error", err.Error())
		}
	})

	b.mu.Lock()
	previous := b.detach
	b.detach = unsubscribe
	b.mu.Unlock()
	if previous != nil {
		previous()
	}
}

// Detach stops persisting registry changes.
func (b *Bridge) Detach() {
	b.mu.Lock()
	detach := b.detach
	b.detach = nil
	b.mu.Unlock()
	if detach != nil {
		detach()
	}
}

func encodeLabels(labels map[tabkey.Key]string) []byte {
	keys := make([]tabkey.Key, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{string(k), labels[k]})
	}
	data, _ := json.Marshal(pairs) // a slice of string pairs always marshals
	return data
}
