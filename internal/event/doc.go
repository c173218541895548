// Package event provides a synchronous pub-sub event bus used to notify
// interested components about workspace changes.
//
// The tab registry publishes an event after every mutation; the persistence
// bridge and the host shell subscribe to those events instead of polling the
// registry. Handlers run synchronously on the publishing goroutine, in
// registration order, and a panicking handler does not prevent delivery to
// the remaining handlers.
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - tabs.opened, tabs.closed, tabs.activated, tabs.reordered, tabs.labeled, tabs.restored
//   - location.changed
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//	id := bus.Subscribe(event.TypeTabOpened, func(e event.Event) {
//	    opened := e.(event.TabOpenedEvent)
//	    fmt.Println("opened", opened.Key)
//	})
//	defer bus.Unsubscribe(id)
package event
