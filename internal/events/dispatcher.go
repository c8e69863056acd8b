// Package events distributes draw session changes to interested observers
// such as websocket clients and the log.
package events

import (
	"context"
	"log/slog"
	"sync"
)

// Event is a domain event dispatched to observers.
type Event struct {
	// Type is the event type, e.g. "deck:submitted".
	Type string

	// Data is the typed payload, one of the *Event structs in messages.go.
	Data any

	// Context is the context of the operation that raised the event.
	Context context.Context
}

// Observer is notified of dispatched events.
type Observer interface {
	// OnEvent handles an event. Errors are logged by the dispatcher.
	OnEvent(event Event) error

	// GetName returns a name for logging.
	GetName() string

	// ShouldHandle reports whether the observer wants this event type.
	ShouldHandle(eventType string) bool
}

// EventDispatcher fans events out to registered observers.
// It is safe for concurrent use.
type EventDispatcher struct {
	observers []Observer
	logger    *slog.Logger
	wg        sync.WaitGroup
	mu        sync.RWMutex
}

// NewEventDispatcher creates a dispatcher. A nil logger uses slog.Default().
func NewEventDispatcher(logger *slog.Logger) *EventDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventDispatcher{
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

// Register adds an observer.
func (d *EventDispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	d.logger.Debug("registered event observer", "observer", observer.GetName())
}

// Unregister removes an observer.
func (d *EventDispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			d.logger.Debug("unregistered event observer", "observer", observer.GetName())
			return
		}
	}
}

func (d *EventDispatcher) snapshot() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	return observers
}

// Dispatch notifies observers sequentially in registration order. An
// observer error is logged and does not stop the others.
func (d *EventDispatcher) Dispatch(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		d.notify(observer, event)
	}
}

// DispatchAsync notifies each observer in its own goroutine.
// Wait blocks until those goroutines finish.
func (d *EventDispatcher) DispatchAsync(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}

		d.wg.Add(1)
		go func(obs Observer) {
			defer d.wg.Done()
			d.notify(obs, event)
		}(observer)
	}
}

// Wait blocks until every DispatchAsync notification has been delivered.
func (d *EventDispatcher) Wait() {
	d.wg.Wait()
}

func (d *EventDispatcher) notify(observer Observer, event Event) {
	if err := observer.OnEvent(event); err != nil {
		d.logger.Warn("observer failed to handle event",
			"observer", observer.GetName(), "event", event.Type, "error", err)
	}
}

// ObserverCount returns the number of registered observers.
func (d *EventDispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all observers.
func (d *EventDispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = make([]Observer, 0)
}

// NewTypedEvent creates an event carrying data.
func NewTypedEvent[T any](ctx context.Context, eventType string, data T) Event {
	return Event{
		Type:    eventType,
		Data:    data,
		Context: ctx,
	}
}

// GetTypedData extracts the payload of an event as T.
func GetTypedData[T any](event Event) (T, bool) {
	typed, ok := event.Data.(T)
	return typed, ok
}
