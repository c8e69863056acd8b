package events

import (
	"log/slog"
)

// LoggingObserver logs every event.
type LoggingObserver struct {
	name    string
	logger  *slog.Logger
	verbose bool
}

// NewLoggingObserver creates a logging observer. Verbose includes payloads.
func NewLoggingObserver(logger *slog.Logger, verbose bool) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{
		name:    "LoggingObserver",
		logger:  logger,
		verbose: verbose,
	}
}

// OnEvent logs the event.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		o.logger.Info("event", "type", event.Type, "data", event.Data)
	} else {
		o.logger.Info("event", "type", event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *LoggingObserver) ShouldHandle(eventType string) bool {
	return true
}

// FuncObserver adapts a function to Observer, optionally filtered to a set
// of event types.
type FuncObserver struct {
	name  string
	fn    func(Event) error
	types map[string]bool
}

// NewFuncObserver creates an observer calling fn for the given types, or for
// every type when none are given.
func NewFuncObserver(name string, fn func(Event) error, eventTypes ...string) *FuncObserver {
	types := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = true
	}
	return &FuncObserver{name: name, fn: fn, types: types}
}

// OnEvent calls the wrapped function.
func (o *FuncObserver) OnEvent(event Event) error {
	return o.fn(event)
}

// GetName returns the observer's name.
func (o *FuncObserver) GetName() string {
	return o.name
}

// ShouldHandle applies the type filter.
func (o *FuncObserver) ShouldHandle(eventType string) bool {
	return len(o.types) == 0 || o.types[eventType]
}

var (
	_ Observer = (*LoggingObserver)(nil)
	_ Observer = (*FuncObserver)(nil)
)
