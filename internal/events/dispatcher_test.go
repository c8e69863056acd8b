package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestNewTypedEvent(t *testing.T) {
	ctx := context.Background()

	event := NewTypedEvent(ctx, TypeHandsDrawn, HandsDrawnEvent{Drawn: 5, TotalHands: 10})

	if event.Type != TypeHandsDrawn {
		t.Errorf("Expected type '%s', got '%s'", TypeHandsDrawn, event.Type)
	}

	typed, ok := GetTypedData[HandsDrawnEvent](event)
	if !ok {
		t.Fatal("Expected payload to be HandsDrawnEvent")
	}
	if typed.Drawn != 5 || typed.TotalHands != 10 {
		t.Errorf("Expected Drawn=5, TotalHands=10, got %+v", typed)
	}

	if _, ok := GetTypedData[DeckSubmittedEvent](event); ok {
		t.Error("Expected GetTypedData to fail for the wrong type")
	}
}

func TestDispatch_FiltersAndOrders(t *testing.T) {
	d := NewEventDispatcher(nil)

	var got []string
	d.Register(NewFuncObserver("first", func(e Event) error {
		got = append(got, "first:"+e.Type)
		return nil
	}))
	d.Register(NewFuncObserver("drawsOnly", func(e Event) error {
		got = append(got, "drawsOnly:"+e.Type)
		return nil
	}, TypeHandsDrawn))

	d.Dispatch(Event{Type: TypeDeckSubmitted})
	d.Dispatch(Event{Type: TypeHandsDrawn})

	want := []string{"first:deck:submitted", "first:hands:drawn", "drawsOnly:hands:drawn"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDispatch_ObserverErrorDoesNotStopOthers(t *testing.T) {
	var buf bytes.Buffer
	d := NewEventDispatcher(slog.New(slog.NewTextHandler(&buf, nil)))

	called := false
	d.Register(NewFuncObserver("failing", func(Event) error { return errors.New("boom") }))
	d.Register(NewFuncObserver("ok", func(Event) error { called = true; return nil }))

	d.Dispatch(Event{Type: TypeDeckCleared})

	if !called {
		t.Error("second observer was not called")
	}
	if !strings.Contains(buf.String(), "observer=failing") {
		t.Errorf("expected failure to be logged, got %q", buf.String())
	}
}

func TestDispatchAsync(t *testing.T) {
	d := NewEventDispatcher(nil)

	var mu sync.Mutex
	count := 0
	for i := 0; i < 3; i++ {
		d.Register(NewFuncObserver("counter", func(Event) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		}))
	}

	d.DispatchAsync(Event{Type: TypeHandsDrawn})
	d.Wait()

	if count != 3 {
		t.Errorf("Expected 3 notifications, got %d", count)
	}
}

func TestRegisterUnregister(t *testing.T) {
	d := NewEventDispatcher(nil)
	a := NewLoggingObserver(nil, false)
	b := NewLoggingObserver(nil, true)

	d.Register(a)
	d.Register(b)
	if d.ObserverCount() != 2 {
		t.Fatalf("Expected 2 observers, got %d", d.ObserverCount())
	}

	d.Unregister(a)
	if d.ObserverCount() != 1 {
		t.Errorf("Expected 1 observer after unregister, got %d", d.ObserverCount())
	}

	d.Clear()
	if d.ObserverCount() != 0 {
		t.Errorf("Expected 0 observers after clear, got %d", d.ObserverCount())
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	o := NewLoggingObserver(slog.New(slog.NewTextHandler(&buf, nil)), true)

	if !o.ShouldHandle("anything") {
		t.Error("LoggingObserver should handle every event")
	}
	if err := o.OnEvent(Event{Type: TypeDeckSubmitted, Data: DeckSubmittedEvent{Cards: 60}}); err != nil {
		t.Fatalf("OnEvent() error = %v", err)
	}
	if !strings.Contains(buf.String(), "type=deck:submitted") {
		t.Errorf("unexpected log output %q", buf.String())
	}
}
