package websocket

import (
	"context"
	"testing"

	"github.com/ramonehamilton/MTG-Drawer/internal/events"
)

func TestWebSocketObserver_Basics(t *testing.T) {
	hub := NewHub(HubOptions{})
	observer := NewWebSocketObserver(hub)

	if observer.GetName() != "WebSocketObserver" {
		t.Errorf("Expected 'WebSocketObserver', got '%s'", observer.GetName())
	}

	for _, eventType := range []string{events.TypeDeckSubmitted, events.TypeHandsDrawn, "custom:event"} {
		if !observer.ShouldHandle(eventType) {
			t.Errorf("Expected ShouldHandle(%s) to return true", eventType)
		}
	}
}

func TestWebSocketObserver_OnEvent_NilHub(t *testing.T) {
	observer := &WebSocketObserver{name: "TestObserver"}

	if err := observer.OnEvent(events.Event{Type: events.TypeDeckCleared}); err != nil {
		t.Errorf("OnEvent with nil hub should not error, got %v", err)
	}
}

func TestWebSocketObserver_ForwardsThroughDispatcher(t *testing.T) {
	hub, url := startHub(t, HubOptions{})
	conn := dial(t, url)
	waitForClients(t, hub, 1)

	dispatcher := events.NewEventDispatcher(nil)
	dispatcher.Register(NewWebSocketObserver(hub))

	dispatcher.Dispatch(events.NewTypedEvent(context.Background(), events.TypeHandsDrawn, events.HandsDrawnEvent{
		SessionID:  "s-1",
		Drawn:      2,
		TotalHands: 2,
		Current:    []string{"Foo ABC"},
	}))

	received := readEvent(t, conn)
	if received.Type != events.TypeHandsDrawn {
		t.Fatalf("Expected %s, got %s", events.TypeHandsDrawn, received.Type)
	}

	data, ok := received.Data.(map[string]any)
	if !ok {
		t.Fatalf("Expected object payload, got %T", received.Data)
	}
	if data["sessionId"] != "s-1" || data["totalHands"] != float64(2) {
		t.Errorf("unexpected payload %v", data)
	}
}
