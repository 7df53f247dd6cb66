package chat

import "testing"

func TestHubDeliversOnlyToSubscribedSession(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe("a")
	defer cancelA()
	b, cancelB := hub.Subscribe("b")
	defer cancelB()

	hub.Publish(Event{Type: EventSessionCleared, SessionID: "a"})

	select {
	case ev := <-a:
		if ev.SessionID != "a" || ev.Timestamp == 0 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected event for session a")
	}

	select {
	case ev := <-b:
		t.Fatalf("session b received foreign event: %+v", ev)
	default:
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("s")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(Event{Type: EventSessionCleared, SessionID: "s"})
	}
	if len(ch) != subscriberBuffer {
		t.Fatalf("expected buffer to hold %d events, got %d", subscriberBuffer, len(ch))
	}
}

func TestHubCancelUnsubscribes(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("s")
	if hub.Subscribers("s") != 1 {
		t.Fatal("expected one subscriber")
	}

	cancel()
	cancel()

	if hub.Subscribers("s") != 0 {
		t.Fatal("expected subscriber to be removed")
	}
	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}

	hub.Publish(Event{Type: EventSessionCleared, SessionID: "s"})
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var hub *Hub
	hub.Publish(Event{Type: EventSessionCleared, SessionID: "s"})
}
