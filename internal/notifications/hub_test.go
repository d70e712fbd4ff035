package notifications

import (
	"testing"

	"github.com/google/uuid"
)

// TestHubPublishSubscribe checks delivery to a subscribed user.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	hub.Publish(userID, Event{Type: "simulation_completed"})

	select {
	case event := <-ch:
		if event.Type != "simulation_completed" {
			t.Fatalf("unexpected event type %s", event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

// TestHubPublishOtherUser checks that events never cross users.
func TestHubPublishOtherUser(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe(uuid.New())
	defer unsubscribe()

	hub.Publish(uuid.New(), Event{Type: "debt_updated"})

	select {
	case event := <-ch:
		t.Fatalf("unexpected event %s", event.Type)
	default:
	}
}

// TestHubUnsubscribe checks that unsubscribe closes the channel and drops the
// subscriber.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	unsubscribe()

	if _, open := <-ch; open {
		t.Fatal("expected channel to be closed")
	}

	// Publishing after unsubscribe must not panic.
	hub.Publish(userID, Event{Type: "debt_updated"})
}
