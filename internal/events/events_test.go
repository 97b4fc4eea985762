package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

func TestKafkaPublisher_PublishesEnvelope(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "backoffice.events")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	publisher := newKafkaPublisher(pubSub, "backoffice.events", slog.Default())
	event := NewEvent(CourseBulkDeleted, "admin-1", map[string]interface{}{"count": 2})
	if err := publisher.Publish(ctx, event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != event.ID {
			t.Errorf("message id = %s, want %s", msg.UUID, event.ID)
		}
		if got := msg.Metadata.Get("event_type"); got != CourseBulkDeleted {
			t.Errorf("event_type metadata = %q", got)
		}
		var decoded Event
		if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if decoded.ActorID != "admin-1" || decoded.Payload["count"] != float64(2) {
			t.Errorf("unexpected payload %+v", decoded)
		}
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestKafkaPublisher_ClosedRejects(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := newKafkaPublisher(pubSub, "t", slog.Default())

	if err := publisher.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	err := publisher.Publish(context.Background(), NewEvent(StaffDeleted, "", nil))
	if !errors.Is(err, ErrPublisherClosed) {
		t.Fatalf("expected ErrPublisherClosed, got %v", err)
	}
}

func TestNewID_Monotonic(t *testing.T) {
	prev := NewID()
	for i := 0; i < 100; i++ {
		next := NewID()
		if next <= prev {
			t.Fatalf("ids not increasing: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestMockEventPublisher(t *testing.T) {
	m := NewMockEventPublisher(nil)
	ctx := context.Background()

	_ = m.Publish(ctx, NewEvent(StaffRegistered, "", nil))
	_ = m.Publish(ctx, NewEvent(StaffDeleted, "a", nil))

	if got := len(m.GetPublishedEvents()); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
	if got := len(m.EventsOfType(StaffDeleted)); got != 1 {
		t.Fatalf("expected 1 delete event, got %d", got)
	}

	m.FailWith(errors.New("broker down"))
	if err := m.Publish(ctx, NewEvent(StaffDeleted, "a", nil)); err == nil {
		t.Fatal("expected failure")
	}

	m.ClearEvents()
	if len(m.GetPublishedEvents()) != 0 {
		t.Fatal("expected no events after clear")
	}
}
