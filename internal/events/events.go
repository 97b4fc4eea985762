package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event types published by the back-office.
const (
	StaffRegistered         = "staff.registered"
	StaffRoleChanged        = "staff.role_changed"
	StaffDeleted            = "staff.deleted"
	RegistrationCreated     = "registration.created"
	CourseBulkUpdated       = "course.bulk_updated"
	CourseBulkDeleted       = "course.bulk_deleted"
	RegistrationBulkUpdated = "registration.bulk_updated"
	RegistrationBulkDeleted = "registration.bulk_deleted"
)

// Event is the envelope written to the event topic.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurredAt"`
	ActorID    string                 `json:"actorId,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// EventPublisher publishes domain events. Publishing is best effort: callers
// log a failure and carry on, the state change is already committed.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

var ErrPublisherClosed = errors.New("event publisher closed")

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewID returns a lexicographically sortable event id.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewEvent stamps an id and time on a new event.
func NewEvent(eventType, actorID string, payload map[string]interface{}) Event {
	return Event{
		ID:         NewID(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		ActorID:    actorID,
		Payload:    payload,
	}
}

func (e Event) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.Type, err)
	}
	return data, nil
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
