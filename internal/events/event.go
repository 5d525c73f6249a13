// Package events is an in-process pub/sub bus for catalog activity.
package events

import "time"

// Event types.
const (
	TypeSyncStarted  = "sync.started"
	TypeSyncFinished = "sync.finished"
	TypeContentAdded = "content.added"
)

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{Type: eventType, Timestamp: time.Now()}
}
