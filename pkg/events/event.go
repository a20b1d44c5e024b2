package events

import (
	"time"
)

// Event types published by the service.
const (
	MediaCreated   = "media.created"
	MediaUpdated   = "media.updated"
	MediaDeleted   = "media.deleted"
	UserCreated    = "user.created"
	UserLoggedIn   = "user.logged_in"
	HistoryCleared = "history.cleared"
)

// BaseEvent is a basic implementation of the Event interface.
type BaseEvent struct {
	Type  string                 `json:"type"`
	Time  int64                  `json:"timestamp"`
	AggID string                 `json:"aggregate_id"`
	Data  map[string]interface{} `json:"data"`
}

// NewEvent creates a new event.
func NewEvent(eventType string, data map[string]interface{}) *BaseEvent {
	return &BaseEvent{
		Type: eventType,
		Time: time.Now().UnixNano(),
		Data: data,
	}
}

// NewAggregateEvent creates a new event tied to an aggregate ID.
func NewAggregateEvent(eventType, aggregateID string, data map[string]interface{}) *BaseEvent {
	return &BaseEvent{
		Type:  eventType,
		Time:  time.Now().UnixNano(),
		AggID: aggregateID,
		Data:  data,
	}
}

// EventType returns the type of the event.
func (e *BaseEvent) EventType() string {
	return e.Type
}

// Timestamp returns when the event occurred.
func (e *BaseEvent) Timestamp() int64 {
	return e.Time
}

// AggregateID returns the ID of the entity that produced the event.
func (e *BaseEvent) AggregateID() string {
	return e.AggID
}
