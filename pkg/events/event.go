package events

import "time"

// Event defines the contract for everything published on the event stream.
type Event interface {
	// EventType returns the unique code for this event (e.g., "view", "purchase").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Envelope is the wire shape carried on the stream:
// {event_type, data, timestamp}. Both the publisher and the ingestion
// worker speak this format; it is the only coupling between them.
type Envelope struct {
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp string                 `json:"timestamp"`
}

// NewEnvelope wraps an Event for transport.
func NewEnvelope(e Event) Envelope {
	return Envelope{
		EventType: e.EventType(),
		Data:      e.Payload(),
		Timestamp: e.Timestamp().Format(time.RFC3339),
	}
}

// BaseEvent is a generic implementation for events reconstructed from the
// wire, where only the type and payload bag are known.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
