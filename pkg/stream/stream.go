// Package stream is the narrow pub/sub contract between this service and
// the event transport. The serving and ingestion code only sees Source and
// Publisher; whether messages ride NATS JetStream or an in-process channel
// is a wiring decision.
package stream

import (
	"context"
	"time"

	"ecommerce-recs-be/pkg/events"
)

// Message is one inbound delivery. Consumers must Ack or Nak every message;
// delivery is at-least-once, so handlers tolerate duplicates.
type Message struct {
	// ID identifies the delivery for idempotency guards. Stable across
	// redeliveries of the same message.
	ID      string
	Payload []byte

	AckFn func()
	NakFn func()
}

func (m *Message) Ack() {
	if m.AckFn != nil {
		m.AckFn()
	}
}

func (m *Message) Nak() {
	if m.NakFn != nil {
		m.NakFn()
	}
}

// Source yields bounded batches from the inbound stream. Fetch returns
// after wait even when no messages arrived, so callers can re-check their
// stop signal between batches.
type Source interface {
	Fetch(ctx context.Context, max int, wait time.Duration) ([]*Message, error)
	Close() error
}

// Publisher emits events to the stream. An error means "unsent": callers
// log and move on, since event emission is a side channel to the request
// path and must never take it down.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
	Close() error
}
