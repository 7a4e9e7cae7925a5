package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"ecommerce-recs-be/internal/pkg/logger"
	"ecommerce-recs-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const publishTimeout = 10 * time.Second

// streamNameFor maps a topic like "user-events" to a JetStream stream name.
func streamNameFor(topic string) string {
	return strings.ToUpper(strings.ReplaceAll(topic, "-", "_"))
}

// NatsPublisher sends events to a JetStream topic. The connection is
// established lazily on first publish and re-attempted on the next call
// whenever the channel is found disconnected; reconnect attempts are
// mutually exclusive per instance.
type NatsPublisher struct {
	url   string
	topic string
	log   logger.ILogger

	mu sync.Mutex
	nc *nats.Conn
	js jetstream.JetStream
}

func NewNatsPublisher(url, topic string, log logger.ILogger) *NatsPublisher {
	return &NatsPublisher{url: url, topic: topic, log: log}
}

// ensureConnected dials NATS and makes sure the stream exists. Caller holds mu.
func (p *NatsPublisher) ensureConnected(ctx context.Context) error {
	if p.nc != nil && p.nc.IsConnected() {
		return nil
	}
	if p.nc != nil {
		p.nc.Close()
		p.nc = nil
		p.js = nil
	}

	nc, err := nats.Connect(p.url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(streamCtx, jetstream.StreamConfig{
		Name:     streamNameFor(p.topic),
		Subjects: []string{p.topic + ".>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		p.log.Warn("stream", "failed to ensure stream, it may already exist", map[string]interface{}{
			"stream": streamNameFor(p.topic), "error": err.Error(),
		})
	}

	p.nc = nc
	p.js = js
	return nil
}

// Probe dials the broker once so callers can pick a transport at boot.
// With retry-on-failed-connect the dial itself rarely errors, so the live
// connection state is what decides.
func (p *NatsPublisher) Probe(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureConnected(ctx); err != nil {
		return err
	}
	if !p.nc.IsConnected() {
		return fmt.Errorf("NATS connection to %s not established", p.url)
	}
	return nil
}

// Publish sends one event and waits (bounded) for broker durability
// acknowledgment. Failures are logged and returned, never raised further.
func (p *NatsPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(ctx); err != nil {
		p.log.Error("stream", "cannot publish event: not connected", map[string]interface{}{
			"event_type": event.EventType(), "error": err.Error(),
		})
		return err
	}

	data, err := json.Marshal(events.NewEnvelope(event))
	if err != nil {
		p.log.Error("stream", "failed to marshal event payload", map[string]interface{}{
			"event_type": event.EventType(), "error": err.Error(),
		})
		return err
	}

	subject := fmt.Sprintf("%s.%s", p.topic, event.EventType())

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if _, err := p.js.Publish(pubCtx, subject, data); err != nil {
		p.log.Error("stream", "failed to publish event", map[string]interface{}{
			"subject": subject, "error": err.Error(),
		})
		return err
	}
	return nil
}

func (p *NatsPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nc != nil {
		p.nc.Close()
		p.nc = nil
		p.js = nil
	}
	return nil
}

// NatsSource consumes the inbound topic through a durable consumer, so the
// group picks up where it left off and every message is delivered at least
// once. Fetch pulls bounded batches instead of holding an unbounded
// subscription, keeping cancellation latency within one wait interval.
type NatsSource struct {
	url     string
	topic   string
	durable string
	log     logger.ILogger

	mu       sync.Mutex
	nc       *nats.Conn
	consumer jetstream.Consumer
}

func NewNatsSource(url, topic, durable string, log logger.ILogger) *NatsSource {
	return &NatsSource{url: url, topic: topic, durable: durable, log: log}
}

// ensureConsumer dials NATS and binds the durable consumer. Caller holds mu.
func (s *NatsSource) ensureConsumer(ctx context.Context) error {
	if s.nc != nil && s.nc.IsConnected() && s.consumer != nil {
		return nil
	}
	if s.nc != nil {
		s.nc.Close()
		s.nc = nil
		s.consumer = nil
	}

	nc, err := nats.Connect(s.url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, streamNameFor(s.topic), jetstream.ConsumerConfig{
		Durable:       s.durable,
		FilterSubject: s.topic + ".>",
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	s.nc = nc
	s.consumer = consumer
	return nil
}

func (s *NatsSource) Fetch(ctx context.Context, max int, wait time.Duration) ([]*Message, error) {
	s.mu.Lock()
	if err := s.ensureConsumer(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	consumer := s.consumer
	s.mu.Unlock()

	batch, err := consumer.Fetch(max, jetstream.FetchMaxWait(wait))
	if err != nil {
		return nil, err
	}

	var msgs []*Message
	for msg := range batch.Messages() {
		msgs = append(msgs, wrapJetStreamMsg(msg))
	}
	if err := batch.Error(); err != nil {
		return msgs, err
	}
	return msgs, nil
}

func wrapJetStreamMsg(msg jetstream.Msg) *Message {
	id := msg.Headers().Get(nats.MsgIdHdr)
	if id == "" {
		if meta, err := msg.Metadata(); err == nil {
			id = fmt.Sprintf("%d", meta.Sequence.Stream)
		}
	}
	return &Message{
		ID:      id,
		Payload: msg.Data(),
		AckFn:   func() { _ = msg.Ack() },
		NakFn:   func() { _ = msg.Nak() },
	}
}

func (s *NatsSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nc != nil {
		s.nc.Close()
		s.nc = nil
		s.consumer = nil
	}
	return nil
}
