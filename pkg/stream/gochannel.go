package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"ecommerce-recs-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelBus carries the event stream over an in-process watermill
// channel. It backs local runs and tests, and is the fallback transport
// when NATS is unreachable at boot: events still flow to the ingestion
// worker inside the same process, they just do not survive a restart.
type GoChannelBus struct {
	pubSub *gochannel.GoChannel
	topic  string

	subOnce sync.Once
	subErr  error
	msgs    <-chan *message.Message
}

func NewGoChannelBus(topic string) *GoChannelBus {
	return &GoChannelBus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 256},
			watermill.NopLogger{},
		),
		topic: topic,
	}
}

func (b *GoChannelBus) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(events.NewEnvelope(event))
	if err != nil {
		return err
	}
	return b.pubSub.Publish(b.topic, message.NewMessage(watermill.NewUUID(), data))
}

func (b *GoChannelBus) Fetch(ctx context.Context, max int, wait time.Duration) ([]*Message, error) {
	b.subOnce.Do(func() {
		// Lifetime of the subscription is the lifetime of the bus, not of
		// one Fetch call.
		b.msgs, b.subErr = b.pubSub.Subscribe(context.Background(), b.topic)
	})
	if b.subErr != nil {
		return nil, b.subErr
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	var out []*Message
	for len(out) < max {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-timer.C:
			return out, nil
		case msg, ok := <-b.msgs:
			if !ok {
				return out, nil
			}
			// The channel transport withholds the next message until the
			// previous one is acked, so batching requires acking on receipt.
			// Redelivery is a broker feature this fallback does not have.
			msg.Ack()
			out = append(out, &Message{
				ID:      msg.UUID,
				Payload: msg.Payload,
				AckFn:   func() {},
				NakFn:   func() {},
			})
		}
	}
	return out, nil
}

func (b *GoChannelBus) Close() error {
	return b.pubSub.Close()
}
