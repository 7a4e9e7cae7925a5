package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/pkg/logger"
	"ecommerce-recs-be/internal/repository/contract"
	"ecommerce-recs-be/pkg/events"
	"ecommerce-recs-be/pkg/recommender"
	"ecommerce-recs-be/pkg/stream"
)

const (
	ingestBatchSize = 16
	ingestFetchWait = 2 * time.Second
	ingestRetryWait = time.Second

	// Message ids are remembered briefly to absorb broker redeliveries.
	ingestDedupTTL = 10 * time.Minute
)

// interactionWeights maps event types to the nudge applied to the models.
var interactionWeights = map[string]float64{
	events.TypeView:     1,
	events.TypeCartAdd:  2,
	events.TypePurchase: 3,
}

type IIngestService interface {
	// Run consumes the event stream in bounded batches until the context is
	// cancelled or Stop is called. One bad message never stops the loop.
	Run(ctx context.Context) error
	Stop()
}

type ingestService struct {
	source          stream.Source
	eventRepository contract.UserEventRepository
	affinity        *recommender.AffinityModel
	similarity      *recommender.SimilarityModel
	log             logger.ILogger

	dedup    *gocache.Cache
	stop     chan struct{}
	stopOnce sync.Once
}

func NewIngestService(
	source stream.Source,
	eventRepository contract.UserEventRepository,
	affinity *recommender.AffinityModel,
	similarity *recommender.SimilarityModel,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		source:          source,
		eventRepository: eventRepository,
		affinity:        affinity,
		similarity:      similarity,
		log:             log,
		dedup:           gocache.New(ingestDedupTTL, ingestDedupTTL),
		stop:            make(chan struct{}),
	}
}

func (c *ingestService) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *ingestService) Run(ctx context.Context) error {
	c.log.Info("ingest_service", "Event ingestion started", nil)
	defer c.log.Info("ingest_service", "Event ingestion stopped", nil)

	for {
		if c.stopped(ctx) {
			return nil
		}

		messages, err := c.source.Fetch(ctx, ingestBatchSize, ingestFetchWait)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warn("ingest_service", "Fetch failed", map[string]interface{}{
				"error": err.Error(),
			})
			c.sleep(ctx, ingestRetryWait)
			continue
		}

		for _, msg := range messages {
			if c.stopped(ctx) {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

// handle processes one message. Malformed payloads are logged and discarded;
// only a storage failure leaves the message on the stream for redelivery.
func (c *ingestService) handle(ctx context.Context, msg *stream.Message) {
	if msg.ID != "" {
		if _, seen := c.dedup.Get(msg.ID); seen {
			msg.Ack()
			return
		}
	}

	var envelope events.Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		c.log.Error("ingest_service", "Discarding malformed message", map[string]interface{}{
			"message_id": msg.ID,
			"error":      err.Error(),
		})
		c.remember(msg.ID)
		msg.Ack()
		return
	}

	event := c.toUserEvent(&envelope)
	if weight, qualifying := interactionWeights[event.EventType]; qualifying && event.UserId != nil && event.ProductId != nil {
		c.affinity.RecordInteraction(*event.UserId, *event.ProductId, weight)
		c.similarity.RecordInteraction(*event.ProductId, weight)
	}

	if err := c.eventRepository.Create(ctx, event); err != nil {
		c.log.Error("ingest_service", "Failed to persist event, leaving on stream", map[string]interface{}{
			"message_id": msg.ID,
			"event_type": event.EventType,
			"error":      err.Error(),
		})
		msg.Nak()
		return
	}

	c.remember(msg.ID)
	msg.Ack()
}

func (c *ingestService) toUserEvent(envelope *events.Envelope) *entity.UserEvent {
	occurredAt, err := time.Parse(time.RFC3339, envelope.Timestamp)
	if err != nil {
		occurredAt = time.Now()
	}

	event := &entity.UserEvent{
		Id:         uuid.New(),
		EventType:  envelope.EventType,
		Timestamp:  occurredAt,
		Attributes: map[string]interface{}{},
	}
	for k, v := range envelope.Data {
		switch k {
		case "user_id":
			if id, ok := parseUUIDField(v); ok {
				event.UserId = &id
			}
		case "product_id":
			if id, ok := parseUUIDField(v); ok {
				event.ProductId = &id
			}
		case "session_id":
			if s, ok := v.(string); ok {
				event.SessionId = s
			}
		default:
			event.Attributes[k] = v
		}
	}
	return event
}

func parseUUIDField(v interface{}) (uuid.UUID, bool) {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (c *ingestService) remember(id string) {
	if id != "" {
		c.dedup.SetDefault(id, struct{}{})
	}
}

func (c *ingestService) stopped(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-c.stop:
		return true
	default:
		return false
	}
}

func (c *ingestService) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-c.stop:
	case <-timer.C:
	}
}
