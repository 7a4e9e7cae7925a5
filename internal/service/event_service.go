package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ecommerce-recs-be/internal/dto"
	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/pkg/logger"
	"ecommerce-recs-be/internal/repository/contract"
	"ecommerce-recs-be/pkg/events"
	"ecommerce-recs-be/pkg/stream"
)

type IEventService interface {
	// Track persists the interaction and forwards it to the event stream.
	// Stream delivery is best effort: a broker outage never fails the call,
	// the response only reports Delivered=false.
	Track(ctx context.Context, userId *uuid.UUID, req *dto.TrackEventRequest) (*dto.TrackEventResponse, error)
}

type eventService struct {
	eventRepository contract.UserEventRepository
	publisher       stream.Publisher
	log             logger.ILogger
}

func NewEventService(
	eventRepository contract.UserEventRepository,
	publisher stream.Publisher,
	log logger.ILogger,
) IEventService {
	return &eventService{
		eventRepository: eventRepository,
		publisher:       publisher,
		log:             log,
	}
}

func (c *eventService) Track(ctx context.Context, userId *uuid.UUID, req *dto.TrackEventRequest) (*dto.TrackEventResponse, error) {
	now := time.Now()
	event := entity.UserEvent{
		Id:         uuid.New(),
		UserId:     userId,
		SessionId:  req.SessionId,
		EventType:  req.EventType,
		ProductId:  req.ProductId,
		Timestamp:  now,
		Attributes: req.Attributes,
	}
	if err := c.eventRepository.Create(ctx, &event); err != nil {
		return nil, err
	}

	delivered := true
	err := c.publisher.Publish(ctx, events.InteractionEvent{
		Type:       req.EventType,
		UserID:     userId,
		ProductID:  req.ProductId,
		SessionID:  req.SessionId,
		OccurredAt: now,
		Attributes: req.Attributes,
	})
	if err != nil {
		delivered = false
		c.log.Warn("event_service", "Failed to publish interaction event", map[string]interface{}{
			"event_id": event.Id.String(),
			"error":    err.Error(),
		})
	}

	return &dto.TrackEventResponse{EventId: event.Id, Delivered: delivered}, nil
}
