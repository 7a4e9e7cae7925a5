package events

import (
	"time"

	"github.com/google/uuid"
)

// Interaction event types understood by the recommendation pipeline.
const (
	TypeView     = "view"
	TypeCartAdd  = "cart_add"
	TypePurchase = "purchase"
	TypeOther    = "other"
)

// InteractionEvent is a single user/session interaction with a product.
// UserID and ProductID are optional: anonymous sessions have no user, and
// some events (e.g. searches) reference no product.
type InteractionEvent struct {
	Type       string
	UserID     *uuid.UUID
	ProductID  *uuid.UUID
	SessionID  string
	OccurredAt time.Time
	Attributes map[string]interface{}
}

func (e InteractionEvent) EventType() string {
	return e.Type
}

func (e InteractionEvent) Payload() map[string]interface{} {
	data := map[string]interface{}{
		"session_id": e.SessionID,
	}
	if e.UserID != nil {
		data["user_id"] = e.UserID.String()
	}
	if e.ProductID != nil {
		data["product_id"] = e.ProductID.String()
	}
	for k, v := range e.Attributes {
		if _, taken := data[k]; !taken {
			data[k] = v
		}
	}
	return data
}

func (e InteractionEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// RecommendationServedEvent reports the outcome of a recommendation call,
// published so downstream analytics can measure exposure.
type RecommendationServedEvent struct {
	UserID     uuid.UUID
	Algorithm  string
	ProductIDs []uuid.UUID
	OccurredAt time.Time
}

func (e RecommendationServedEvent) EventType() string {
	return "recommendation_served"
}

func (e RecommendationServedEvent) Payload() map[string]interface{} {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = id.String()
	}
	return map[string]interface{}{
		"user_id":     e.UserID.String(),
		"algorithm":   e.Algorithm,
		"product_ids": ids,
	}
}

func (e RecommendationServedEvent) Timestamp() time.Time {
	return e.OccurredAt
}
