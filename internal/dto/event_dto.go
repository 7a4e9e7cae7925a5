package dto

import "github.com/google/uuid"

type TrackEventRequest struct {
	EventType  string                 `json:"event_type" validate:"required,oneof=view cart_add purchase other"`
	SessionId  string                 `json:"session_id" validate:"required,max=128"`
	ProductId  *uuid.UUID             `json:"product_id"`
	Attributes map[string]interface{} `json:"attributes"`
}

type TrackEventResponse struct {
	EventId   uuid.UUID `json:"event_id"`
	Delivered bool      `json:"delivered"`
}
