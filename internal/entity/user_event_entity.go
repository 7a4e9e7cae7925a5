package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserEvent is one recorded interaction. UserId is nil for anonymous
// sessions; ProductId is nil for events that reference no product.
type UserEvent struct {
	Id         uuid.UUID
	UserId     *uuid.UUID
	SessionId  string
	EventType  string
	ProductId  *uuid.UUID
	Timestamp  time.Time
	Attributes map[string]interface{}
}
