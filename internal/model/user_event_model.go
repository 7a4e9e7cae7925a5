package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserEvent struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     *uuid.UUID     `gorm:"type:uuid;index"`
	SessionId  string         `gorm:"type:varchar(128);index;not null"`
	EventType  string         `gorm:"type:varchar(32);index;not null"`
	ProductId  *uuid.UUID     `gorm:"type:uuid;index"`
	Timestamp  time.Time      `gorm:"index;not null"`
	Attributes datatypes.JSON `gorm:"type:jsonb"`
}

func (UserEvent) TableName() string {
	return "user_events"
}
