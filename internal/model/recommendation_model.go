package model

import (
	"time"

	"github.com/google/uuid"
)

type Recommendation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductId uuid.UUID `gorm:"type:uuid;not null"`
	Score     float64   `gorm:"type:numeric(10,6);not null"`
	Algorithm string    `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
