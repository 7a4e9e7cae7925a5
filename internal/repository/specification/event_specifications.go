package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByEventTypes struct {
	Types []string
}

func (s ByEventTypes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type IN ?", s.Types)
}

// Since filters events with timestamp at or after the given instant
type Since struct {
	After time.Time
}

func (s Since) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("timestamp >= ?", s.After)
}

// WithProduct keeps only events that reference a product
type WithProduct struct{}

func (s WithProduct) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("product_id IS NOT NULL")
}
