package entity

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is an audit row: one product served to one user, with the
// score and algorithm that produced it. Written best-effort after serving.
type Recommendation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ProductId uuid.UUID
	Score     float64
	Algorithm string
	CreatedAt time.Time
}
