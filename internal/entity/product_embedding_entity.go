package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductEmbedding is a dense feature vector for one product, written by
// the offline training pipeline. Serves as a nearest-neighbor source when
// the in-memory similarity matrix has no row for an item.
type ProductEmbedding struct {
	Id             uuid.UUID
	ProductId      uuid.UUID
	EmbeddingValue []float32
	CreatedAt      time.Time
}
