package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ProductEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductId      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(64)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (ProductEmbedding) TableName() string {
	return "product_embeddings"
}
