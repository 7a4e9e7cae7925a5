package contract

import (
	"context"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProductEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ProductEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ProductEmbedding) error
	DeleteByProductId(ctx context.Context, productId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProductEmbedding, error)
	// FindNearest returns product ids ordered by vector distance to the
	// given embedding, excluding the product the embedding belongs to.
	FindNearest(ctx context.Context, embedding []float32, excludeProductId uuid.UUID, limit int) ([]uuid.UUID, error)
}
