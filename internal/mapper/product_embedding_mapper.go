package mapper

import (
	"github.com/pgvector/pgvector-go"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/model"
)

type ProductEmbeddingMapper struct{}

func NewProductEmbeddingMapper() *ProductEmbeddingMapper {
	return &ProductEmbeddingMapper{}
}

func (m *ProductEmbeddingMapper) ToEntity(e *model.ProductEmbedding) *entity.ProductEmbedding {
	if e == nil {
		return nil
	}
	return &entity.ProductEmbedding{
		Id:             e.Id,
		ProductId:      e.ProductId,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ProductEmbeddingMapper) ToModel(e *entity.ProductEmbedding) *model.ProductEmbedding {
	if e == nil {
		return nil
	}
	return &model.ProductEmbedding{
		Id:             e.Id,
		ProductId:      e.ProductId,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}
