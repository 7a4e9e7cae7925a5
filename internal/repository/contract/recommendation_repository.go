package contract

import (
	"context"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/repository/specification"
)

type RecommendationRepository interface {
	CreateBulk(ctx context.Context, recs []entity.Recommendation) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recommendation, error)
}
