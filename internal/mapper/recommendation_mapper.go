package mapper

import (
	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/model"
)

type RecommendationMapper struct{}

func NewRecommendationMapper() *RecommendationMapper {
	return &RecommendationMapper{}
}

func (m *RecommendationMapper) ToModel(r *entity.Recommendation) *model.Recommendation {
	if r == nil {
		return nil
	}
	return &model.Recommendation{
		Id:        r.Id,
		UserId:    r.UserId,
		ProductId: r.ProductId,
		Score:     r.Score,
		Algorithm: r.Algorithm,
		CreatedAt: r.CreatedAt,
	}
}

func (m *RecommendationMapper) ToModels(recs []entity.Recommendation) []model.Recommendation {
	result := make([]model.Recommendation, 0, len(recs))
	for i := range recs {
		result = append(result, *m.ToModel(&recs[i]))
	}
	return result
}
