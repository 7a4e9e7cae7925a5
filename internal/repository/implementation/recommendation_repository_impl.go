package implementation

import (
	"context"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/mapper"
	"ecommerce-recs-be/internal/model"
	"ecommerce-recs-be/internal/repository/contract"
	"ecommerce-recs-be/internal/repository/specification"

	"gorm.io/gorm"
)

type RecommendationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecommendationMapper
}

func NewRecommendationRepository(db *gorm.DB) contract.RecommendationRepository {
	return &RecommendationRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecommendationMapper(),
	}
}

func (r *RecommendationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RecommendationRepositoryImpl) CreateBulk(ctx context.Context, recs []entity.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	models := r.mapper.ToModels(recs)
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *RecommendationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recommendation, error) {
	var models []*model.Recommendation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Recommendation, len(models))
	for i, m := range models {
		entities[i] = &entity.Recommendation{
			Id:        m.Id,
			UserId:    m.UserId,
			ProductId: m.ProductId,
			Score:     m.Score,
			Algorithm: m.Algorithm,
			CreatedAt: m.CreatedAt,
		}
	}
	return entities, nil
}
