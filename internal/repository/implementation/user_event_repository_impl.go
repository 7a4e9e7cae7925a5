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

type UserEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserEventMapper
}

func NewUserEventRepository(db *gorm.DB) contract.UserEventRepository {
	return &UserEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserEventMapper(),
	}
}

func (r *UserEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserEventRepositoryImpl) Create(ctx context.Context, event *entity.UserEvent) error {
	m, err := r.mapper.ToModel(event)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserEvent, error) {
	var models []*model.UserEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UserEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *UserEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.UserEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
