package contract

import (
	"context"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/repository/specification"
)

type UserEventRepository interface {
	Create(ctx context.Context, event *entity.UserEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
