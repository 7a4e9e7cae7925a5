package contract

import (
	"context"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}
