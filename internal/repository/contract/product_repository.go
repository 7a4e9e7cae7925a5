package contract

import (
	"context"

	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ResolveCategories returns categories for the given names, creating
	// any that do not exist yet.
	ResolveCategories(ctx context.Context, names []string) ([]entity.Category, error)
	// ListIds returns product ids ordered by recency, bounded by limit.
	ListIds(ctx context.Context, limit int) ([]uuid.UUID, error)
}
