package mapper

import (
	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/model"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}
	categories := make([]entity.Category, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, entity.Category{
			Id:          c.Id,
			Name:        c.Name,
			Description: c.Description,
		})
	}
	return &entity.Product{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageUrl:    p.ImageUrl,
		Stock:       p.Stock,
		Categories:  categories,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ProductMapper) ToEntities(products []model.Product) []entity.Product {
	result := make([]entity.Product, 0, len(products))
	for i := range products {
		result = append(result, *m.ToEntity(&products[i]))
	}
	return result
}

func (m *ProductMapper) ToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}
	categories := make([]model.Category, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, model.Category{
			Id:          c.Id,
			Name:        c.Name,
			Description: c.Description,
		})
	}
	return &model.Product{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageUrl:    p.ImageUrl,
		Stock:       p.Stock,
		Categories:  categories,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
