package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	ImageUrl    string   `json:"image_url" validate:"omitempty,url"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Categories  []string `json:"categories" validate:"dive,max=100"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	ImageUrl    string   `json:"image_url" validate:"omitempty,url"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Categories  []string `json:"categories" validate:"dive,max=100"`
}

type ListProductsRequest struct {
	Skip     int    `query:"skip"`
	Limit    int    `query:"limit"`
	Category string `query:"category"`
}

type CategoryResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

type ProductResponse struct {
	Id          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Price       float64            `json:"price"`
	ImageUrl    string             `json:"image_url,omitempty"`
	Stock       int                `json:"stock"`
	Categories  []CategoryResponse `json:"categories"`
	CreatedAt   time.Time          `json:"created_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}
