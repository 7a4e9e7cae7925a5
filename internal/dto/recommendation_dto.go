package dto

import "github.com/google/uuid"

type RecommendationsRequest struct {
	Limit     int    `query:"limit"`
	Algorithm string `query:"algorithm"`
}

type RecommendedProduct struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	ImageUrl string    `json:"image_url,omitempty"`
	Score    float64   `json:"score"`
}

type RecommendationsResponse struct {
	Products  []RecommendedProduct `json:"products"`
	Algorithm string               `json:"algorithm"`
}
