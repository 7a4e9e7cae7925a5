package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id          uuid.UUID
	Name        string
	Description string
	Price       float64
	ImageUrl    string
	Stock       int
	Categories  []Category
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type Category struct {
	Id          uuid.UUID
	Name        string
	Description string
}
