package specification

import "gorm.io/gorm"

// ByCategory filters products belonging to a named category
type ByCategory struct {
	Name string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN product_category ON product_category.product_id = products.id").
		Joins("JOIN categories ON categories.id = product_category.category_id").
		Where("categories.name = ?", s.Name)
}
