package model

// Category groups products. Name and slug are unique.
type Category struct {
	CatalogModel
	Name     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
	Slug     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"slug"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}
