package model

// Attribute is a customization dimension such as "Color" or "Size"
type Attribute struct {
	CatalogModel
	Name string `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
}

func (Attribute) TableName() string {
	return "attributes"
}

// ProductAttribute links products to the attributes they expose
type ProductAttribute struct {
	ProductID   uint `gorm:"primaryKey"`
	AttributeID uint `gorm:"primaryKey"`
}

func (ProductAttribute) TableName() string {
	return "product_attribute"
}
