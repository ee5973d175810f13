package model

import "github.com/shopspring/decimal"

// Product is the catalog aggregate root. Tags are polymorphic and loaded by the
// repository through tag_taggable; Loaded records which associations are present.
type Product struct {
	CatalogModel
	Name             string          `gorm:"type:varchar(100);not null" json:"name"`
	Slug             string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	SmallDescription string          `gorm:"type:varchar(255)" json:"small_description"`
	Description      string          `gorm:"type:text" json:"description"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Quantity         int             `gorm:"not null;default:0" json:"quantity"`
	CategoryID       *uint           `gorm:"index" json:"category_id"`

	Category   *Category   `gorm:"foreignKey:CategoryID" json:"-"`
	Variants   []Variant   `gorm:"foreignKey:ProductID" json:"-"`
	Discounts  []Discount  `gorm:"foreignKey:ProductID" json:"-"`
	Attributes []Attribute `gorm:"many2many:product_attribute;" json:"-"`
	Media      []Media     `gorm:"foreignKey:ProductID" json:"-"`
	Tags       []Tag       `gorm:"-" json:"-"`

	Loaded Relations `gorm:"-" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// AttributeName resolves a product-level attribute name by id
func (p *Product) AttributeName(attributeID uint) (string, bool) {
	for _, a := range p.Attributes {
		if a.ID == attributeID {
			return a.Name, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is attached at product level
func (p *Product) HasAttribute(attributeID uint) bool {
	_, ok := p.AttributeName(attributeID)
	return ok
}
