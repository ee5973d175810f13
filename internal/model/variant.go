package model

import "github.com/shopspring/decimal"

// Variant is a purchasable configuration of a product with its own price and stock
type Variant struct {
	CatalogModel
	ProductID       uint               `gorm:"not null;index" json:"product_id"`
	Price           decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Quantity        int                `gorm:"not null;default:0" json:"quantity"`
	AttributeValues []VariantAttribute `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"options"`
}

func (Variant) TableName() string {
	return "variants"
}

// VariantAttribute stores the value a variant takes for one attribute.
// A (variant, attribute) pair has exactly one value.
type VariantAttribute struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	VariantID   uint   `gorm:"not null;uniqueIndex:idx_variant_attribute" json:"variant_id"`
	AttributeID uint   `gorm:"not null;uniqueIndex:idx_variant_attribute" json:"attribute_id"`
	Value       string `gorm:"type:varchar(100);not null" json:"value"`
}

func (VariantAttribute) TableName() string {
	return "variant_attribute"
}
