package model

import "github.com/google/uuid"

// CartItem is one line of a signed-in customer's cart
type CartItem struct {
	CatalogModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_line" json:"product_id"`
	VariantID *uint     `gorm:"uniqueIndex:idx_cart_line" json:"variant_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
