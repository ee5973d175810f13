package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is placed at checkout; it snapshots names and prices of what was bought
type Order struct {
	CatalogModel
	UserID        *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Email         string          `gorm:"type:varchar(255);not null" json:"email"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_total"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Addresses     []OrderAddress  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	VariantID *uint           `json:"variant_id,omitempty"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type AddressType string

const (
	AddressBilling  AddressType = "billing"
	AddressShipping AddressType = "shipping"
)

type OrderAddress struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"not null;index" json:"order_id"`
	Type       AddressType `gorm:"type:varchar(20);not null" json:"type"`
	Name       string      `gorm:"type:varchar(100);not null" json:"name"`
	Line1      string      `gorm:"type:varchar(255);not null" json:"line1"`
	Line2      string      `gorm:"type:varchar(255)" json:"line2"`
	City       string      `gorm:"type:varchar(100);not null" json:"city"`
	State      string      `gorm:"type:varchar(100)" json:"state"`
	PostalCode string      `gorm:"type:varchar(20)" json:"postal_code"`
	Country    string      `gorm:"type:varchar(2);not null" json:"country"`
	Phone      string      `gorm:"type:varchar(30)" json:"phone"`
}

func (OrderAddress) TableName() string {
	return "order_addresses"
}
