package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is a price reduction owned by one product, optionally bounded in time
type Discount struct {
	CatalogModel
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Type      DiscountType    `gorm:"type:varchar(20);not null" json:"type"`
	Value     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	StartsAt  *time.Time      `json:"starts_at"`
	EndsAt    *time.Time      `json:"ends_at"`
}

func (Discount) TableName() string {
	return "discounts"
}

// ActiveAt reports whether now falls inside the optional window
func (d Discount) ActiveAt(now time.Time) bool {
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && !now.Before(*d.EndsAt) {
		return false
	}
	return true
}

// Apply returns price after the discount, never below zero
func (d Discount) Apply(price decimal.Decimal) decimal.Decimal {
	var discounted decimal.Decimal
	switch d.Type {
	case DiscountPercentage:
		hundred := decimal.NewFromInt(100)
		discounted = price.Sub(price.Mul(d.Value).Div(hundred)).Round(2)
	case DiscountFixed:
		discounted = price.Sub(d.Value)
	default:
		return price
	}
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}

// BestPrice applies the active discount that yields the lowest price
func BestPrice(price decimal.Decimal, discounts []Discount, now time.Time) decimal.Decimal {
	best := price
	for _, d := range discounts {
		if !d.ActiveAt(now) {
			continue
		}
		if p := d.Apply(price); p.LessThan(best) {
			best = p
		}
	}
	return best
}
