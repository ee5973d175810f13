package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// View selects how a product is shaped for the calling operation
type View int

const (
	// ListView is used by index operations: no description, primary image
	// only, tags joined into one string.
	ListView View = iota
	// DetailView is used by show, create and update responses.
	DetailView
)

func (v View) String() string {
	if v == ListView {
		return "list"
	}
	return "detail"
}

// ProductResource is the API representation of a product. Relations that were
// not loaded are left at their zero value and dropped by omitzero; a loaded but
// empty collection is a non-nil empty slice and renders as [].
type ProductResource struct {
	ID               uint                `json:"id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	SmallDescription string              `json:"small_description"`
	Description      *string             `json:"description"`
	Price            string              `json:"price"`
	Quantity         int                 `json:"quantity"`
	Images           any                 `json:"images"`
	Category         *CategoryRef        `json:"category,omitzero"`
	Tags             any                 `json:"tags,omitzero"`
	Discounts        []DiscountResource  `json:"discounts,omitzero"`
	Attributes       []AttributeResource `json:"attributes,omitzero"`
	Variants         []VariantResource   `json:"varients,omitzero"`
}

type ImageResource struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type TagResource struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type AttributeResource struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type DiscountResource struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Value    decimal.Decimal `json:"value"`
	StartsAt *time.Time      `json:"starts_at"`
	EndsAt   *time.Time      `json:"ends_at"`
	Active   bool            `json:"active"`
}

type VariantResource struct {
	ID       uint             `json:"id"`
	Price    string           `json:"price"`
	Quantity int              `json:"quantity"`
	Options  []OptionResource `json:"options"`
}

type OptionResource struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
