package catalog

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go-storefront/internal/media"
	"go-storefront/internal/model"
)

// ErrInconsistentVariant means a variant option points at an attribute the
// product does not carry. It is a data problem, never a client error.
var ErrInconsistentVariant = errors.New("variant option references an attribute missing from the product")

// Shaper turns persisted products into API resources
type Shaper struct {
	URLs  media.URLResolver
	Money Formatter
	Now   func() time.Time
}

func NewShaper(urls media.URLResolver, money Formatter) *Shaper {
	return &Shaper{URLs: urls, Money: money, Now: time.Now}
}

func (s *Shaper) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// ShapeProducts shapes every product, failing on the first inconsistent one
func (s *Shaper) ShapeProducts(view View, products []model.Product) ([]ProductResource, error) {
	out := make([]ProductResource, 0, len(products))
	for i := range products {
		res, err := s.ShapeProduct(view, &products[i])
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (s *Shaper) ShapeProduct(view View, p *model.Product) (ProductResource, error) {
	res := ProductResource{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		SmallDescription: p.SmallDescription,
		Price:            s.Money.Format(p.Price),
		Quantity:         p.Quantity,
		Images:           s.images(view, p.Media),
	}

	if view != ListView {
		description := p.Description
		res.Description = &description
	}

	if p.Loaded.Has(model.RelCategory) && p.Category != nil {
		res.Category = &CategoryRef{ID: p.Category.ID, Name: p.Category.Name}
	}

	if p.Loaded.Has(model.RelTags) {
		res.Tags = shapeTags(view, p.Tags)
	}

	if p.Loaded.Has(model.RelDiscounts) {
		res.Discounts = s.ShapeDiscounts(p.Discounts)
	}

	if p.Loaded.Has(model.RelAttributes) {
		res.Attributes = make([]AttributeResource, 0, len(p.Attributes))
		for _, a := range p.Attributes {
			res.Attributes = append(res.Attributes, AttributeResource{ID: a.ID, Name: a.Name})
		}
	}

	if p.Loaded.Has(model.RelVariants) {
		variants, err := s.variants(p)
		if err != nil {
			return ProductResource{}, err
		}
		res.Variants = variants
	}

	return res, nil
}

// images returns nil when there is no media so the field renders as null
func (s *Shaper) images(view View, files []model.Media) any {
	if len(files) == 0 {
		return nil
	}

	ordered := slices.Clone(files)
	slices.SortStableFunc(ordered, func(a, b model.Media) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if view == ListView {
		return s.image(ordered[0])
	}

	images := make([]ImageResource, 0, len(ordered))
	for _, m := range ordered {
		images = append(images, s.image(m))
	}
	return images
}

func (s *Shaper) image(m model.Media) ImageResource {
	url := m.Path
	if s.URLs != nil {
		url = s.URLs.URL(m)
	}
	return ImageResource{ID: m.ID, URL: url}
}

func shapeTags(view View, tags []model.Tag) any {
	if view == ListView {
		names := make([]string, 0, len(tags))
		for _, t := range tags {
			names = append(names, t.Name)
		}
		return strings.Join(names, ",")
	}

	out := make([]TagResource, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagResource{ID: t.ID, Name: t.Name})
	}
	return out
}

func (s *Shaper) ShapeDiscounts(discounts []model.Discount) []DiscountResource {
	now := s.now()
	out := make([]DiscountResource, 0, len(discounts))
	for _, d := range discounts {
		out = append(out, ShapeDiscount(d, now))
	}
	return out
}

func ShapeDiscount(d model.Discount, now time.Time) DiscountResource {
	return DiscountResource{
		ID:       d.ID,
		Name:     d.Name,
		Type:     string(d.Type),
		Value:    d.Value,
		StartsAt: d.StartsAt,
		EndsAt:   d.EndsAt,
		Active:   d.ActiveAt(now),
	}
}

// variants resolves each option's display name from the product's own loaded
// attributes.
func (s *Shaper) variants(p *model.Product) ([]VariantResource, error) {
	out := make([]VariantResource, 0, len(p.Variants))
	for _, v := range p.Variants {
		options := make([]OptionResource, 0, len(v.AttributeValues))
		for _, av := range v.AttributeValues {
			if !p.Loaded.Has(model.RelAttributes) {
				return nil, fmt.Errorf("product %d variant %d: %w", p.ID, v.ID, ErrInconsistentVariant)
			}
			name, ok := p.AttributeName(av.AttributeID)
			if !ok {
				return nil, fmt.Errorf("product %d variant %d attribute %d: %w", p.ID, v.ID, av.AttributeID, ErrInconsistentVariant)
			}
			options = append(options, OptionResource{Name: name, Value: av.Value})
		}
		out = append(out, VariantResource{
			ID:       v.ID,
			Price:    s.Money.Format(v.Price),
			Quantity: v.Quantity,
			Options:  options,
		})
	}
	return out, nil
}
