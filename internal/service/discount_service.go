package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Name      string          `json:"name" validate:"required,min=2,max=100"`
	Type      string          `json:"type" validate:"required,oneof=percentage fixed"`
	Value     decimal.Decimal `json:"value" validate:"gt=0"`
	StartsAt  *time.Time      `json:"starts_at"`
	EndsAt    *time.Time      `json:"ends_at"`
}

type DiscountService interface {
	List(ctx context.Context, p listquery.Params, productID uint) (listquery.Page[model.Discount], error)
	Get(ctx context.Context, id uint) (*model.Discount, error)
	Create(ctx context.Context, req *DiscountRequest, actor Actor) (*model.Discount, error)
	Update(ctx context.Context, id uint, req *DiscountRequest, actor Actor) (*model.Discount, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type discountService struct {
	repo     repository.DiscountRepository
	products repository.ProductRepository
	feed     *ChangeFeed
}

func NewDiscountService(repo repository.DiscountRepository, products repository.ProductRepository, feed *ChangeFeed) DiscountService {
	return &discountService{repo: repo, products: products, feed: feed}
}

func (s *discountService) List(ctx context.Context, p listquery.Params, productID uint) (listquery.Page[model.Discount], error) {
	return s.repo.List(ctx, p, productID)
}

func (s *discountService) Get(ctx context.Context, id uint) (*model.Discount, error) {
	discount, err := s.repo.FindByID(ctx, id)
	return discount, translate(err)
}

func (s *discountService) Create(ctx context.Context, req *DiscountRequest, actor Actor) (*model.Discount, error) {
	if err := s.check(ctx, req); err != nil {
		return nil, err
	}

	discount := &model.Discount{}
	req.apply(discount)
	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, translate(err)
	}
	s.feed.changed(ctx, actor, "discounts", actionCreated, []uint{discount.ID}, discount.Name)
	return discount, nil
}

func (s *discountService) Update(ctx context.Context, id uint, req *DiscountRequest, actor Actor) (*model.Discount, error) {
	discount, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := s.check(ctx, req); err != nil {
		return nil, err
	}

	req.apply(discount)
	if err := s.repo.Update(ctx, discount); err != nil {
		return nil, translate(err)
	}
	s.feed.changed(ctx, actor, "discounts", actionUpdated, []uint{id}, discount.Name)
	return discount, nil
}

func (s *discountService) Delete(ctx context.Context, id uint, actor Actor) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.feed.changed(ctx, actor, "discounts", actionDeleted, []uint{id}, "")
	return nil
}

func (s *discountService) check(ctx context.Context, req *DiscountRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	tagErrs := validate(req)
	rules := NewValidationError()

	if req.Type == string(model.DiscountPercentage) && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		rules.Add("value", "The value field must not be greater than 100.")
	}
	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		rules.Add("ends_at", "The ends at field must be a date after starts at.")
	}
	if req.ProductID != 0 {
		_, err := s.products.FindByID(ctx, req.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rules.Add("product_id", invalidMessage("product_id"))
		} else if err != nil {
			return err
		}
	}
	return merge(tagErrs, rules)
}

func (r *DiscountRequest) apply(d *model.Discount) {
	d.ProductID = r.ProductID
	d.Name = r.Name
	d.Type = model.DiscountType(r.Type)
	d.Value = r.Value.Round(2)
	d.StartsAt = r.StartsAt
	d.EndsAt = r.EndsAt
}
