package repository

import (
	"context"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"

	"gorm.io/gorm"
)

var discountSpec = listquery.Spec{
	Table:      "discounts",
	Searchable: []string{"name", "type"},
	Sortable:   []string{"id", "name", "value"},
}

type DiscountRepository interface {
	List(ctx context.Context, p listquery.Params, productID uint) (listquery.Page[model.Discount], error)
	FindByID(ctx context.Context, id uint) (*model.Discount, error)
	Create(ctx context.Context, discount *model.Discount) error
	Update(ctx context.Context, discount *model.Discount) error
	Delete(ctx context.Context, id uint) error
}

type discountRepo struct {
	db   *gorm.DB
	spec listquery.Spec
}

func NewDiscountRepo(db *gorm.DB, perPage int) DiscountRepository {
	spec := discountSpec
	spec.PerPage = perPage
	return &discountRepo{db: db, spec: spec}
}

// List pages discounts; a non-zero productID keeps one product's discounts
func (r *discountRepo) List(ctx context.Context, p listquery.Params, productID uint) (listquery.Page[model.Discount], error) {
	var filter listquery.Scope
	if productID != 0 {
		filter = func(q *gorm.DB) *gorm.DB {
			return q.Where("discounts.product_id = ?", productID)
		}
	}
	return listquery.Find[model.Discount](ctx, r.db, p, r.spec, filter, nil)
}

func (r *discountRepo) FindByID(ctx context.Context, id uint) (*model.Discount, error) {
	var discount model.Discount
	if err := r.db.WithContext(ctx).First(&discount, id).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepo) Create(ctx context.Context, discount *model.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *discountRepo) Update(ctx context.Context, discount *model.Discount) error {
	return r.db.WithContext(ctx).Model(discount).
		Select("product_id", "name", "type", "value", "starts_at", "ends_at").
		Updates(discount).Error
}

func (r *discountRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Discount{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
