package repository

import (
	"context"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"

	"gorm.io/gorm"
)

var categorySpec = listquery.Spec{
	Table:      "categories",
	Searchable: []string{"name", "slug"},
	Sortable:   []string{"id", "name", "slug"},
}

type CategoryRepository interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[model.Category], error)
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uint) error
	DeleteMany(ctx context.Context, ids []uint) error
	Count(ctx context.Context) (int64, error)
}

type categoryRepo struct {
	db   *gorm.DB
	spec listquery.Spec
}

func NewCategoryRepo(db *gorm.DB, perPage int) CategoryRepository {
	spec := categorySpec
	spec.PerPage = perPage
	return &categoryRepo{db: db, spec: spec}
}

func (r *categoryRepo) List(ctx context.Context, p listquery.Params) (listquery.Page[model.Category], error) {
	return listquery.Find[model.Category](ctx, r.db, p, r.spec, nil, nil)
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistsBy checks name or slug uniqueness, skipping excludeID
func (r *categoryRepo) ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error) {
	return existsBy[model.Category](ctx, r.db, field, value, excludeID)
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Model(category).Select("name", "slug").Updates(category).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	return r.DeleteMany(ctx, []uint{id})
}

// DeleteMany removes every id or none. Categories that still own products
// are not deleted.
func (r *categoryRepo) DeleteMany(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAll[model.Category](ctx, tx, ids); err != nil {
			return err
		}

		var products int64
		if err := tx.Model(&model.Product{}).Where("category_id IN ?", ids).Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return ErrInUse
		}

		return tx.Where("id IN ?", ids).Delete(&model.Category{}).Error
	})
}

func (r *categoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&n).Error
	return n, err
}
