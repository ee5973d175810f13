package repository

import (
	"context"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"

	"gorm.io/gorm"
)

var attributeSpec = listquery.Spec{
	Table:      "attributes",
	Searchable: []string{"name"},
	Sortable:   []string{"id", "name"},
}

type AttributeRepository interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[model.Attribute], error)
	FindByID(ctx context.Context, id uint) (*model.Attribute, error)
	ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error)
	CountExisting(ctx context.Context, ids []uint) (int64, error)
	Create(ctx context.Context, attribute *model.Attribute) error
	Update(ctx context.Context, attribute *model.Attribute) error
	Delete(ctx context.Context, id uint) error
}

type attributeRepo struct {
	db   *gorm.DB
	spec listquery.Spec
}

func NewAttributeRepo(db *gorm.DB, perPage int) AttributeRepository {
	spec := attributeSpec
	spec.PerPage = perPage
	return &attributeRepo{db: db, spec: spec}
}

func (r *attributeRepo) List(ctx context.Context, p listquery.Params) (listquery.Page[model.Attribute], error) {
	return listquery.Find[model.Attribute](ctx, r.db, p, r.spec, nil, nil)
}

func (r *attributeRepo) FindByID(ctx context.Context, id uint) (*model.Attribute, error) {
	var attribute model.Attribute
	if err := r.db.WithContext(ctx).First(&attribute, id).Error; err != nil {
		return nil, err
	}
	return &attribute, nil
}

func (r *attributeRepo) ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error) {
	return existsBy[model.Attribute](ctx, r.db, field, value, excludeID)
}

func (r *attributeRepo) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	return countIDs[model.Attribute](ctx, r.db, uniqueIDs(ids))
}

func (r *attributeRepo) Create(ctx context.Context, attribute *model.Attribute) error {
	return r.db.WithContext(ctx).Create(attribute).Error
}

func (r *attributeRepo) Update(ctx context.Context, attribute *model.Attribute) error {
	return r.db.WithContext(ctx).Model(attribute).Select("name").Updates(attribute).Error
}

// Delete refuses while any variant still stores a value for the attribute,
// otherwise it detaches the attribute from products first.
func (r *attributeRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAll[model.Attribute](ctx, tx, []uint{id}); err != nil {
			return err
		}

		var used int64
		if err := tx.Model(&model.VariantAttribute{}).Where("attribute_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return ErrInUse
		}

		if err := tx.Where("attribute_id = ?", id).Delete(&model.ProductAttribute{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Attribute{}, id).Error
	})
}
