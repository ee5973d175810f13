package repository

import (
	"context"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"

	"gorm.io/gorm"
)

var tagSpec = listquery.Spec{
	Table:      "tags",
	Searchable: []string{"name"},
	Sortable:   []string{"id", "name"},
}

type TagRepository interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[model.Tag], error)
	FindByID(ctx context.Context, id uint) (*model.Tag, error)
	ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error)
	CountExisting(ctx context.Context, ids []uint) (int64, error)
	Create(ctx context.Context, tag *model.Tag) error
	Update(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, id uint) error
	DeleteMany(ctx context.Context, ids []uint) error
	Count(ctx context.Context) (int64, error)
}

type tagRepo struct {
	db   *gorm.DB
	spec listquery.Spec
}

func NewTagRepo(db *gorm.DB, perPage int) TagRepository {
	spec := tagSpec
	spec.PerPage = perPage
	return &tagRepo{db: db, spec: spec}
}

func (r *tagRepo) List(ctx context.Context, p listquery.Params) (listquery.Page[model.Tag], error) {
	return listquery.Find[model.Tag](ctx, r.db, p, r.spec, nil, nil)
}

func (r *tagRepo) FindByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepo) ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error) {
	return existsBy[model.Tag](ctx, r.db, field, value, excludeID)
}

func (r *tagRepo) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	return countIDs[model.Tag](ctx, r.db, uniqueIDs(ids))
}

func (r *tagRepo) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepo) Update(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Model(tag).Select("name").Updates(tag).Error
}

func (r *tagRepo) Delete(ctx context.Context, id uint) error {
	return r.DeleteMany(ctx, []uint{id})
}

// DeleteMany detaches the tags from every taggable, then removes them
func (r *tagRepo) DeleteMany(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAll[model.Tag](ctx, tx, ids); err != nil {
			return err
		}
		if err := tx.Where("tag_id IN ?", ids).Delete(&model.Taggable{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Tag{}).Error
	})
}

func (r *tagRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Tag{}).Count(&n).Error
	return n, err
}
