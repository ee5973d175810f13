package repository

import (
	"context"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productSpec = listquery.Spec{
	Table:      "products",
	Searchable: []string{"name", "slug", "small_description"},
	Sortable:   []string{"id", "name", "slug", "price", "quantity"},
}

// ProductFilter narrows product lists; zero values mean no filter
type ProductFilter struct {
	CategoryID uint
}

// ProductLinks are the many-to-many ids written with a product. A nil slice
// leaves the existing links untouched on update.
type ProductLinks struct {
	TagIDs       []uint
	AttributeIDs []uint
}

type ProductRepository interface {
	List(ctx context.Context, p listquery.Params, filter ProductFilter, rels ...model.Relation) (listquery.Page[model.Product], error)
	FindByID(ctx context.Context, id uint, rels ...model.Relation) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string, rels ...model.Relation) (*model.Product, error)
	ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error)
	Create(ctx context.Context, product *model.Product, links ProductLinks) error
	Update(ctx context.Context, product *model.Product, links ProductLinks) error
	DeleteMany(ctx context.Context, ids []uint) ([]model.Media, error)
	UpdateStock(tx *gorm.DB, id uint, quantity int) error
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, below int) (int64, error)

	AddMedia(ctx context.Context, productID uint, files []model.Media) ([]model.Media, error)
	FindMedia(ctx context.Context, ids []uint) ([]model.Media, error)
	DeleteMedia(ctx context.Context, ids []uint) error

	FindVariant(ctx context.Context, productID, variantID uint) (*model.Variant, error)
	CreateVariant(ctx context.Context, variant *model.Variant) error
	UpdateVariant(ctx context.Context, variant *model.Variant) error
	DeleteVariant(ctx context.Context, productID, variantID uint) error
	UpdateVariantStock(tx *gorm.DB, id uint, quantity int) error
}

type productRepo struct {
	db   *gorm.DB
	spec listquery.Spec
}

func NewProductRepo(db *gorm.DB, perPage int) ProductRepository {
	spec := productSpec
	spec.PerPage = perPage
	return &productRepo{db: db, spec: spec}
}

func (r *productRepo) List(ctx context.Context, p listquery.Params, filter ProductFilter, rels ...model.Relation) (listquery.Page[model.Product], error) {
	var scope listquery.Scope
	if filter.CategoryID != 0 {
		scope = func(q *gorm.DB) *gorm.DB {
			return q.Where("products.category_id = ?", filter.CategoryID)
		}
	}

	page, err := listquery.Find[model.Product](ctx, r.db, p, r.spec, scope, preloads(rels))
	if err != nil {
		return page, err
	}
	if err := r.finishLoad(ctx, page.Data, rels); err != nil {
		return listquery.Page[model.Product]{}, err
	}
	return page, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint, rels ...model.Relation) (*model.Product, error) {
	return r.findOne(ctx, rels, "products.id = ?", id)
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string, rels ...model.Relation) (*model.Product, error) {
	return r.findOne(ctx, rels, "products.slug = ?", slug)
}

func (r *productRepo) findOne(ctx context.Context, rels []model.Relation, query string, arg any) (*model.Product, error) {
	var product model.Product
	q := preloads(rels)(r.db.WithContext(ctx))
	if err := q.Where(query, arg).First(&product).Error; err != nil {
		return nil, err
	}
	products := []model.Product{product}
	if err := r.finishLoad(ctx, products, rels); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// preloads maps relation names onto gorm preloads. Variants always bring
// their option values and the product attributes they are named by.
func preloads(rels []model.Relation) listquery.Scope {
	loaded := model.Relations{}.With(rels...)
	return func(q *gorm.DB) *gorm.DB {
		if loaded.Has(model.RelCategory) {
			q = q.Preload("Category")
		}
		if loaded.Has(model.RelAttributes) || loaded.Has(model.RelVariants) {
			q = q.Preload("Attributes", func(db *gorm.DB) *gorm.DB {
				return db.Order("attributes.id ASC")
			})
		}
		if loaded.Has(model.RelDiscounts) {
			q = q.Preload("Discounts", func(db *gorm.DB) *gorm.DB {
				return db.Order("discounts.id ASC")
			})
		}
		if loaded.Has(model.RelVariants) {
			q = q.Preload("Variants", func(db *gorm.DB) *gorm.DB {
				return db.Order("variants.id ASC")
			}).Preload("Variants.AttributeValues", func(db *gorm.DB) *gorm.DB {
				return db.Order("variant_attribute.attribute_id ASC")
			})
		}
		if loaded.Has(model.RelMedia) {
			q = q.Preload("Media", func(db *gorm.DB) *gorm.DB {
				return db.Order("media.position ASC, media.id ASC")
			})
		}
		return q
	}
}

// finishLoad loads the polymorphic tags and records what was loaded
func (r *productRepo) finishLoad(ctx context.Context, products []model.Product, rels []model.Relation) error {
	loaded := model.Relations{}.With(rels...)
	if loaded.Has(model.RelVariants) {
		loaded = loaded.With(model.RelAttributes)
	}
	if len(products) == 0 {
		return nil
	}

	if loaded.Has(model.RelTags) {
		if err := r.loadTags(ctx, products); err != nil {
			return err
		}
	}
	for i := range products {
		products[i].Loaded = loaded
	}
	return nil
}

type taggedRow struct {
	TaggableID uint
	ID         uint
	Name       string
}

func (r *productRepo) loadTags(ctx context.Context, products []model.Product) error {
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	var rows []taggedRow
	err := r.db.WithContext(ctx).
		Table("tag_taggable").
		Select("tag_taggable.taggable_id, tags.id, tags.name").
		Joins("JOIN tags ON tags.id = tag_taggable.tag_id").
		Where("tag_taggable.taggable_type = ? AND tag_taggable.taggable_id IN ?", model.TaggableProduct, ids).
		Order("tags.id ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byProduct := make(map[uint][]model.Tag, len(products))
	for _, row := range rows {
		tag := model.Tag{Name: row.Name}
		tag.ID = row.ID
		byProduct[row.TaggableID] = append(byProduct[row.TaggableID], tag)
	}
	for i := range products {
		tags := byProduct[products[i].ID]
		if tags == nil {
			tags = []model.Tag{}
		}
		products[i].Tags = tags
	}
	return nil
}

func (r *productRepo) ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error) {
	return existsBy[model.Product](ctx, r.db, field, value, excludeID)
}

func (r *productRepo) Create(ctx context.Context, product *model.Product, links ProductLinks) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}
		return syncLinks(tx, product.ID, links)
	})
}

func (r *productRepo) Update(ctx context.Context, product *model.Product, links ProductLinks) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(product).
			Select("name", "slug", "small_description", "description", "price", "quantity", "category_id").
			Updates(product)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return syncLinks(tx, product.ID, links)
	})
}

func syncLinks(tx *gorm.DB, productID uint, links ProductLinks) error {
	if links.TagIDs != nil {
		err := tx.Where("taggable_type = ? AND taggable_id = ?", model.TaggableProduct, productID).
			Delete(&model.Taggable{}).Error
		if err != nil {
			return err
		}
		rows := make([]model.Taggable, 0, len(links.TagIDs))
		for _, id := range uniqueIDs(links.TagIDs) {
			rows = append(rows, model.Taggable{TagID: id, TaggableID: productID, TaggableType: model.TaggableProduct})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	if links.AttributeIDs != nil {
		keep := uniqueIDs(links.AttributeIDs)
		q := tx.Where("product_id = ?", productID)
		if len(keep) > 0 {
			q = q.Where("attribute_id NOT IN ?", keep)
		}
		if err := q.Delete(&model.ProductAttribute{}).Error; err != nil {
			return err
		}
		rows := make([]model.ProductAttribute, 0, len(keep))
		for _, id := range keep {
			rows = append(rows, model.ProductAttribute{ProductID: productID, AttributeID: id})
		}
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteMany removes the products and everything they own, all or nothing.
// The deleted media rows are returned so their files can be removed.
func (r *productRepo) DeleteMany(ctx context.Context, ids []uint) ([]model.Media, error) {
	var files []model.Media
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAll[model.Product](ctx, tx, ids); err != nil {
			return err
		}
		if err := tx.Where("product_id IN ?", ids).Find(&files).Error; err != nil {
			return err
		}

		variants := tx.Model(&model.Variant{}).Select("id").Where("product_id IN ?", ids)
		steps := []func() error{
			func() error { return tx.Where("product_id IN ?", ids).Delete(&model.CartItem{}).Error },
			func() error { return tx.Where("product_id IN ?", ids).Delete(&model.Media{}).Error },
			func() error { return tx.Where("product_id IN ?", ids).Delete(&model.Discount{}).Error },
			func() error { return tx.Where("variant_id IN (?)", variants).Delete(&model.VariantAttribute{}).Error },
			func() error { return tx.Where("product_id IN ?", ids).Delete(&model.Variant{}).Error },
			func() error { return tx.Where("product_id IN ?", ids).Delete(&model.ProductAttribute{}).Error },
			func() error {
				return tx.Where("taggable_type = ? AND taggable_id IN ?", model.TaggableProduct, ids).Delete(&model.Taggable{}).Error
			},
			func() error { return tx.Where("id IN ?", ids).Delete(&model.Product{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// UpdateStock runs on tx so checkout can keep its row locks
func (r *productRepo) UpdateStock(tx *gorm.DB, id uint, quantity int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) CountLowStock(ctx context.Context, below int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("quantity < ?", below).Count(&n).Error
	return n, err
}

// AddMedia appends files after the product's current last position
func (r *productRepo) AddMedia(ctx context.Context, productID uint, files []model.Media) ([]model.Media, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireAll[model.Product](ctx, tx, []uint{productID}); err != nil {
			return err
		}

		var last struct{ Max *int }
		err := tx.Model(&model.Media{}).Select("MAX(position) AS max").Where("product_id = ?", productID).Scan(&last).Error
		if err != nil {
			return err
		}
		next := 0
		if last.Max != nil {
			next = *last.Max + 1
		}

		for i := range files {
			files[i].ProductID = productID
			files[i].Collection = model.MediaCollectionImages
			files[i].Position = next + i
		}
		if len(files) == 0 {
			return nil
		}
		return tx.Create(&files).Error
	})
	return files, err
}

func (r *productRepo) FindMedia(ctx context.Context, ids []uint) ([]model.Media, error) {
	files := make([]model.Media, 0)
	if len(ids) == 0 {
		return files, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&files).Error
	return files, err
}

func (r *productRepo) DeleteMedia(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Media{}).Error
}

func (r *productRepo) FindVariant(ctx context.Context, productID, variantID uint) (*model.Variant, error) {
	var variant model.Variant
	err := r.db.WithContext(ctx).
		Preload("AttributeValues", func(db *gorm.DB) *gorm.DB {
			return db.Order("variant_attribute.attribute_id ASC")
		}).
		Where("product_id = ?", productID).
		First(&variant, variantID).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepo) CreateVariant(ctx context.Context, variant *model.Variant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

// UpdateVariant rewrites price, stock and the full option set
func (r *productRepo) UpdateVariant(ctx context.Context, variant *model.Variant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(variant).Select("price", "quantity").Updates(variant)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("variant_id = ?", variant.ID).Delete(&model.VariantAttribute{}).Error; err != nil {
			return err
		}
		for i := range variant.AttributeValues {
			variant.AttributeValues[i].ID = 0
			variant.AttributeValues[i].VariantID = variant.ID
		}
		if len(variant.AttributeValues) == 0 {
			return nil
		}
		return tx.Create(&variant.AttributeValues).Error
	})
}

func (r *productRepo) DeleteVariant(ctx context.Context, productID, variantID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Variant{}).Where("id = ? AND product_id = ?", variantID, productID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("variant_id = ?", variantID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("variant_id = ?", variantID).Delete(&model.VariantAttribute{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Variant{}, variantID).Error
	})
}

func (r *productRepo) UpdateVariantStock(tx *gorm.DB, id uint, quantity int) error {
	return tx.Model(&model.Variant{}).Where("id = ?", id).Update("quantity", quantity).Error
}
