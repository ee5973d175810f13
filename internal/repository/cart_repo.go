package repository

import (
	"context"

	"go-storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	FindByID(ctx context.Context, userID uuid.UUID, id uint) (*model.CartItem, error)
	FindLine(ctx context.Context, userID uuid.UUID, productID uint, variantID *uint) (*model.CartItem, error)
	Create(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, item *model.CartItem) error
	Delete(ctx context.Context, userID uuid.UUID, id uint) error
	Clear(tx *gorm.DB, userID uuid.UUID) error
}

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) CartRepository {
	return &cartRepo{db}
}

func (r *cartRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	items := make([]model.CartItem, 0)
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// FindByID only returns lines owned by userID
func (r *cartRepo) FindByID(ctx context.Context, userID uuid.UUID, id uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) FindLine(ctx context.Context, userID uuid.UUID, productID uint, variantID *uint) (*model.CartItem, error) {
	q := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID == nil {
		q = q.Where("variant_id IS NULL")
	} else {
		q = q.Where("variant_id = ?", *variantID)
	}
	var item model.CartItem
	if err := q.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) Create(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Model(item).Update("quantity", item.Quantity).Error
}

func (r *cartRepo) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear empties a cart inside the checkout transaction
func (r *cartRepo) Clear(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}
