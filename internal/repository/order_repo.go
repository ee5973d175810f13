package repository

import (
	"context"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderSpec = listquery.Spec{
	Table:      "orders",
	Searchable: []string{"email", "status"},
	Sortable:   []string{"id", "total", "status", "created_at"},
}

// DashboardStats feeds the back-office counters
type DashboardStats struct {
	Categories int64 `json:"categories"`
	Products   int64 `json:"products"`
	Tags       int64 `json:"tags"`
	Orders     int64 `json:"orders"`
	LowStock   int64 `json:"low_stock"`
}

type OrderRepository interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[model.Order], error)
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	Create(tx *gorm.DB, order *model.Order) error
	LockProducts(tx *gorm.DB, ids []uint) (map[uint]model.Product, error)
	LockVariants(tx *gorm.DB, ids []uint) (map[uint]model.Variant, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type orderRepo struct {
	db   *gorm.DB
	spec listquery.Spec
}

func NewOrderRepo(db *gorm.DB, perPage int) OrderRepository {
	spec := orderSpec
	spec.PerPage = perPage
	return &orderRepo{db: db, spec: spec}
}

func (r *orderRepo) List(ctx context.Context, p listquery.Params) (listquery.Page[model.Order], error) {
	return listquery.Find[model.Order](ctx, r.db, p, r.spec, nil, nil)
}

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB { return db.Order("order_addresses.id ASC") }).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create writes the order with its items and addresses on tx
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

// LockProducts selects the rows FOR UPDATE together with their discounts.
// Missing ids are simply absent from the map.
func (r *orderRepo) LockProducts(tx *gorm.DB, ids []uint) (map[uint]model.Product, error) {
	var products []model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Discounts").
		Where("id IN ?", uniqueIDs(ids)).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]model.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *orderRepo) LockVariants(tx *gorm.DB, ids []uint) (map[uint]model.Variant, error) {
	out := make(map[uint]model.Variant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var variants []model.Variant
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", uniqueIDs(ids)).
		Order("id ASC").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		out[v.ID] = v
	}
	return out, nil
}

func (r *orderRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	counts := []struct {
		model any
		dest  *int64
	}{
		{&model.Category{}, &stats.Categories},
		{&model.Product{}, &stats.Products},
		{&model.Tag{}, &stats.Tags},
		{&model.Order{}, &stats.Orders},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}
