package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	Email     string           `json:"email" validate:"required,email,max=255"`
	Items     []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
	Addresses []AddressRequest `json:"addresses" validate:"required,min=1,max=2,dive"`
}

type CheckoutItem struct {
	ProductID uint  `json:"product_id" validate:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type AddressRequest struct {
	Type       string `json:"type" validate:"required,oneof=billing shipping"`
	Name       string `json:"name" validate:"required,max=100"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2" validate:"max=255"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"required,len=2"`
	Phone      string `json:"phone" validate:"max=30"`
}

type OrderService interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[model.Order], error)
	Get(ctx context.Context, id uint) (*model.Order, error)
	Checkout(ctx context.Context, req *CheckoutRequest, userID *uuid.UUID) (*model.Order, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	cart     repository.CartRepository
	db       *gorm.DB
	feed     *ChangeFeed
	now      func() time.Time
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, cart repository.CartRepository, db *gorm.DB, feed *ChangeFeed) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		cart:     cart,
		db:       db,
		feed:     feed,
		now:      time.Now,
	}
}

func (s *orderService) List(ctx context.Context, p listquery.Params) (listquery.Page[model.Order], error) {
	return s.orders.List(ctx, p)
}

func (s *orderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	return order, translate(err)
}

type stockKey struct {
	productID uint
	variantID uint
}

// Checkout locks the purchased rows, checks stock, prices every line with
// the best active discount, decrements stock and writes the order in one
// transaction.
func (s *orderService) Checkout(ctx context.Context, req *CheckoutRequest, userID *uuid.UUID) (*model.Order, error) {
	req.Email = strings.TrimSpace(req.Email)
	if errs := validate(req); errs != nil {
		return nil, errs
	}
	if errs := checkAddresses(req.Addresses); !errs.Empty() {
		return nil, errs
	}

	order := &model.Order{
		UserID: userID,
		Email:  req.Email,
		Status: model.OrderPending,
	}
	now := s.now()
	var touched []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productIDs := make([]uint, 0, len(req.Items))
		var variantIDs []uint
		for _, item := range req.Items {
			productIDs = append(productIDs, item.ProductID)
			if item.VariantID != nil {
				variantIDs = append(variantIDs, *item.VariantID)
			}
		}

		products, err := s.orders.LockProducts(tx, productIDs)
		if err != nil {
			return err
		}
		variants, err := s.orders.LockVariants(tx, variantIDs)
		if err != nil {
			return err
		}

		// remaining stock as lines are taken, keyed by product or variant
		remaining := map[stockKey]int{}
		invalid := NewValidationError()
		subtotal := decimal.Zero
		discountTotal := decimal.Zero

		for i, item := range req.Items {
			product, ok := products[item.ProductID]
			if !ok {
				invalid.Add(fmt.Sprintf("items.%d.product_id", i), invalidMessage("product_id"))
				continue
			}

			key := stockKey{productID: product.ID}
			unit := product.Price
			name := product.Name
			stock := product.Quantity
			if item.VariantID != nil {
				variant, ok := variants[*item.VariantID]
				if !ok || variant.ProductID != product.ID {
					invalid.Add(fmt.Sprintf("items.%d.variant_id", i), invalidMessage("variant_id"))
					continue
				}
				key.variantID = variant.ID
				unit = variant.Price
				stock = variant.Quantity
				name = fmt.Sprintf("%s #%d", product.Name, variant.ID)
			}

			left, seen := remaining[key]
			if !seen {
				left = stock
			}
			if item.Quantity > left {
				return fmt.Errorf("%w for '%s'", ErrInsufficientStock, name)
			}
			remaining[key] = left - item.Quantity

			qty := decimal.NewFromInt(int64(item.Quantity))
			price := model.BestPrice(unit, product.Discounts, now)
			subtotal = subtotal.Add(unit.Mul(qty))
			discountTotal = discountTotal.Add(unit.Sub(price).Mul(qty))

			order.Items = append(order.Items, model.OrderItem{
				ProductID: product.ID,
				VariantID: item.VariantID,
				Name:      name,
				UnitPrice: price,
				Quantity:  item.Quantity,
				LineTotal: price.Mul(qty),
			})
		}
		if !invalid.Empty() {
			return invalid
		}

		for key, left := range remaining {
			if key.variantID != 0 {
				err = s.products.UpdateVariantStock(tx, key.variantID, left)
			} else {
				err = s.products.UpdateStock(tx, key.productID, left)
			}
			if err != nil {
				return err
			}
			touched = append(touched, key.productID)
		}

		order.Subtotal = subtotal.Round(2)
		order.DiscountTotal = discountTotal.Round(2)
		order.Total = subtotal.Sub(discountTotal).Round(2)
		for _, a := range req.Addresses {
			order.Addresses = append(order.Addresses, a.toModel())
		}

		if err := s.orders.Create(tx, order); err != nil {
			return err
		}
		if userID != nil {
			return s.cart.Clear(tx, *userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	buyer := Actor{Email: req.Email}
	s.feed.changed(ctx, buyer, "orders", actionCreated, []uint{order.ID}, fmt.Sprintf("#%d", order.ID))
	s.feed.changed(ctx, buyer, "products", actionUpdated, distinctList(touched), "")
	return order, nil
}

// checkAddresses allows at most one address of each type
func checkAddresses(addresses []AddressRequest) *ValidationError {
	errs := NewValidationError()
	seen := map[string]bool{}
	for i, a := range addresses {
		if seen[a.Type] {
			errs.Add(fmt.Sprintf("addresses.%d.type", i), "The addresses type field has a duplicate value.")
		}
		seen[a.Type] = true
	}
	return errs
}

func (a AddressRequest) toModel() model.OrderAddress {
	return model.OrderAddress{
		Type:       model.AddressType(a.Type),
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    strings.ToUpper(a.Country),
		Phone:      a.Phone,
	}
}

func distinctList(ids []uint) []uint {
	seen := distinct(nil)
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
