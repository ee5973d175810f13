package service

import (
	"context"
	"errors"
	"fmt"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRequest struct {
	ProductID uint  `json:"product_id" validate:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type CartUpdateRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartService interface {
	Items(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	Get(ctx context.Context, userID uuid.UUID, id uint) (*model.CartItem, error)
	Add(ctx context.Context, userID uuid.UUID, req *CartRequest) (*model.CartItem, error)
	Update(ctx context.Context, userID uuid.UUID, id uint, req *CartUpdateRequest) (*model.CartItem, error)
	Remove(ctx context.Context, userID uuid.UUID, id uint) error
}

type cartService struct {
	cart     repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(cart repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{cart: cart, products: products}
}

func (s *cartService) Items(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	return s.cart.FindByUser(ctx, userID)
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID, id uint) (*model.CartItem, error) {
	item, err := s.cart.FindByID(ctx, userID, id)
	return item, translate(err)
}

// Add merges into an existing line for the same product and variant
func (s *cartService) Add(ctx context.Context, userID uuid.UUID, req *CartRequest) (*model.CartItem, error) {
	if errs := validate(req); errs != nil {
		return nil, errs
	}

	item, err := s.cart.FindLine(ctx, userID, req.ProductID, req.VariantID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = &model.CartItem{UserID: userID, ProductID: req.ProductID, VariantID: req.VariantID}
	case err != nil:
		return nil, err
	}

	quantity := item.Quantity + req.Quantity
	if err := s.checkStock(ctx, req.ProductID, req.VariantID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity

	if item.ID == 0 {
		err = s.cart.Create(ctx, item)
	} else {
		err = s.cart.UpdateQuantity(ctx, item)
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, item.ID)
}

func (s *cartService) Update(ctx context.Context, userID uuid.UUID, id uint, req *CartUpdateRequest) (*model.CartItem, error) {
	item, err := s.cart.FindByID(ctx, userID, id)
	if err != nil {
		return nil, translate(err)
	}
	if errs := validate(req); errs != nil {
		return nil, errs
	}
	if err := s.checkStock(ctx, item.ProductID, item.VariantID, req.Quantity); err != nil {
		return nil, err
	}

	item.Quantity = req.Quantity
	if err := s.cart.UpdateQuantity(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) Remove(ctx context.Context, userID uuid.UUID, id uint) error {
	return translate(s.cart.Delete(ctx, userID, id))
}

// checkStock validates the product and variant ids and the available stock
func (s *cartService) checkStock(ctx context.Context, productID uint, variantID *uint, quantity int) error {
	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewValidationError().Add("product_id", invalidMessage("product_id"))
	}
	if err != nil {
		return err
	}

	available := product.Quantity
	if variantID != nil {
		variant, err := s.products.FindVariant(ctx, productID, *variantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError().Add("variant_id", invalidMessage("variant_id"))
		}
		if err != nil {
			return err
		}
		available = variant.Quantity
	}

	if quantity > available {
		return NewValidationError().Add("quantity", fmt.Sprintf("The quantity field must not be greater than %d.", available))
	}
	return nil
}
