package service

import (
	"context"

	"go-storefront/internal/repository"
)

// DefaultLowStockThreshold counts products with fewer units as low on stock
const DefaultLowStockThreshold = 5

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type dashboardService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	lowStock    int
}

func NewDashboardService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, lowStock int) DashboardService {
	if lowStock <= 0 {
		lowStock = DefaultLowStockThreshold
	}
	return &dashboardService{orderRepo: orderRepo, productRepo: productRepo, lowStock: lowStock}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	stats, err := s.orderRepo.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.LowStock, err = s.productRepo.CountLowStock(ctx, s.lowStock); err != nil {
		return nil, err
	}
	return stats, nil
}
