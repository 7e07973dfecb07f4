package services

import (
	"context"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/models"
	"github.com/bhataakib02/retail-app/repository"
)

type DashboardStats struct {
	TotalUsers    int64            `json:"total_users"`
	TotalProducts int64            `json:"total_products"`
	TotalOrders   int64            `json:"total_orders"`
	Products      []models.Product `json:"products"`
}

// DashboardService gathers the admin landing page figures.
type DashboardService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func NewDashboardService(users repository.UserRepository, products repository.ProductRepository, orders repository.OrderRepository) *DashboardService {
	return &DashboardService{users: users, products: products, orders: orders}
}

// Stats counts customers (role user only), products and orders.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.TotalUsers, err = s.users.CountByRole(ctx, models.RoleUser); err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}
	if stats.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}
	if stats.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}
	if stats.Products, err = s.products.List(ctx); err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}
	if stats.Products == nil {
		stats.Products = []models.Product{}
	}
	return &stats, nil
}
