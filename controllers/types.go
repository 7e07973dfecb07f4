package controllers

import (
	"context"

	"github.com/bhataakib02/retail-app/models"
	"github.com/bhataakib02/retail-app/services"
)

// AuthServiceAPI defines the account operations used by controllers.
type AuthServiceAPI interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, in services.UserUpdate) error
	DeleteUser(ctx context.Context, id uint) error
}

// CatalogServiceAPI defines the product operations used by controllers.
type CatalogServiceAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, fields models.ProductFields, image *services.Upload) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, fields models.ProductFields, image *services.Upload) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type CartServiceAPI interface {
	Add(cart *models.Cart, productID string, quantity int) error
	Remove(cart *models.Cart, productID string)
	View(ctx context.Context, cart *models.Cart) (*services.CartView, error)
}

type CheckoutServiceAPI interface {
	Checkout(ctx context.Context, userID uint, cart *models.Cart, paymentMethod string) (*models.Order, error)
}

type OrderServiceAPI interface {
	ListForUser(ctx context.Context, userID uint) ([]models.Order, error)
	GetOrder(ctx context.Context, viewer services.Viewer, orderID uint) (*models.Order, error)
	AdminOrders(ctx context.Context) ([]models.AdminOrder, error)
	Invoice(ctx context.Context, viewer services.Viewer, orderID uint) (*models.Invoice, error)
}

type DashboardServiceAPI interface {
	Stats(ctx context.Context) (*services.DashboardStats, error)
}
