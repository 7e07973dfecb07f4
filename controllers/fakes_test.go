package controllers_test

import (
	"context"
	"io"
	"sync"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/models"
	"github.com/bhataakib02/retail-app/services"
	"github.com/bhataakib02/retail-app/storage"
	"github.com/shopspring/decimal"
)

// ---- concrete fakes implementing the controller service interfaces ----

type fakeAuth struct {
	mu        sync.Mutex
	users     []*models.User
	passwords map[uint]string
	deleted   []uint
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{passwords: make(map[uint]string)}
}

func (f *fakeAuth) seed(username, email, password, role string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{ID: uint(len(f.users) + 1), Username: username, Email: email, Role: role}
	f.users = append(f.users, u)
	f.passwords[u.ID] = password
	return u
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.ErrValidation.WithMessage("all fields are required")
	}
	for _, u := range f.users {
		if u.Email == in.Email {
			return nil, apperrors.ErrEmailTaken
		}
	}
	return f.seed(in.Username, in.Email, in.Password, models.RoleUser), nil
}

func (f *fakeAuth) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email && f.passwords[u.ID] == password {
			return u, nil
		}
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (f *fakeAuth) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeAuth) GetUser(_ context.Context, id uint) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound.WithMessage("User not found")
}

func (f *fakeAuth) UpdateUser(ctx context.Context, id uint, in services.UserUpdate) error {
	u, err := f.GetUser(ctx, id)
	if err != nil {
		return err
	}
	u.Username, u.Email = in.Username, in.Email
	return nil
}

func (f *fakeAuth) DeleteUser(ctx context.Context, id uint) error {
	if _, err := f.GetUser(ctx, id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCatalog struct {
	products    map[uint]*models.Product
	nextID      uint
	creates     int
	uploadBytes []byte
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: make(map[uint]*models.Product), nextID: 1}
}

func (f *fakeCatalog) ListProducts(_ context.Context) ([]models.Product, error) {
	out := []models.Product{}
	for id := uint(1); id < f.nextID; id++ {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound.WithMessage("Product not found")
	}
	return p, nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, fields models.ProductFields, image *services.Upload) (*models.Product, error) {
	if image != nil && !storage.AllowedImage(image.Filename) {
		return nil, apperrors.ErrInvalidImage
	}
	p := &models.Product{ID: f.nextID, Name: fields.Name, Description: fields.Description, Price: fields.Price, Stock: fields.Stock}
	if image != nil {
		p.Image = image.Filename
		f.uploadBytes, _ = io.ReadAll(image.Body)
	}
	f.products[p.ID] = p
	f.nextID++
	f.creates++
	return p, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, id uint, fields models.ProductFields, image *services.Upload) (*models.Product, error) {
	p, err := f.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name, p.Description, p.Price, p.Stock = fields.Name, fields.Description, fields.Price, fields.Stock
	if image != nil {
		p.Image = image.Filename
	}
	return p, nil
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, id uint) error {
	if _, ok := f.products[id]; !ok {
		return apperrors.ErrNotFound.WithMessage("Product not found")
	}
	delete(f.products, id)
	return nil
}

type fakeCart struct{}

func (fakeCart) Add(cart *models.Cart, productID string, quantity int) error {
	if err := cart.Add(productID, quantity); err != nil {
		return apperrors.ErrValidation.WithMessage(err.Error())
	}
	return nil
}

func (fakeCart) Remove(cart *models.Cart, productID string) {
	cart.Remove(productID)
}

func (fakeCart) View(_ context.Context, cart *models.Cart) (*services.CartView, error) {
	return &services.CartView{
		Cart:     cart.Quantities(),
		Products: []models.Product{},
		Lines:    []services.CartLine{},
		Total:    decimal.Zero,
	}, nil
}

type fakeCheckout struct {
	nextID uint
	err    error
	seen   map[string]int
}

func (f *fakeCheckout) Checkout(_ context.Context, userID uint, cart *models.Cart, paymentMethod string) (*models.Order, error) {
	if cart.IsEmpty() {
		return nil, apperrors.ErrCartEmpty
	}
	f.seen = cart.Quantities()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	return &models.Order{ID: f.nextID, UserID: userID, PaymentMethod: paymentMethod, PaymentStatus: models.PaymentStatusCompleted}, nil
}

type fakeOrders struct {
	orders   map[uint]*models.Order
	invoices map[uint]*models.Invoice
}

func (f *fakeOrders) ListForUser(_ context.Context, userID uint) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, viewer services.Viewer, orderID uint) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok || (!viewer.IsAdmin && o.UserID != viewer.UserID) {
		return nil, apperrors.ErrNotFound.WithMessage("Order not found")
	}
	return o, nil
}

func (f *fakeOrders) AdminOrders(_ context.Context) ([]models.AdminOrder, error) {
	return []models.AdminOrder{}, nil
}

func (f *fakeOrders) Invoice(_ context.Context, viewer services.Viewer, orderID uint) (*models.Invoice, error) {
	inv, ok := f.invoices[orderID]
	if !ok || (!viewer.IsAdmin && inv.Order.UserID != viewer.UserID) {
		return nil, apperrors.ErrNotFound.WithMessage("Order not found")
	}
	return inv, nil
}

type fakeDashboard struct{}

func (fakeDashboard) Stats(_ context.Context) (*services.DashboardStats, error) {
	return &services.DashboardStats{TotalUsers: 1, TotalProducts: 0, TotalOrders: 0, Products: []models.Product{}}, nil
}
