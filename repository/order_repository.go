package repository

import (
	"context"

	"github.com/bhataakib02/retail-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository defines data-access operations for orders and reports.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	Count(ctx context.Context) (int64, error)
	AdminRows(ctx context.Context) ([]models.AdminOrderRow, error)
	InvoiceHeader(ctx context.Context, orderID uint) (*models.InvoiceHeader, error)
	InvoiceLines(ctx context.Context, orderID uint) ([]models.OrderLine, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order row only; items go through CreateItem.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *GormOrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

const adminOrdersQuery = `
SELECT o.id AS order_id, u.email AS user_email, o.order_date, o.payment_method, o.payment_status,
       p.name AS product_name, oi.quantity, p.price
FROM orders o
JOIN users u ON o.user_id = u.id
JOIN order_items oi ON o.id = oi.order_id
JOIN products p ON oi.product_id = p.id
ORDER BY o.id DESC, oi.id`

// AdminRows returns one row per order line, newest order first.
func (r *GormOrderRepository) AdminRows(ctx context.Context) ([]models.AdminOrderRow, error) {
	var rows []models.AdminOrderRow
	if err := r.db.WithContext(ctx).Raw(adminOrdersQuery).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

const invoiceHeaderQuery = `
SELECT o.id, o.user_id, o.order_date, o.payment_method, o.payment_status, u.username, u.email
FROM orders o
JOIN users u ON o.user_id = u.id
WHERE o.id = ?`

func (r *GormOrderRepository) InvoiceHeader(ctx context.Context, orderID uint) (*models.InvoiceHeader, error) {
	var headers []models.InvoiceHeader
	if err := r.db.WithContext(ctx).Raw(invoiceHeaderQuery, orderID).Scan(&headers).Error; err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &headers[0], nil
}

const invoiceLinesQuery = `
SELECT p.name AS product_name, p.price, oi.quantity
FROM order_items oi
JOIN products p ON oi.product_id = p.id
WHERE oi.order_id = ?
ORDER BY oi.id`

// InvoiceLines returns the lines of an order priced at the current product price.
func (r *GormOrderRepository) InvoiceLines(ctx context.Context, orderID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := r.db.WithContext(ctx).Raw(invoiceLinesQuery, orderID).Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
