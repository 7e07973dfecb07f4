package services

import (
	"context"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/models"
	"github.com/bhataakib02/retail-app/repository"
	"github.com/shopspring/decimal"
)

// Viewer is the identity asking for an order.
type Viewer struct {
	UserID  uint
	IsAdmin bool
}

func (v Viewer) canSee(ownerID uint) bool {
	return v.IsAdmin || v.UserID == ownerID
}

// OrderService answers order history and reporting queries. Line totals use
// the current product price.
type OrderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetOrder returns an order the viewer is allowed to see. Someone else's
// order is reported as missing.
func (s *OrderService) GetOrder(ctx context.Context, viewer Viewer, orderID uint) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if !viewer.canSee(order.UserID) {
		return nil, apperrors.ErrNotFound.WithMessage("Order not found")
	}
	return order, nil
}

// AdminOrders groups the joined report rows into one record per order,
// keeping the newest-first order of the query.
func (s *OrderService) AdminOrders(ctx context.Context) ([]models.AdminOrder, error) {
	rows, err := s.orders.AdminRows(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}

	result := []models.AdminOrder{}
	index := make(map[uint]int)
	for _, row := range rows {
		i, seen := index[row.OrderID]
		if !seen {
			result = append(result, models.AdminOrder{
				OrderID:       row.OrderID,
				UserEmail:     row.UserEmail,
				OrderDate:     row.OrderDate,
				PaymentMethod: row.PaymentMethod,
				PaymentStatus: row.PaymentStatus,
				Products:      []models.OrderLine{},
				GrandTotal:    decimal.Zero,
			})
			i = len(result) - 1
			index[row.OrderID] = i
		}

		line := priced(models.OrderLine{ProductName: row.ProductName, Quantity: row.Quantity, Price: row.Price})
		result[i].Products = append(result[i].Products, line)
		result[i].GrandTotal = result[i].GrandTotal.Add(line.LineTotal)
	}
	return result, nil
}

// Invoice builds the printable invoice for an order the viewer may see.
func (s *OrderService) Invoice(ctx context.Context, viewer Viewer, orderID uint) (*models.Invoice, error) {
	header, err := s.orders.InvoiceHeader(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if !viewer.canSee(header.UserID) {
		return nil, apperrors.ErrNotFound.WithMessage("Order not found")
	}

	lines, err := s.orders.InvoiceLines(ctx, orderID)
	if err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}

	inv := &models.Invoice{
		Order:         *header,
		Items:         make([]models.OrderLine, 0, len(lines)),
		Total:         decimal.Zero,
		InvoiceNumber: models.InvoiceNumber(header.ID),
	}
	for _, l := range lines {
		l = priced(l)
		inv.Items = append(inv.Items, l)
		inv.Total = inv.Total.Add(l.LineTotal)
	}
	return inv, nil
}

func priced(l models.OrderLine) models.OrderLine {
	l.LineTotal = l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return l
}
