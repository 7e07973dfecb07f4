package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/events"
	"github.com/bhataakib02/retail-app/models"
	awspkg "github.com/bhataakib02/retail-app/pkg/aws"
	"github.com/bhataakib02/retail-app/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxPaymentMethodLen = 50

// MetricsRecorder is satisfied by *aws.MetricsClient.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

// CheckoutService turns a session cart into an order inside one database
// transaction.
type CheckoutService struct {
	db        *gorm.DB
	publisher events.Publisher
	metrics   MetricsRecorder
	log       *zap.Logger
}

func NewCheckoutService(db *gorm.DB, publisher events.Publisher, metrics MetricsRecorder, log *zap.Logger) *CheckoutService {
	return &CheckoutService{db: db, publisher: publisher, metrics: metrics, log: log}
}

type checkoutLine struct {
	productID uint
	quantity  int
}

// Checkout records one order with one item per cart line and takes the
// ordered units off stock. Either all of it commits or none of it does.
// The cart is never modified here; the caller clears it after success.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, cart *models.Cart, paymentMethod string) (*models.Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, apperrors.ErrCartEmpty
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, apperrors.ErrValidation.WithMessage("payment method is required")
	}
	if len(paymentMethod) > maxPaymentMethodLen {
		return nil, apperrors.ErrValidation.WithMessage("payment method is too long")
	}

	lines := make([]checkoutLine, 0, cart.Len())
	for _, item := range cart.Lines() {
		id, err := models.ParseProductID(item.ProductID)
		if err != nil || item.Quantity < 1 {
			return nil, apperrors.ErrInvalidOrder.WithMessage("cart contains an invalid line")
		}
		lines = append(lines, checkoutLine{productID: id, quantity: item.Quantity})
	}

	order := &models.Order{
		UserID:        userID,
		PaymentMethod: paymentMethod,
		PaymentStatus: models.PaymentStatusCompleted,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repository.NewGormOrderRepository(tx)
		products := repository.NewGormProductRepository(tx)

		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, l := range lines {
			item := &models.OrderItem{OrderID: order.ID, ProductID: l.productID, Quantity: l.quantity}
			if err := orders.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("insert order item for product %d: %w", l.productID, err)
			}
			order.Items = append(order.Items, *item)

			ok, err := products.DecrementStock(ctx, l.productID, l.quantity)
			if err != nil {
				return fmt.Errorf("decrement stock for product %d: %w", l.productID, err)
			}
			if !ok {
				return apperrors.ErrInsufficientStock.WithMessage(
					fmt.Sprintf("Insufficient stock for product %d", l.productID))
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.checkoutError(ctx, userID, err)
	}

	s.log.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.Int("lines", len(order.Items)),
	)
	s.afterCommit(ctx, order)
	return order, nil
}

func (s *CheckoutService) checkoutError(ctx context.Context, userID uint, err error) error {
	s.record(ctx, awspkg.MetricOrdersFailed)

	switch {
	case errors.Is(err, apperrors.ErrInsufficientStock):
		s.record(ctx, awspkg.MetricInsufficientStock)
		s.log.Warn("Checkout rejected", zap.Uint("user_id", userID), zap.Error(err))
		return err
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		s.log.Warn("Checkout referenced a missing product", zap.Uint("user_id", userID), zap.Error(err))
		return apperrors.ErrInvalidOrder.WithMessage("A product in your cart is no longer available").Wrap(err)
	default:
		s.log.Error("Checkout transaction failed", zap.Uint("user_id", userID), zap.Error(err))
		return apperrors.ErrCheckoutFailed.Wrap(err)
	}
}

// afterCommit publishes the order event and counts the order. Failures are
// logged only; the order is already durable.
func (s *CheckoutService) afterCommit(ctx context.Context, order *models.Order) {
	s.record(ctx, awspkg.MetricOrdersCreated)

	if s.publisher == nil {
		return
	}
	event := events.OrderPlaced{
		Event:         events.EventOrderPlaced,
		OrderID:       order.ID,
		UserID:        order.UserID,
		PaymentMethod: order.PaymentMethod,
		Timestamp:     time.Now().UTC(),
	}
	for _, it := range order.Items {
		event.Items = append(event.Items, events.OrderPlacedItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishOrderPlaced(pubCtx, event); err != nil {
		s.log.Warn("Order event publish failed", zap.Uint("order_id", order.ID), zap.Error(err))
	}
}

func (s *CheckoutService) record(ctx context.Context, metric string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordCount(ctx, metric, map[string]string{"Service": "retail-app"}); err != nil {
		s.log.Debug("Metric not recorded", zap.String("metric", metric), zap.Error(err))
	}
}
