package events

import (
	"context"
	"errors"
	"time"
)

const EventOrderPlaced = "order.placed"

type OrderPlacedItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderPlaced is emitted once a checkout transaction has committed.
type OrderPlaced struct {
	Event         string            `json:"event"`
	OrderID       uint              `json:"order_id"`
	UserID        uint              `json:"user_id"`
	PaymentMethod string            `json:"payment_method"`
	Items         []OrderPlacedItem `json:"items"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

// MultiPublisher fans an event out to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishOrderPlaced(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
