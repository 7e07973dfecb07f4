package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const PaymentStatusCompleted = "Completed"

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	OrderDate     time.Time   `gorm:"autoCreateTime" json:"order_date"`
	PaymentMethod string      `gorm:"size:50" json:"payment_method"`
	PaymentStatus string      `gorm:"size:50" json:"payment_status"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"not null;index" json:"order_id"`
	ProductID uint `gorm:"not null" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}

// InvoiceNumber formats an order id the way invoices print it.
func InvoiceNumber(orderID uint) string {
	return fmt.Sprintf("INV-%04d", orderID)
}

// AdminOrderRow is one row of the orders ⨝ users ⨝ order_items ⨝ products report.
type AdminOrderRow struct {
	OrderID       uint
	UserEmail     string
	OrderDate     time.Time
	PaymentMethod string
	PaymentStatus string
	ProductName   string
	Quantity      int
	Price         decimal.Decimal
}

// OrderLine is one product line of an order as shown to admins and on invoices.
type OrderLine struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// AdminOrder groups the report rows of a single order.
type AdminOrder struct {
	OrderID       uint            `json:"order_id"`
	UserEmail     string          `json:"user_email"`
	OrderDate     time.Time       `json:"order_date"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	Products      []OrderLine     `json:"products"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// InvoiceHeader is an order joined with its owner.
type InvoiceHeader struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	OrderDate     time.Time `json:"order_date"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
}

type Invoice struct {
	Order         InvoiceHeader   `json:"order"`
	Items         []OrderLine     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	InvoiceNumber string          `json:"invoice_number"`
}
