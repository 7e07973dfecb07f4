package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Image is the stored file name (or object key)
// and is empty when no picture was uploaded.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Image       string          `gorm:"size:255" json:"image,omitempty"`
}

// ProductFields are the admin editable attributes of a Product.
type ProductFields struct {
	Name        string          `validate:"required,max=255"`
	Description string          `validate:"max=10000"`
	Price       decimal.Decimal `validate:"-"`
	Stock       int             `validate:"gte=0"`
}
