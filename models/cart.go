package models

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidQuantity is returned when a cart line would drop below one unit.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrInvalidProductID is returned for product ids that are not positive integers.
var ErrInvalidProductID = errors.New("invalid product id")

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart maps product id (string form) to quantity. Items keeps insertion order
// so checkout walks lines in the order they were first added.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add increases the quantity of productID by delta, creating the line if absent.
func (c *Cart) Add(productID string, delta int) error {
	productID, err := cartKey(productID)
	if err != nil {
		return err
	}
	if delta < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += delta
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: delta})
	return nil
}

// Remove drops the line for productID entirely. Ids that do not parse match
// no line.
func (c *Cart) Remove(productID string) {
	productID, err := cartKey(productID)
	if err != nil {
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Quantity returns the units held for productID, zero when absent.
func (c *Cart) Quantity(productID string) int {
	productID, err := cartKey(productID)
	if err != nil {
		return 0
	}
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartItem {
	out := make([]CartItem, len(c.Items))
	copy(out, c.Items)
	return out
}

// Quantities returns the product id → quantity mapping.
func (c *Cart) Quantities() map[string]int {
	m := make(map[string]int, len(c.Items))
	for _, it := range c.Items {
		m[it.ProductID] = it.Quantity
	}
	return m
}

func (c *Cart) Len() int {
	return len(c.Items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ProductIDs returns the numeric ids of every line in insertion order.
func (c *Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c.Items))
	for _, it := range c.Items {
		if id, err := ParseProductID(it.ProductID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// cartKey is the canonical string form of productID, so "07" and "7" name
// the same line.
func cartKey(productID string) (string, error) {
	id, err := ParseProductID(productID)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(id), 10), nil
}

// ParseProductID converts the string form used as cart key into a row id.
func ParseProductID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidProductID
	}
	return uint(id), nil
}
