package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesAndKeepsOrder(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("7", 1))
	require.NoError(t, c.Add("3", 2))
	require.NoError(t, c.Add("7", 4))

	assert.Equal(t, []CartItem{{ProductID: "7", Quantity: 5}, {ProductID: "3", Quantity: 2}}, c.Lines())
	assert.Equal(t, map[string]int{"7": 5, "3": 2}, c.Quantities())
	assert.Equal(t, []uint{7, 3}, c.ProductIDs())
	assert.Equal(t, 2, c.Len())
}

func TestCart_AddRejectsBadInput(t *testing.T) {
	var c Cart
	assert.ErrorIs(t, c.Add("1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add("1", -3), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add("abc", 1), ErrInvalidProductID)
	assert.ErrorIs(t, c.Add("0", 1), ErrInvalidProductID)
	assert.True(t, c.IsEmpty())
}

func TestCart_RemoveAndClear(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("1", 1))
	require.NoError(t, c.Add("2", 1))
	require.NoError(t, c.Add("3", 1))

	c.Remove("2")
	c.Remove("99")
	assert.Equal(t, []uint{1, 3}, c.ProductIDs())
	assert.Equal(t, 0, c.Quantity("2"))

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Len())
}

func TestCart_LinesIsACopy(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("1", 1))
	lines := c.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, c.Quantity("1"))
}

func TestInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-0001", InvoiceNumber(1))
	assert.Equal(t, "INV-0420", InvoiceNumber(420))
	assert.Equal(t, "INV-12345", InvoiceNumber(12345))
}

func TestCart_AddNormalizesProductID(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add(" 07", 1))
	require.NoError(t, c.Add("7", 1))
	assert.Equal(t, []CartItem{{ProductID: "7", Quantity: 2}}, c.Lines())
}

func TestCart_RemoveNormalizesProductID(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("1", 2))
	require.NoError(t, c.Add("2", 1))

	assert.Equal(t, 2, c.Quantity("01"))
	c.Remove("01")
	c.Remove("abc")
	assert.Equal(t, []uint{2}, c.ProductIDs())

	c.Remove(" 2")
	assert.True(t, c.IsEmpty())
}
