package controllers

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/common/logger"
	"github.com/bhataakib02/retail-app/middleware"
	"github.com/bhataakib02/retail-app/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	cart     CartServiceAPI
	checkout CheckoutServiceAPI
	orders   OrderServiceAPI
}

func NewOrderController(cart CartServiceAPI, checkout CheckoutServiceAPI, orders OrderServiceAPI) *OrderController {
	return &OrderController{cart: cart, checkout: checkout, orders: orders}
}

// CheckoutPage handles GET /checkout
func (oc *OrderController) CheckoutPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess.Cart.IsEmpty() {
		redirectWithFlash(c, "/cart", session.FlashWarning, "Your cart is empty.")
		return
	}
	view, err := oc.cart.View(c.Request.Context(), &sess.Cart)
	if err != nil {
		handleServiceError(c, "checkout", err)
		return
	}
	render(c, http.StatusOK, "checkout", gin.H{
		"lines": view.Lines,
		"total": view.Total,
	})
}

// Checkout handles POST /checkout. The cart is emptied only after the
// order has committed.
func (oc *OrderController) Checkout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	order, err := oc.checkout.Checkout(c.Request.Context(), sess.UserID, &sess.Cart, c.PostForm("payment_method"))
	if err != nil {
		if errors.Is(err, apperrors.ErrCartEmpty) {
			redirectWithFlash(c, "/cart", session.FlashWarning, "Your cart is empty.")
			return
		}
		handleServiceError(c, "checkout", err)
		return
	}

	sess.Cart.Clear()
	logger.Info(c, "Checkout completed", zap.Uint("order_id", order.ID))
	redirectWithFlash(c, fmt.Sprintf("/order_success/%d", order.ID), session.FlashSuccess, "Order placed successfully!")
}

// OrderSuccess handles GET /order_success/:order_id
func (oc *OrderController) OrderSuccess(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		render(c, http.StatusNotFound, "order_success", gin.H{"error": "Order not found"})
		return
	}
	order, err := oc.orders.GetOrder(c.Request.Context(), viewer(c), id)
	if err != nil {
		handleServiceError(c, "order_success", err)
		return
	}
	render(c, http.StatusOK, "order_success", gin.H{"order_id": order.ID, "order": order})
}

// Orders handles GET /orders
func (oc *OrderController) Orders(c *gin.Context) {
	orders, err := oc.orders.ListForUser(c.Request.Context(), middleware.CurrentSession(c).UserID)
	if err != nil {
		handleServiceError(c, "orders", err)
		return
	}
	render(c, http.StatusOK, "orders", gin.H{"orders": orders})
}

// Invoice handles GET /invoice/:order_id
func (oc *OrderController) Invoice(c *gin.Context) {
	id, ok := paramID(c, "order_id")
	if !ok {
		render(c, http.StatusNotFound, "invoice", gin.H{"error": "Order not found"})
		return
	}
	inv, err := oc.orders.Invoice(c.Request.Context(), viewer(c), id)
	if err != nil {
		handleServiceError(c, "invoice", err)
		return
	}
	render(c, http.StatusOK, "invoice", gin.H{
		"order":          inv.Order,
		"items":          inv.Items,
		"total":          inv.Total,
		"invoice_number": inv.InvoiceNumber,
	})
}

// AdminOrders handles GET /admin/orders
func (oc *OrderController) AdminOrders(c *gin.Context) {
	orders, err := oc.orders.AdminOrders(c.Request.Context())
	if err != nil {
		handleServiceError(c, "admin_orders", err)
		return
	}
	render(c, http.StatusOK, "admin_orders", gin.H{"orders": orders})
}
