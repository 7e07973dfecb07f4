package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/middleware"
	"github.com/bhataakib02/retail-app/session"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cart CartServiceAPI
}

func NewCartController(cart CartServiceAPI) *CartController {
	return &CartController{cart: cart}
}

// AddToCart handles GET /add_to_cart/:id, adding one unit.
func (cc *CartController) AddToCart(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := cc.cart.Add(&sess.Cart, c.Param("id"), 1); err != nil {
		handleServiceError(c, "products", err)
		return
	}
	redirectWithFlash(c, "/products", session.FlashSuccess, "Product added to cart.")
}

// RemoveFromCart handles GET /remove_from_cart/:id, dropping the whole line.
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	cc.cart.Remove(&sess.Cart, c.Param("id"))
	redirectWithFlash(c, "/cart", session.FlashInfo, "Product removed from cart.")
}

// productRef accepts a product id sent either as a JSON number or string.
type productRef string

func (p *productRef) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = productRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = productRef(n.String())
	return nil
}

type AjaxAddRequest struct {
	ProductID productRef `json:"product_id" binding:"required"`
	Quantity  *int       `json:"quantity"`
}

// AjaxAddToCart handles POST /ajax/add_to_cart. Quantity defaults to 1.
func (cc *CartController) AjaxAddToCart(c *gin.Context) {
	var req AjaxAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid JSON body"})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sess := middleware.CurrentSession(c)
	if err := cc.cart.Add(&sess.Cart, string(req.ProductID), quantity); err != nil {
		appErr := apperrors.From(err)
		c.JSON(appErr.Code, gin.H{"status": "error", "message": appErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Product added to cart",
		"cart_count": sess.Cart.Len(),
	})
}

// ViewCart handles GET /cart. It never changes the cart.
func (cc *CartController) ViewCart(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	view, err := cc.cart.View(c.Request.Context(), &sess.Cart)
	if err != nil {
		handleServiceError(c, "cart", err)
		return
	}
	render(c, http.StatusOK, "cart", gin.H{
		"cart":     view.Cart,
		"products": view.Products,
		"lines":    view.Lines,
		"total":    view.Total,
	})
}
