package routes

import (
	commonmw "github.com/bhataakib02/retail-app/common/middleware"
	"github.com/bhataakib02/retail-app/controllers"
	"github.com/bhataakib02/retail-app/middleware"
	"github.com/bhataakib02/retail-app/models"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the controllers served by the storefront.
type Handlers struct {
	Auth    *controllers.AuthController
	Admin   *controllers.AdminController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
}

// RegisterRoutes mounts every storefront route on r. The session middleware
// must already be installed. limiter throttles the credential forms; nil
// disables throttling.
func RegisterRoutes(r gin.IRouter, h Handlers, limiter *commonmw.RateLimiter) {
	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if limiter != nil {
		throttle = commonmw.RateLimitMiddleware(limiter)
	}
	user := middleware.RequireRole(models.RoleUser)
	admin := middleware.RequireRole(models.RoleAdmin)

	r.GET("/", controllers.Index)
	r.GET("/_health", controllers.Health)

	r.GET("/register", h.Auth.RegisterForm)
	r.POST("/register", throttle, h.Auth.Register)
	r.GET("/login", h.Auth.LoginForm)
	r.POST("/login", throttle, h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	r.GET("/products", h.Product.Products)
	r.GET("/user", user, h.Product.UserDashboard)

	r.GET("/add_to_cart/:id", h.Cart.AddToCart)
	r.POST("/ajax/add_to_cart", middleware.RequireRoleJSON(models.RoleUser), h.Cart.AjaxAddToCart)
	r.GET("/remove_from_cart/:id", h.Cart.RemoveFromCart)
	r.GET("/cart", h.Cart.ViewCart)

	r.GET("/checkout", user, h.Order.CheckoutPage)
	r.POST("/checkout", user, h.Order.Checkout)
	r.GET("/order_success/:order_id", middleware.RequireLogin(), h.Order.OrderSuccess)
	r.GET("/orders", user, h.Order.Orders)
	r.GET("/invoice/:order_id", middleware.RequireLogin(), h.Order.Invoice)

	r.GET("/admin", admin, h.Admin.Dashboard)
	r.GET("/admin_products", admin, h.Product.AdminProducts)
	r.GET("/add_product", admin, h.Product.AddProductForm)
	r.POST("/add_product", admin, h.Product.AddProduct)
	r.GET("/edit_product/:id", admin, h.Product.EditProductForm)
	r.POST("/edit_product/:id", admin, h.Product.EditProduct)
	r.GET("/delete_product/:id", admin, h.Product.DeleteProduct)

	adminGroup := r.Group("/admin", admin)
	{
		adminGroup.GET("/orders", h.Order.AdminOrders)
		adminGroup.GET("/users", h.Admin.Users)
		adminGroup.GET("/edit_user/:id", h.Admin.EditUserForm)
		adminGroup.POST("/edit_user/:id", h.Admin.EditUser)
		adminGroup.GET("/delete_user/:id", h.Admin.DeleteUser)
	}
}
