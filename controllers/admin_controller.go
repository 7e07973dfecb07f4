package controllers

import (
	"net/http"

	"github.com/bhataakib02/retail-app/middleware"
	"github.com/bhataakib02/retail-app/services"
	"github.com/bhataakib02/retail-app/session"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	auth      AuthServiceAPI
	dashboard DashboardServiceAPI
}

func NewAdminController(auth AuthServiceAPI, dashboard DashboardServiceAPI) *AdminController {
	return &AdminController{auth: auth, dashboard: dashboard}
}

// Dashboard handles GET /admin
func (ac *AdminController) Dashboard(c *gin.Context) {
	stats, err := ac.dashboard.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, "admin_dashboard", err)
		return
	}
	render(c, http.StatusOK, "admin_dashboard", gin.H{
		"total_users":    stats.TotalUsers,
		"total_products": stats.TotalProducts,
		"total_orders":   stats.TotalOrders,
		"products":       stats.Products,
	})
}

// Users handles GET /admin/users
func (ac *AdminController) Users(c *gin.Context) {
	users, err := ac.auth.ListUsers(c.Request.Context())
	if err != nil {
		handleServiceError(c, "admin_users", err)
		return
	}
	render(c, http.StatusOK, "admin_users", gin.H{"users": users})
}

// EditUserForm handles GET /admin/edit_user/:id
func (ac *AdminController) EditUserForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		render(c, http.StatusNotFound, "edit_user", gin.H{"error": "User not found"})
		return
	}
	user, err := ac.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, "edit_user", err)
		return
	}
	render(c, http.StatusOK, "edit_user", gin.H{"user": user})
}

// EditUser handles POST /admin/edit_user/:id
func (ac *AdminController) EditUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		render(c, http.StatusNotFound, "edit_user", gin.H{"error": "User not found"})
		return
	}
	in := services.UserUpdate{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
	}
	if err := ac.auth.UpdateUser(c.Request.Context(), id, in); err != nil {
		handleServiceError(c, "edit_user", err)
		return
	}
	redirectWithFlash(c, "/admin/users", session.FlashSuccess, "User updated successfully.")
}

// DeleteUser handles GET /admin/delete_user/:id. An admin cannot delete the
// account they are signed in with.
func (ac *AdminController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		render(c, http.StatusNotFound, "admin_users", gin.H{"error": "User not found"})
		return
	}
	if id == middleware.CurrentSession(c).UserID {
		redirectWithFlash(c, "/admin/users", session.FlashDanger, "You cannot delete your own account.")
		return
	}
	if err := ac.auth.DeleteUser(c.Request.Context(), id); err != nil {
		handleServiceError(c, "admin_users", err)
		return
	}
	redirectWithFlash(c, "/admin/users", session.FlashDanger, "User deleted successfully.")
}
