package controllers

import (
	"net/http"

	"github.com/bhataakib02/retail-app/common/logger"
	"github.com/bhataakib02/retail-app/middleware"
	"github.com/bhataakib02/retail-app/services"
	"github.com/bhataakib02/retail-app/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	auth AuthServiceAPI
}

func NewAuthController(auth AuthServiceAPI) *AuthController {
	return &AuthController{auth: auth}
}

// RegisterForm handles GET /register
func (ac *AuthController) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "register", nil)
}

// Register handles POST /register
func (ac *AuthController) Register(c *gin.Context) {
	in := services.RegisterInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	user, err := ac.auth.Register(c.Request.Context(), in)
	if err != nil {
		handleServiceError(c, "register", err)
		return
	}
	logger.Info(c, "User registered", zap.Uint("user_id", user.ID))
	redirectWithFlash(c, "/login", session.FlashSuccess, "Registration successful! Please login.")
}

// LoginForm handles GET /login
func (ac *AuthController) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login", nil)
}

// Login handles POST /login. Admins land on /admin, everyone else on /user.
func (ac *AuthController) Login(c *gin.Context) {
	user, err := ac.auth.Authenticate(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		handleServiceError(c, "login", err)
		return
	}

	middleware.RotateSession(c)
	middleware.CurrentSession(c).Login(user)
	logger.Info(c, "User logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))

	if user.IsAdmin() {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.Redirect(http.StatusSeeOther, "/user")
}

// Logout handles GET /logout. The whole session is cleared, cart included,
// and the old session id stops resolving.
func (ac *AuthController) Logout(c *gin.Context) {
	middleware.CurrentSession(c).Clear()
	middleware.RotateSession(c)
	redirectWithFlash(c, "/login", session.FlashInfo, "Logged out successfully.")
}
