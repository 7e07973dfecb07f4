package middleware

import (
	"net/http"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/gin-gonic/gin"
)

// LoginPath is where unauthorised browsers are sent.
const LoginPath = "/login"

// RequireRole lets the request through only when the session is logged in
// with one of roles. Anyone else is redirected to the login page.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		for _, role := range roles {
			if sess.HasRole(role) {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}

// RequireLogin accepts any logged in session regardless of role.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).LoggedIn {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoleJSON is RequireRole for script callers: it answers 401 with a
// status/message body instead of redirecting.
func RequireRoleJSON(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		for _, role := range roles {
			if sess.HasRole(role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(apperrors.ErrLoginRequired.Code, gin.H{
			"status":  "error",
			"message": apperrors.ErrLoginRequired.Message,
		})
	}
}
