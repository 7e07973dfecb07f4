package controllers

import (
	"net/http"
	"strconv"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/common/logger"
	"github.com/bhataakib02/retail-app/middleware"
	"github.com/bhataakib02/retail-app/services"
	"github.com/bhataakib02/retail-app/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// render writes a page payload. Pending flashes are consumed and sent with
// it together with the signed in user, if any.
func render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := middleware.CurrentSession(c)
	flashes := sess.PopFlashes()
	if flashes == nil {
		flashes = []session.Flash{}
	}
	data["page"] = page
	data["flashes"] = flashes
	data["loggedin"] = sess.LoggedIn
	if sess.LoggedIn {
		data["username"] = sess.Username
		data["role"] = sess.Role
	}
	c.JSON(status, data)
}

// redirectWithFlash queues a message for the next page and sends the
// browser there with 303 so a refresh does not resubmit the form.
func redirectWithFlash(c *gin.Context, location, category, message string) {
	middleware.CurrentSession(c).AddFlash(category, message)
	c.Redirect(http.StatusSeeOther, location)
}

// handleServiceError renders page with the error's status and a danger
// flash. Server side failures are logged; their detail never reaches the
// client.
func handleServiceError(c *gin.Context, page string, err error) {
	appErr := apperrors.From(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(c, "Request failed", err, zap.String("page", page))
	}
	middleware.CurrentSession(c).AddFlash(session.FlashDanger, appErr.Message)
	render(c, appErr.Code, page, gin.H{"error": appErr.Message})
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func viewer(c *gin.Context) services.Viewer {
	sess := middleware.CurrentSession(c)
	return services.Viewer{UserID: sess.UserID, IsAdmin: sess.IsAdmin == 1}
}
