package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsIdentityAndLeavesCatalogueUntouched(t *testing.T) {
	cause := stderrors.New("pq: deadlock")
	err := ErrCheckoutFailed.Wrap(cause)

	assert.True(t, stderrors.Is(err, ErrCheckoutFailed))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, ErrCartEmpty))
	assert.Nil(t, ErrCheckoutFailed.Err)
}

func TestIs_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("checkout: %w", ErrInsufficientStock.WithMessage("Widget is out of stock"))
	assert.True(t, stderrors.Is(err, ErrInsufficientStock))
	assert.Equal(t, "Widget is out of stock", From(err).Message)
	assert.Equal(t, http.StatusConflict, From(err).Code)
}

func TestFrom_DefaultsToInternal(t *testing.T) {
	appErr := From(stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.True(t, stderrors.Is(appErr, ErrInternalServer))
}

func TestErrorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(ErrNotFound) })
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(ErrNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":404,"error":"Not found"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
