package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`

	kind *Error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the catalogue entry e was derived from, so
// errors.Is(err, ErrCartEmpty) holds for wrapped copies too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.kind != nil {
		return e.kind
	}
	return e
}

// Wrap returns a copy of e carrying cause. The catalogue entry is never mutated.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: cause, kind: e.root()}
}

// WithMessage returns a copy of e with a more specific client-facing message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err, kind: e.root()}
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// From converts any error into an *Error, defaulting to ErrInternalServer.
func From(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer.Wrap(err)
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// ErrorMiddleware renders the last error attached with c.Error when the
// handler did not write a response itself.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := From(c.Errors.Last().Err)
		c.AbortWithStatusJSON(appErr.Code, appErr)
	}
}

// ErrDatabaseQuery hides storage failures behind a generic 500.
var ErrDatabaseQuery = New(http.StatusInternalServerError, "Database query error", nil)

// Validation error types
var (
	ErrValidation   = New(http.StatusBadRequest, "Validation error", nil)
	ErrInvalidImage = New(http.StatusBadRequest, "Invalid image", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid email or password", nil)
	ErrLoginRequired      = New(http.StatusUnauthorized, "Login required", nil)
	ErrEmailTaken         = New(http.StatusConflict, "Email already registered", nil)
)

// Business logic error types
var (
	ErrCartEmpty         = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrInsufficientStock = New(http.StatusConflict, "Insufficient stock", nil)
	ErrCheckoutFailed    = New(http.StatusInternalServerError, "Checkout failed", nil)
	ErrInvalidOrder      = New(http.StatusBadRequest, "Invalid order", nil)
)
