package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dulhara79/Nexora-sub000/internal/models"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Conflict sends 409.
func Conflict(c *gin.Context, err string) {
	c.JSON(http.StatusConflict, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// Error translates a core error kind into the matching HTTP status.
// The reason string of a ForbiddenError is surfaced verbatim so clients can
// distinguish "unauthorized" from "window_expired".
func Error(c *gin.Context, err error) {
	var fe *models.ForbiddenError
	switch {
	case errors.Is(err, models.ErrNotFound):
		NotFound(c, err.Error())
	case errors.As(err, &fe):
		Forbidden(c, fe.Reason)
	case errors.Is(err, models.ErrQuizClosed),
		errors.Is(err, models.ErrDuplicateAttempt),
		errors.Is(err, models.ErrNotAttempted):
		Conflict(c, err.Error())
	case errors.Is(err, models.ErrInvalidOption):
		BadRequest(c, err.Error())
	case errors.Is(err, models.ErrUnauthenticated):
		Unauthorized(c, err.Error())
	default:
		Internal(c, "internal error")
	}
}
