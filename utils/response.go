package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the body of every message reply. IsError is only set on
// replies produced by the generic error handler.
type Response struct {
	Message string `json:"message"`
	IsError bool   `json:"isError,omitempty"`
}

// Success writes data as the whole body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, &Response{Message: message})
}

func Created(c *gin.Context, message string) {
	c.JSON(http.StatusCreated, &Response{Message: message})
}

// Error responses
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &Response{Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, &Response{Message: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, &Response{Message: message})
}

func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, &Response{Message: message})
}

func PayloadTooLarge(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, &Response{Message: message})
}

func InternalError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, &Response{
		Message: message,
		IsError: true,
	})
}

func ServiceUnavailable(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, &Response{Message: message, IsError: true})
}
