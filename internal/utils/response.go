package utils

import (
	"github.com/gin-gonic/gin"
)

// Response defines the standard API response envelope.
type Response struct {
	Success    bool        `json:"success"`
	Result     interface{} `json:"result"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message"`
}

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Count int64 `json:"count"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, result interface{}, message string) {
	c.JSON(code, Response{
		Success: true,
		Result:  result,
		Message: message,
	})
}

// SuccessWithPagination writes a success response with pagination metadata.
func SuccessWithPagination(c *gin.Context, code int, result interface{}, pagination *Pagination, message string) {
	c.JSON(code, Response{
		Success:    true,
		Result:     result,
		Pagination: pagination,
		Message:    message,
	})
}

// Error writes a non-success response. The result is passed through as-is so
// empty-result responses carry an empty slice and lookup misses a null.
func Error(c *gin.Context, code int, result interface{}, message string) {
	c.JSON(code, Response{
		Success: false,
		Result:  result,
		Message: message,
	})
}
