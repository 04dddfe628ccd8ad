package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint writes.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Data: data})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, Response{Error: &ErrorBody{Code: code, Message: message}})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, Response{Error: &ErrorBody{Code: code, Message: message, Details: details}})
}

// CustomError writes the error envelope for whatever the caller has at hand:
// a plain message, a field-keyed validation map, or an error value.
func CustomError(c *gin.Context, statusCode int, code string, message any) {
	switch m := message.(type) {
	case string:
		Error(c, statusCode, code, m)
	case map[string]string:
		ErrorWithDetails(c, statusCode, code, "Validation failed", m)
	case error:
		if statusCode >= 500 {
			_ = c.Error(m)
			Error(c, statusCode, code, "Internal server error")
			return
		}
		Error(c, statusCode, code, m.Error())
	default:
		ErrorWithDetails(c, statusCode, code, "Request failed", m)
	}
}
