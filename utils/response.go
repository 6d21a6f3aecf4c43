package utils

import "github.com/gin-gonic/gin"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Success writes data as a 200 JSON response.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, data)
}

// Error writes a client facing error message.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, ErrorResponse{Error: message})
}

// ErrorWithCause writes an error message together with the underlying cause.
func ErrorWithCause(ctx *gin.Context, status int, message string, cause error) {
	body := ErrorResponse{Error: message}
	if cause != nil {
		body.Details = cause.Error()
	}
	ctx.JSON(status, body)
}
