package util

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Business codes returned next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Success writes data as the JSON body.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Error writes the uniform error body.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Fail maps err to its status and message. Causes of server errors are
// logged, never returned.
func Fail(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	_ = c.Error(err)
	Error(c, appErr.Status, appErr.Code, appErr.Message)
}

// Abort is Fail for middleware: the handler chain stops after the response.
func Abort(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
