package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phPortfolio/internal/api/middleware"
)

const (
	msgInvalidSection = "Invalid section"
	msgIDRequired     = "ID required"
	msgNotDeletable   = "Cannot delete this section"
	msgNotSingleton   = "Section does not support upsert"
	msgInternal       = "Internal server error"
	msgUnauthorized   = "Unauthorized"
	msgNoFile         = "No file provided"
	msgUploadFailed   = "Upload failed"
	msgInitFailed     = "Initialization failed"
	msgTooManyLogins  = "Too many login attempts"
	msgBadCredentials = "Invalid email or password"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func Unauthorized(c *gin.Context)           { Error(c, http.StatusUnauthorized, msgUnauthorized) }
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func TooManyRequests(c *gin.Context)        { Error(c, http.StatusTooManyRequests, msgTooManyLogins) }

// Internal 记录错误并返回统一的 500 响应，细节不暴露给客户端。
func Internal(c *gin.Context, logMsg string, err error, fields ...zap.Field) {
	middleware.LoggerFromContext(c).Error(logMsg, append(fields, zap.Error(err))...)
	Error(c, http.StatusInternalServerError, msgInternal)
}
