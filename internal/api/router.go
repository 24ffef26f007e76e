package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/metrics"
	"phPortfolio/internal/web"
)

// NewRouter 构建 Gin 引擎：日志、指标、恢复中间件，以及健康检查、/metrics 与页面模板。
func NewRouter(logger *zap.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.ZapLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			middleware.LoggerFromContext(c).Error("panic recovered", zap.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		}),
	)

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	return router, nil
}
