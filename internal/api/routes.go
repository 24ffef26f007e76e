package api

import (
	"github.com/gin-gonic/gin"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/auth"
	"phPortfolio/internal/config"
	"phPortfolio/internal/content"
	"phPortfolio/internal/media"
)

// Deps 汇总路由需要的服务。
type Deps struct {
	Config      *config.Config
	Store       *content.Store
	AuthService *auth.AuthService
	Uploader    media.Uploader
	// Limiter 为 nil 时关闭登录限流。
	Limiter LoginLimiter
}

// RegisterRoutes 注册 /api 与页面路由。
func RegisterRoutes(router *gin.Engine, deps Deps) {
	cfg := deps.Config

	authHandler := NewAuthHandler(deps.AuthService, deps.Limiter, LoginPolicy{
		RateLimitPerHour: cfg.Auth.LoginRateLimit,
		LockThreshold:    cfg.Auth.LoginLockThreshold,
		LockTTL:          cfg.Auth.LoginLockTTL,
	}, cfg.Auth.CookieDomain)
	sectionHandler := NewSectionHandler(deps.Store)
	portfolioHandler := NewPortfolioHandler(deps.Store)
	uploadHandler := NewUploadHandler(deps.Uploader)
	initHandler := NewInitHandler(deps.Store, deps.AuthService, cfg.Admin, cfg.Init.SeedFile)
	pageHandler := NewPageHandler(deps.Store, authHandler)

	requireSession := middleware.RequireSession(deps.AuthService)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/portfolio", portfolioHandler.Get)
		apiGroup.GET("/init", middleware.QuerySecretMiddleware(cfg.InitSecret()), initHandler.Init)
		apiGroup.POST("/upload", requireSession, uploadHandler.Upload)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/sign-in/email", authHandler.SignIn)
			authGroup.GET("/session", requireSession, authHandler.Session)
			authGroup.POST("/sign-out", authHandler.SignOut)
		}

		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(requireSession)
		{
			adminGroup.GET("/:section", sectionHandler.List)
			adminGroup.POST("/:section", sectionHandler.Create)
			adminGroup.PUT("/:section", sectionHandler.Update)
			adminGroup.PATCH("/:section", sectionHandler.Upsert)
			adminGroup.DELETE("/:section", sectionHandler.Delete)
		}
	}

	router.GET("/", pageHandler.Home)
	router.GET("/projects", pageHandler.Projects)
	router.GET("/login", pageHandler.LoginForm)
	router.POST("/login", pageHandler.Login)
	router.POST("/logout", pageHandler.Logout)
	router.GET("/admin", middleware.RequirePageSession(deps.AuthService), pageHandler.Admin)
}
