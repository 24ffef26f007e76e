package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phPortfolio/internal/auth"
)

const (
	// SessionCookieName 保存登录令牌的 HttpOnly cookie。
	SessionCookieName = "portfolio_session"
	principalKey      = "principal"
	loginPath         = "/login"
)

// Authenticator 校验令牌并返回登录者。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// RequireSession 保护 API 路由，未登录返回 401 JSON。
func RequireSession(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, authn) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequirePageSession 保护页面路由，未登录跳转到登录页。
func RequirePageSession(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, authn) {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, authn Authenticator) bool {
	token := ExtractToken(c)
	if token == "" {
		return false
	}
	principal, err := authn.Authenticate(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrSessionNotFound) {
			LoggerFromContext(c).Error("authenticate session failed", zap.Error(err))
		}
		return false
	}
	c.Set(principalKey, principal)
	return true
}

// ExtractToken 依次读取会话 cookie 与 Authorization: Bearer。
func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token)
	}

	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// PrincipalFromContext 返回中间件注入的登录者。
func PrincipalFromContext(c *gin.Context) (*auth.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*auth.Principal)
	return principal, ok && principal != nil
}
