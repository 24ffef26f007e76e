package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/auth"
)

var (
	errLoginRateLimited = errors.New("login rate limit exceeded")
	errLoginLocked      = errors.New("account temporarily locked")
)

// LoginPolicy 控制登录限流与锁定。
type LoginPolicy struct {
	RateLimitPerHour int
	LockThreshold    int
	LockTTL          time.Duration
}

// AuthHandler 处理登录、会话查询与退出。
type AuthHandler struct {
	authService  *auth.AuthService
	limiter      LoginLimiter
	policy       LoginPolicy
	cookieDomain string
}

// NewAuthHandler 构造认证处理器；limiter 为 nil 时不做限流。
func NewAuthHandler(authService *auth.AuthService, limiter LoginLimiter, policy LoginPolicy, cookieDomain string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		limiter:      limiter,
		policy:       policy,
		cookieDomain: strings.TrimSpace(cookieDomain),
	}
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
}

func toUserResponse(p *auth.Principal) userResponse {
	return userResponse{ID: p.User.ID, Name: p.User.Name, Email: p.User.Email, Image: p.User.Image}
}

// SignIn 校验邮箱密码，写入会话 cookie 并返回令牌。
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	token, principal, err := h.signIn(c, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, errLoginRateLimited), errors.Is(err, errLoginLocked):
		TooManyRequests(c)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, msgBadCredentials)
		return
	default:
		Internal(c, "sign in failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": principal.Session.ExpiresAt,
		"user":      toUserResponse(principal),
	})
}

// Session 返回当前登录者与会话信息。
func (h *AuthHandler) Session(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		Unauthorized(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": toUserResponse(principal),
		"session": sessionResponse{
			ID:        principal.Session.ID,
			ExpiresAt: principal.Session.ExpiresAt,
			IPAddress: principal.Session.IPAddress,
			UserAgent: principal.Session.UserAgent,
		},
	})
}

// SignOut 删除会话并清除 cookie，未登录时同样返回成功。
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.signOut(c); err != nil {
		Internal(c, "sign out failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// signIn 包含限流、锁定与成功后的 cookie 写入，页面登录同样复用。
func (h *AuthHandler) signIn(c *gin.Context, email, password string) (string, *auth.Principal, error) {
	ctx := c.Request.Context()
	email = strings.ToLower(strings.TrimSpace(email))
	logger := middleware.LoggerFromContext(c).With(zap.String("email", email))

	if err := h.checkThrottle(ctx, c.ClientIP(), email); err != nil {
		logger.Info("login throttled", zap.Error(err))
		return "", nil, err
	}

	token, principal, err := h.authService.SignIn(ctx, email, password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logger.Info("login failed: invalid credentials")
			h.recordLoginFailure(ctx, email)
		}
		return "", nil, err
	}

	// 登录成功：清理失败计数
	if h.limiter != nil {
		_ = h.limiter.Del(ctx, loginFailKey(email)).Err()
	}
	logger.Info("login succeeded", zap.String("user_id", principal.User.ID))
	h.setSessionCookie(c, token)
	return token, principal, nil
}

func (h *AuthHandler) signOut(c *gin.Context) error {
	token := middleware.ExtractToken(c)
	defer h.clearSessionCookie(c)
	if token == "" {
		return nil
	}
	return h.authService.SignOut(c.Request.Context(), token)
}

func (h *AuthHandler) checkThrottle(ctx context.Context, ip, email string) error {
	if h.limiter == nil {
		return nil
	}

	// 每 IP+邮箱 每小时的尝试次数
	count, err := incrWithTTL(ctx, h.limiter, loginRateKey(ip, email, time.Now()), time.Hour)
	if err != nil {
		count = 0
	}
	if h.policy.RateLimitPerHour > 0 && count > int64(h.policy.RateLimitPerHour) {
		return errLoginRateLimited
	}

	if ttl, _ := h.limiter.TTL(ctx, loginLockKey(email)).Result(); ttl > 0 {
		return errLoginLocked
	}
	return nil
}

func (h *AuthHandler) recordLoginFailure(ctx context.Context, email string) {
	if h.limiter == nil || h.policy.LockThreshold <= 0 {
		return
	}
	count, err := incrWithTTL(ctx, h.limiter, loginFailKey(email), h.policy.LockTTL)
	if err != nil {
		return
	}
	if count >= int64(h.policy.LockThreshold) {
		_ = h.limiter.Set(ctx, loginLockKey(email), "1", h.policy.LockTTL).Err()
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	ttl := h.authService.SessionTTL()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		Path:     "/",
		Domain:   h.cookieDomain,
		Secure:   isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Domain:   h.cookieDomain,
		Secure:   isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func isHTTPSRequest(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}
