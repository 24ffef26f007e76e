package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/auth"
	"phPortfolio/internal/content"
)

// PageHandler 渲染公开页面与后台页面。
type PageHandler struct {
	store *content.Store
	auth  *AuthHandler
}

func NewPageHandler(store *content.Store, authHandler *AuthHandler) *PageHandler {
	return &PageHandler{store: store, auth: authHandler}
}

type sectionCount struct {
	Name  string
	Count int64
}

func (h *PageHandler) Home(c *gin.Context) {
	p, err := h.store.Portfolio(c.Request.Context())
	if err != nil {
		h.renderError(c, "load portfolio failed", err)
		return
	}

	title := "Portfolio"
	if p.Hero != nil {
		title = p.Hero.Title
	}
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":       title,
		"Portfolio":   p,
		"Featured":    p.FeaturedProjects(),
		"SkillGroups": p.SkillsByCategory(),
	})
}

func (h *PageHandler) Projects(c *gin.Context) {
	p, err := h.store.Portfolio(c.Request.Context())
	if err != nil {
		h.renderError(c, "load projects failed", err)
		return
	}
	c.HTML(http.StatusOK, "projects.html", gin.H{
		"Title":    "Projects",
		"Projects": p.Projects,
	})
}

func (h *PageHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Sign in", "Email": ""})
}

// Login 处理登录表单，成功后跳转到后台。
func (h *PageHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, _, err := h.auth.signIn(c, email, password)
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}

	status, msg := http.StatusInternalServerError, msgInternal
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, msgBadCredentials
	case errors.Is(err, errLoginRateLimited), errors.Is(err, errLoginLocked):
		status, msg = http.StatusTooManyRequests, msgTooManyLogins
	default:
		middleware.LoggerFromContext(c).Error("page sign in failed", zap.Error(err))
	}
	c.HTML(status, "login.html", gin.H{"Title": "Sign in", "Email": email, "Error": msg})
}

func (h *PageHandler) Logout(c *gin.Context) {
	if err := h.auth.signOut(c); err != nil {
		middleware.LoggerFromContext(c).Error("page sign out failed", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// Admin 展示当前登录者与各 section 的记录数。
func (h *PageHandler) Admin(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	counts, err := h.store.Counts(c.Request.Context())
	if err != nil {
		h.renderError(c, "count sections failed", err)
		return
	}
	sections := make([]sectionCount, 0, len(counts))
	for _, name := range content.Names() {
		sections = append(sections, sectionCount{Name: name, Count: counts[name]})
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title":    "Admin",
		"User":     principal.User,
		"Sections": sections,
	})
}

func (h *PageHandler) renderError(c *gin.Context, msg string, err error) {
	middleware.LoggerFromContext(c).Error(msg, zap.Error(err))
	c.String(http.StatusInternalServerError, msgInternal)
}
