package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/config"
	"phPortfolio/internal/content"
)

// AdminSeeder 创建初始管理员账号。
type AdminSeeder interface {
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

// InitHandler 处理一次性的数据初始化。调用前已由 QuerySecretMiddleware 校验密钥。
type InitHandler struct {
	store    *content.Store
	admins   AdminSeeder
	admin    config.AdminConfig
	seedFile string
}

func NewInitHandler(store *content.Store, admins AdminSeeder, admin config.AdminConfig, seedFile string) *InitHandler {
	return &InitHandler{store: store, admins: admins, admin: admin, seedFile: seedFile}
}

func (h *InitHandler) Init(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	adminCreated := false
	if h.admin.Configured() {
		created, err := h.admins.EnsureAdmin(ctx, h.admin.Name, h.admin.Email, h.admin.Password)
		if err != nil {
			h.fail(c, logger, "ensure admin failed", err)
			return
		}
		adminCreated = created
	}

	seed, err := content.LoadSeed(h.seedFile)
	if err != nil {
		h.fail(c, logger, "load seed failed", err)
		return
	}

	res, err := h.store.Seed(ctx, seed)
	if err != nil {
		h.fail(c, logger, "seed content failed", err)
		return
	}

	if res.AlreadySeeded {
		c.JSON(http.StatusOK, gin.H{
			"message":      "Database already initialized",
			"seeded":       true,
			"inserted":     0,
			"adminCreated": adminCreated,
		})
		return
	}

	logger.Info("database initialized", zap.Int("inserted", res.Inserted), zap.Strings("sections", res.Sections))
	c.JSON(http.StatusOK, gin.H{
		"message":      "Database initialized successfully!",
		"seeded":       true,
		"inserted":     res.Inserted,
		"sections":     res.Sections,
		"adminCreated": adminCreated,
	})
}

func (h *InitHandler) fail(c *gin.Context, logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInitFailed, "details": err.Error()})
}
