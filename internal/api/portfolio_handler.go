package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phPortfolio/internal/content"
)

// PortfolioHandler 返回公开站点所需的全部内容。
type PortfolioHandler struct {
	store *content.Store
}

func NewPortfolioHandler(store *content.Store) *PortfolioHandler {
	return &PortfolioHandler{store: store}
}

func (h *PortfolioHandler) Get(c *gin.Context) {
	p, err := h.store.Portfolio(c.Request.Context())
	if err != nil {
		Internal(c, "load portfolio failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}
