package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phPortfolio/internal/content"
	"phPortfolio/internal/metrics"
)

// SectionHandler 提供 /api/admin/:section 的通用增删改查。
type SectionHandler struct {
	store *content.Store
}

func NewSectionHandler(store *content.Store) *SectionHandler {
	return &SectionHandler{store: store}
}

// List 返回某个 section 的全部记录（单例 section 至多一条）。
func (h *SectionHandler) List(c *gin.Context) {
	section := c.Param("section")
	items, err := h.store.List(c.Request.Context(), section)
	if err != nil {
		h.fail(c, section, "list section failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create 插入一条记录，返回只含该记录的数组。
func (h *SectionHandler) Create(c *gin.Context) {
	section := c.Param("section")
	rec, _, ok := h.decode(c, section, false)
	if !ok {
		return
	}

	items, err := h.store.Create(c.Request.Context(), section, rec)
	metrics.ObserveContentWrite(section, "create", err)
	if err != nil {
		h.fail(c, section, "create record failed", err)
		return
	}
	c.JSON(http.StatusCreated, items)
}

// Update 只校验并写入请求体中出现的字段。
func (h *SectionHandler) Update(c *gin.Context) {
	section := c.Param("section")
	if _, err := content.Lookup(section); err != nil {
		BadRequest(c, msgInvalidSection)
		return
	}
	id, ok := queryID(c)
	if !ok {
		BadRequest(c, msgIDRequired)
		return
	}
	rec, fields, ok := h.decode(c, section, true)
	if !ok {
		return
	}

	items, err := h.store.Update(c.Request.Context(), section, id, rec, fields)
	metrics.ObserveContentWrite(section, "update", err)
	if err != nil {
		h.fail(c, section, "update record failed", err, zap.Uint("id", id))
		return
	}
	c.JSON(http.StatusOK, items)
}

// Upsert 供单例 section 的后台表单使用：有则更新，无则创建。
func (h *SectionHandler) Upsert(c *gin.Context) {
	section := c.Param("section")
	sec, err := content.Lookup(section)
	if err != nil {
		BadRequest(c, msgInvalidSection)
		return
	}
	if !sec.Singleton() {
		BadRequest(c, msgNotSingleton)
		return
	}
	rec, fields, ok := h.decode(c, section, true)
	if !ok {
		return
	}

	items, err := h.store.Upsert(c.Request.Context(), section, rec, fields)
	metrics.ObserveContentWrite(section, "upsert", err)
	if err != nil {
		h.fail(c, section, "upsert record failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Delete 仅允许集合类 section；id 不存在同样返回成功。
func (h *SectionHandler) Delete(c *gin.Context) {
	section := c.Param("section")
	sec, err := content.Lookup(section)
	if err != nil {
		BadRequest(c, msgInvalidSection)
		return
	}
	if !sec.Deletable() {
		BadRequest(c, msgNotDeletable)
		return
	}
	id, ok := queryID(c)
	if !ok {
		BadRequest(c, msgIDRequired)
		return
	}

	err = h.store.Delete(c.Request.Context(), section, id)
	metrics.ObserveContentWrite(section, "delete", err)
	if err != nil {
		h.fail(c, section, "delete record failed", err, zap.Uint("id", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// decode 解析请求体；partial 为 true 时只校验出现的字段。
func (h *SectionHandler) decode(c *gin.Context, section string, partial bool) (any, []string, bool) {
	sec, err := content.Lookup(section)
	if err != nil {
		BadRequest(c, msgInvalidSection)
		return nil, nil, false
	}
	body, err := c.GetRawData()
	if err != nil {
		BadRequest(c, "invalid request body")
		return nil, nil, false
	}
	decodeFn := sec.Decode
	if partial {
		decodeFn = sec.DecodePartial
	}
	rec, fields, err := decodeFn(body)
	if err != nil {
		BadRequest(c, err.Error())
		return nil, nil, false
	}
	return rec, fields, true
}

func (h *SectionHandler) fail(c *gin.Context, section, msg string, err error, fields ...zap.Field) {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		BadRequest(c, verr.Error())
	case errors.Is(err, content.ErrUnknownSection):
		BadRequest(c, msgInvalidSection)
	case errors.Is(err, content.ErrNotDeletable):
		BadRequest(c, msgNotDeletable)
	case errors.Is(err, content.ErrNotSingleton):
		BadRequest(c, msgNotSingleton)
	default:
		Internal(c, msg, err, append(fields, zap.String("section", section))...)
	}
}

func queryID(c *gin.Context) (uint, bool) {
	raw := c.Query("id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
