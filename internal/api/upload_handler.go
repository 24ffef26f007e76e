package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/media"
	"phPortfolio/internal/metrics"
)

// UploadHandler 把后台上传的文件转存到媒体托管服务。
type UploadHandler struct {
	uploader media.Uploader
}

func NewUploadHandler(uploader media.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload 读取 multipart 字段 file 并上传，返回可公开访问的地址。
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, msgNoFile)
		return
	}

	logger := middleware.LoggerFromContext(c).With(
		zap.String("file_name", header.Filename),
		zap.Int64("size", header.Size),
	)

	f, err := header.Open()
	if err != nil {
		logger.Error("open uploaded file failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, msgUploadFailed)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error("read uploaded file failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, msgUploadFailed)
		return
	}

	res, err := h.uploader.Upload(c.Request.Context(), media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if errors.Is(err, media.ErrEmptyFile) {
		logger.Info("empty upload rejected")
		BadRequest(c, msgNoFile)
		return
	}
	if err != nil {
		metrics.ObserveUpload("", 0, err)
		logger.Error("upload to media host failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, msgUploadFailed)
		return
	}
	metrics.ObserveUpload(res.ResourceType, res.Bytes, nil)

	logger.Info("file uploaded", zap.String("public_id", res.PublicID), zap.String("resource_type", res.ResourceType))
	c.JSON(http.StatusOK, res)
}
