package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"phPortfolio/internal/config"
)

type assetAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader sends files to Cloudinary as base64 data URIs.
type CloudinaryUploader struct {
	api    assetAPI
	folder string
	now    func() time.Time
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{api: &cld.Upload, folder: folder, now: time.Now}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, f File) (*Result, error) {
	if len(f.Data) == 0 {
		return nil, ErrEmptyFile
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(f.Data)
	}

	p := planUpload(f, u.now())
	params := uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: p.ResourceType,
	}
	if p.Document {
		params.PublicID = p.PublicID
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(f.Data))
	res, err := u.api.Upload(ctx, dataURI, params)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("cloudinary upload: empty response")
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	format := res.Format
	if format == "" {
		format = p.Ext
	}
	return &Result{
		URL:          res.SecureURL,
		PublicID:     res.PublicID,
		Format:       format,
		ResourceType: res.ResourceType,
		FileName:     f.Name,
		FileType:     contentType,
		Bytes:        int64(res.Bytes),
	}, nil
}
