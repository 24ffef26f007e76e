package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"phPortfolio/internal/config"
)

// File is one uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result describes the stored asset as returned to the admin UI.
type Result struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	Format       string `json:"format"`
	ResourceType string `json:"resourceType"`
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType"`
	Bytes        int64  `json:"bytes"`
}

// Uploader stores a file on a public media host.
type Uploader interface {
	Upload(ctx context.Context, f File) (*Result, error)
}

// ErrEmptyFile is returned for zero-byte uploads.
var ErrEmptyFile = errors.New("empty file")

const (
	ResourceAuto  = "auto"
	ResourceRaw   = "raw"
	ResourceImage = "image"
	ResourceVideo = "video"
)

var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// plan is how one file will be named and classified on the host.
type plan struct {
	// PublicID carries the extension; hosts keep raw files verbatim.
	PublicID     string
	ResourceType string
	Ext          string
	Document     bool
}

func planUpload(f File, now time.Time) plan {
	ext := strings.ToLower(path.Ext(f.Name))
	document := false
	if _, ok := documentTypes[ext]; ok {
		document = true
	} else {
		mime := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
		for e, t := range documentTypes {
			if mime == t {
				document, ext = true, e
				break
			}
		}
	}

	p := plan{
		PublicID:     fmt.Sprintf("%s_%d%s", sanitizeStem(f.Name), now.UnixMilli(), ext),
		ResourceType: ResourceAuto,
		Ext:          strings.TrimPrefix(ext, "."),
		Document:     document,
	}
	if document {
		p.ResourceType = ResourceRaw
	}
	return p
}

// sanitizeStem lower-cases the base name without extension and collapses
// anything outside [a-z0-9_-] into a single underscore.
func sanitizeStem(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	stem = unsafeChars.ReplaceAllString(strings.ToLower(stem), "_")
	if stem == "" || stem == "_" || stem == "." {
		return "file"
	}
	return stem
}

// resourceTypeFor maps a MIME type to the host resource class.
func resourceTypeFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return ResourceImage
	case strings.HasPrefix(contentType, "video/"), strings.HasPrefix(contentType, "audio/"):
		return ResourceVideo
	default:
		return ResourceRaw
	}
}

// NewUploader builds the provider selected by cfg.Provider.
func NewUploader(ctx context.Context, cfg config.MediaConfig) (Uploader, error) {
	switch cfg.Provider {
	case config.MediaCloudinary, "":
		return NewCloudinaryUploader(cfg.Cloudinary, cfg.Folder)
	case config.MediaMinIO:
		return NewMinIOUploader(ctx, cfg.MinIO, cfg.Folder)
	default:
		return nil, fmt.Errorf("unsupported media provider %q", cfg.Provider)
	}
}
