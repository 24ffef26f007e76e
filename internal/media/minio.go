package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"phPortfolio/internal/config"
)

type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIOUploader writes objects to a public-read bucket and builds URLs from the public endpoint.
type MinIOUploader struct {
	client    objectPutter
	bucket    string
	folder    string
	publicURL string
	now       func() time.Time
}

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// NewMinIOUploader creates the client and makes sure the bucket exists and allows anonymous reads.
func NewMinIOUploader(ctx context.Context, cfg config.MinIOConfig, folder string) (*MinIOUploader, error) {
	bucketLookup := minio.BucketLookupAuto
	switch strings.ToLower(strings.TrimSpace(cfg.BucketLookup)) {
	case "", "auto":
	case "dns":
		bucketLookup = minio.BucketLookupDNS
	case "path":
		bucketLookup = minio.BucketLookupPath
	default:
		return nil, fmt.Errorf("invalid minio bucket lookup %q", cfg.BucketLookup)
	}

	publicURL, err := publicBaseURL(cfg)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil && !IsNoSuchBucket(err) {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
		if err := client.SetBucketPolicy(ctx, cfg.Bucket, fmt.Sprintf(publicReadPolicy, cfg.Bucket)); err != nil {
			return nil, fmt.Errorf("set bucket policy %q: %w", cfg.Bucket, err)
		}
	}

	return &MinIOUploader{
		client:    client,
		bucket:    cfg.Bucket,
		folder:    strings.Trim(folder, "/"),
		publicURL: publicURL,
		now:       time.Now,
	}, nil
}

func publicBaseURL(cfg config.MinIOConfig) (string, error) {
	raw := strings.TrimSpace(cfg.PublicEndpoint)
	if raw == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		raw = scheme + "://" + cfg.Endpoint
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse minio public endpoint: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid minio public endpoint, host missing")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func (u *MinIOUploader) Upload(ctx context.Context, f File) (*Result, error) {
	if len(f.Data) == 0 {
		return nil, ErrEmptyFile
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(f.Data)
	}

	p := planUpload(f, u.now())
	key := p.PublicID
	if u.folder != "" {
		key = u.folder + "/" + key
	}

	info, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(f.Data), int64(len(f.Data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	resourceType := ResourceRaw
	if !p.Document {
		resourceType = resourceTypeFor(contentType)
	}
	size := info.Size
	if size == 0 {
		size = int64(len(f.Data))
	}
	return &Result{
		URL:          u.publicURL + "/" + u.bucket + "/" + key,
		PublicID:     key,
		Format:       p.Ext,
		ResourceType: resourceType,
		FileName:     f.Name,
		FileType:     contentType,
		Bytes:        size,
	}, nil
}
