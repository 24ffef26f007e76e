package media

import (
	"errors"
	"strings"

	"github.com/minio/minio-go/v7"
)

// IsNoSuchBucket reports whether err means the bucket does not exist (S3/MinIO: NoSuchBucket).
func IsNoSuchBucket(err error) bool {
	if err == nil {
		return false
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return strings.EqualFold(strings.TrimSpace(minioErr.Code), "NoSuchBucket")
	}

	// some gateways only surface the code in the message
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "nosuchbucket") ||
		strings.Contains(lower, "specified bucket does not exist")
}
