package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"monitor/pkg/client/s3"
)

// ExportRepo stores training-data exports in object storage.
type ExportRepo struct {
	StorageS3 *s3.StorageS3
}

func NewExportRepo(storageS3 *s3.StorageS3) *ExportRepo {
	return &ExportRepo{StorageS3: storageS3}
}

func (r *ExportRepo) UploadExport(ctx context.Context, key string, payload []byte, contentType string) error {
	if r.StorageS3 == nil || r.StorageS3.Client == nil {
		return fmt.Errorf("s3 client not initialized")
	}

	reader := bytes.NewReader(payload)

	_, err := r.StorageS3.Client.PutObject(
		ctx,
		r.StorageS3.Bucket,
		key,
		reader,
		int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}

	return nil
}

func (r *ExportRepo) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if r.StorageS3 == nil || r.StorageS3.Client == nil {
		return "", fmt.Errorf("s3 client not initialized")
	}

	reqParams := url.Values{}

	presignedURL, err := r.StorageS3.Client.PresignedGetObject(ctx, r.StorageS3.Bucket, key, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("presigned get object: %w", err)
	}
	return presignedURL.String(), nil
}
