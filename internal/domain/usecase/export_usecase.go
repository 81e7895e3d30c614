package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"monitor/pkg/utils"
)

type ObjectStore interface {
	UploadExport(ctx context.Context, key string, payload []byte, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

const (
	defaultExportRows = 1000
	exportURLExpiry   = 24 * time.Hour
)

// ExportUseCase dumps recent readings as CSV to object storage so the
// model-training side can pull them, and hands back a presigned URL.
type ExportUseCase struct {
	SensorRepo SensorDataRepo
	Store      ObjectStore
}

func NewExportUseCase(sr SensorDataRepo, store ObjectStore) *ExportUseCase {
	return &ExportUseCase{SensorRepo: sr, Store: store}
}

func (u *ExportUseCase) Export(ctx context.Context, limit int) (string, error) {
	if limit <= 0 || limit > defaultExportRows {
		limit = defaultExportRows
	}

	readings, err := u.SensorRepo.Recent(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("load readings for export: %w", err)
	}

	payload, err := utils.ReadingsToCSV(readings)
	if err != nil {
		return "", fmt.Errorf("encode export csv: %w", err)
	}

	key := "exports/" + uuid.New().String() + "/readings.csv"
	if err := u.Store.UploadExport(ctx, key, payload, "text/csv"); err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}

	return u.Store.GetPresignedURL(ctx, key, exportURLExpiry)
}
