package psql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"monitor/internal/domain/entity"
)

type GormSensorDataRepo struct {
	DB *gorm.DB
}

func NewGormSensorDataRepo(db *gorm.DB) *GormSensorDataRepo {
	return &GormSensorDataRepo{DB: db}
}

func (r *GormSensorDataRepo) Insert(ctx context.Context, reading *entity.SensorReading) error {
	return r.DB.WithContext(ctx).Create(reading).Error
}

func (r *GormSensorDataRepo) Recent(ctx context.Context, limit int) ([]entity.SensorReading, error) {
	var readings []entity.SensorReading
	err := r.DB.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("recent sensor data: %w", err)
	}
	return readings, nil
}

type GormPredictionRepo struct {
	DB *gorm.DB
}

func NewGormPredictionRepo(db *gorm.DB) *GormPredictionRepo {
	return &GormPredictionRepo{DB: db}
}

func (r *GormPredictionRepo) Insert(ctx context.Context, result *entity.PredictionResult) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

func (r *GormPredictionRepo) Recent(ctx context.Context, limit int) ([]entity.PredictionResult, error) {
	var results []entity.PredictionResult
	err := r.DB.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("recent predictions: %w", err)
	}
	return results, nil
}

func (r *GormPredictionRepo) LatestByMachine(ctx context.Context, machineID string) (*entity.PredictionResult, error) {
	result := &entity.PredictionResult{}
	err := r.DB.WithContext(ctx).Where("machine_id = ?", machineID).Order("timestamp DESC").First(result).Error
	if err != nil {
		return nil, fmt.Errorf("latest prediction for %s: %w", machineID, err)
	}
	return result, nil
}

type GormAnalysisRepo struct {
	DB *gorm.DB
}

func NewGormAnalysisRepo(db *gorm.DB) *GormAnalysisRepo {
	return &GormAnalysisRepo{DB: db}
}

func (r *GormAnalysisRepo) Insert(ctx context.Context, record *entity.AnalysisRecord) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

func (r *GormAnalysisRepo) Recent(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	var records []entity.AnalysisRecord
	err := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("recent analyses: %w", err)
	}
	return records, nil
}
