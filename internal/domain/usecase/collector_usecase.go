package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"monitor/internal/domain/entity"
	"monitor/pkg/utils"
)

type ReadingSource interface {
	Next() *entity.SensorReading
}

type SensorDataRepo interface {
	Insert(ctx context.Context, reading *entity.SensorReading) error
	Recent(ctx context.Context, limit int) ([]entity.SensorReading, error)
}

type PredictionRepo interface {
	Insert(ctx context.Context, result *entity.PredictionResult) error
	Recent(ctx context.Context, limit int) ([]entity.PredictionResult, error)
	LatestByMachine(ctx context.Context, machineID string) (*entity.PredictionResult, error)
}

type StatusCache interface {
	SetStatus(ctx context.Context, machineID string, result *entity.PredictionResult) error
	GetStatus(ctx context.Context, machineID string) (*entity.PredictionResult, error)
}

type AlertPublisher interface {
	Publish(ctx context.Context, body json.RawMessage) error
}

type Predictor interface {
	Predict(ctx context.Context, reading *entity.SensorReading) *entity.PredictionResult
}

// CollectorUseCase runs one collection cycle: acquire a reading, score it,
// persist both, refresh the status cache, and raise an alert on anomaly.
// Persistence and cache failures are logged, never fatal to the cycle.
type CollectorUseCase struct {
	Source         ReadingSource
	Predictor      Predictor
	SensorRepo     SensorDataRepo
	PredictionRepo PredictionRepo
	StatusCache    StatusCache
	Alerts         AlertPublisher
	Metrics        Metrics
}

func NewCollectorUseCase(src ReadingSource, p Predictor, sr SensorDataRepo, pr PredictionRepo, sc StatusCache, ap AlertPublisher, m Metrics) *CollectorUseCase {
	return &CollectorUseCase{
		Source:         src,
		Predictor:      p,
		SensorRepo:     sr,
		PredictionRepo: pr,
		StatusCache:    sc,
		Alerts:         ap,
		Metrics:        m,
	}
}

func (u *CollectorUseCase) Collect(ctx context.Context) (*entity.SensorReading, *entity.PredictionResult) {
	reading := u.Source.Next()

	if err := u.SensorRepo.Insert(ctx, reading); err != nil {
		log.Printf("insert sensor data for machine %s: %v", reading.MachineID, err)
	}

	result := u.Predictor.Predict(ctx, reading)

	if err := u.PredictionRepo.Insert(ctx, result); err != nil {
		log.Printf("insert prediction for machine %s: %v", reading.MachineID, err)
	}

	if err := u.StatusCache.SetStatus(ctx, reading.MachineID, result); err != nil {
		log.Printf("cache status for machine %s: %v", reading.MachineID, err)
	}

	u.Metrics.IncCollectionCycle()

	if result.IsAnomaly {
		u.Metrics.IncAnomalyDetected()
		u.publishAlert(ctx, result)
	}

	return reading, result
}

// MachineStatus returns the most recent prediction for a machine, served
// from the cache when warm and from the store otherwise.
func (u *CollectorUseCase) MachineStatus(ctx context.Context, machineID string) (*entity.PredictionResult, error) {
	if result, err := u.StatusCache.GetStatus(ctx, machineID); err == nil {
		return result, nil
	}
	return u.PredictionRepo.LatestByMachine(ctx, machineID)
}

func (u *CollectorUseCase) RecentReadings(ctx context.Context, limit int) ([]entity.SensorReading, error) {
	return u.SensorRepo.Recent(ctx, limit)
}

func (u *CollectorUseCase) RecentPredictions(ctx context.Context, limit int) ([]entity.PredictionResult, error) {
	return u.PredictionRepo.Recent(ctx, limit)
}

func (u *CollectorUseCase) publishAlert(ctx context.Context, result *entity.PredictionResult) {
	alert := entity.AnomalyAlert{
		AlertID:            uuid.New().String(),
		Timestamp:          result.Timestamp,
		MachineID:          result.MachineID,
		MachineType:        result.MachineType,
		AnomalyProbability: result.AnomalyProbability,
		RecommendedAction:  result.Details.RecommendedAction,
	}

	body, err := utils.ToRawMessage(alert)
	if err != nil {
		log.Printf("marshal anomaly alert: %v", err)
		return
	}

	if err := u.publishWithRetry(ctx, body); err != nil {
		log.Printf("publish anomaly alert for machine %s: %v", result.MachineID, err)
	}
}

func (u *CollectorUseCase) publishWithRetry(ctx context.Context, msg json.RawMessage) error {
	var (
		baseDelay   = 200 * time.Millisecond
		maxDelay    = 2 * time.Second
		maxAttempts = 3
	)

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := u.Alerts.Publish(ctx, msg); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == maxAttempts {
			break
		}

		backoff := baseDelay << (attempt - 1)
		if backoff > maxDelay {
			backoff = maxDelay
		}

		select {
		case <-time.After(backoff):

		case <-ctx.Done():
			return errors.New("publish canceled by context")
		}
	}

	return lastErr
}
