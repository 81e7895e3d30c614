package usecase

import (
	"context"
	"log"
	"math/rand"
	"time"

	"monitor/internal/domain/entity"
)

// Worker scores one reading out of process. Invoke fails with a
// *mlworker.WorkerError on non-zero exit, malformed output, or timeout.
type Worker interface {
	Invoke(ctx context.Context, req entity.WorkerRequest) (*entity.WorkerResponse, error)
}

const fallbackAnomalyThreshold = 0.8

// PredictorUseCase normalizes a reading into the worker request shape,
// invokes the Worker, and degrades to a synthetic result when the worker
// fails. Pipeline availability is prioritized over prediction fidelity:
// Predict never returns an error.
type PredictorUseCase struct {
	Worker  Worker
	Metrics Metrics
}

func NewPredictorUseCase(w Worker, m Metrics) *PredictorUseCase {
	return &PredictorUseCase{Worker: w, Metrics: m}
}

func (u *PredictorUseCase) Predict(ctx context.Context, reading *entity.SensorReading) *entity.PredictionResult {
	resp, err := u.Worker.Invoke(ctx, workerRequest(reading))
	if err != nil {
		log.Printf("inference worker failed for machine %s, substituting fallback: %v", reading.MachineID, err)
		u.Metrics.IncWorkerFailure()
		u.Metrics.IncFallbackResult()
		return fallbackResult(reading)
	}

	return &entity.PredictionResult{
		Timestamp:          reading.Timestamp,
		MachineID:          reading.MachineID,
		MachineType:        reading.MachineType,
		AnomalyProbability: resp.AnomalyProbability,
		IsAnomaly:          resp.IsAnomaly,
		Details:            resp.PredictionDetails,
	}
}

func workerRequest(r *entity.SensorReading) entity.WorkerRequest {
	return entity.WorkerRequest{
		Timestamp:       r.Timestamp.UTC().Format(time.RFC3339Nano),
		Vibration:       r.Vibration,
		Temperature:     r.Temperature,
		Pressure:        r.Pressure,
		FlowRate:        r.FlowRate,
		RotationalSpeed: r.RotationalSpeed,
		MachineType:     string(r.MachineType),
		MachineID:       r.MachineID,
		Role:            r.Role,
	}
}

// fallbackResult fabricates a prediction so the collection pipeline keeps
// moving when the worker is down. isAnomaly derives from the sampled
// probability; confidence lands in [0.7, 1.0].
func fallbackResult(r *entity.SensorReading) *entity.PredictionResult {
	probability := rand.Float64()
	isAnomaly := probability > fallbackAnomalyThreshold

	action := "No action required"
	if isAnomaly {
		action = "Inspect immediately"
	}

	return &entity.PredictionResult{
		Timestamp:          r.Timestamp,
		MachineID:          r.MachineID,
		MachineType:        r.MachineType,
		AnomalyProbability: probability,
		IsAnomaly:          isAnomaly,
		Details: entity.PredictionDetails{
			Confidence:        0.7 + 0.3*rand.Float64(),
			RecommendedAction: action,
		},
	}
}
