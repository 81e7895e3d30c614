package usecase

import (
	"context"
	"testing"
	"time"

	"monitor/internal/domain/entity"
	"monitor/internal/observability"
	"monitor/internal/repository/mlworker"
)

type fakeWorker struct {
	resp *entity.WorkerResponse
	err  error

	lastReq entity.WorkerRequest
}

func (f *fakeWorker) Invoke(_ context.Context, req entity.WorkerRequest) (*entity.WorkerResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testReading() *entity.SensorReading {
	return &entity.SensorReading{
		Timestamp:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		MachineID:       "M001",
		MachineType:     entity.MachinePump,
		Vibration:       5.23,
		Temperature:     75.42,
		Pressure:        3.14,
		FlowRate:        25.67,
		RotationalSpeed: 3500.00,
		Role:            "System",
	}
}

func TestPredictPassesWorkerResultThrough(t *testing.T) {
	worker := &fakeWorker{
		resp: &entity.WorkerResponse{
			MachineID:          "M001",
			MachineType:        "Pump",
			AnomalyProbability: 0.42,
			IsAnomaly:          false,
			PredictionDetails: entity.PredictionDetails{
				Confidence:        0.58,
				RecommendedAction: "No action required",
			},
		},
	}
	uc := NewPredictorUseCase(worker, observability.Nop{})

	result := uc.Predict(context.Background(), testReading())

	if result.AnomalyProbability != 0.42 {
		t.Fatalf("expected worker probability verbatim, got %f", result.AnomalyProbability)
	}
	if result.IsAnomaly {
		t.Fatal("expected worker anomaly flag verbatim")
	}
	if result.Details.Confidence != 0.58 || result.Details.RecommendedAction != "No action required" {
		t.Fatalf("unexpected details: %+v", result.Details)
	}
	if worker.lastReq.MachineID != "M001" || worker.lastReq.Vibration != 5.23 {
		t.Fatalf("worker request not normalized from reading: %+v", worker.lastReq)
	}
}

func TestPredictSubstitutesFallbackOnWorkerFailure(t *testing.T) {
	worker := &fakeWorker{err: &mlworker.WorkerError{ExitCode: 1, Stderr: "model load failed"}}
	uc := NewPredictorUseCase(worker, observability.Nop{})

	result := uc.Predict(context.Background(), testReading())

	if result == nil {
		t.Fatal("predict must never return nil on worker failure")
	}
	if result.MachineID != "M001" || result.MachineType != entity.MachinePump {
		t.Fatalf("fallback must keep machine identity, got %s/%s", result.MachineID, result.MachineType)
	}
	if result.AnomalyProbability < 0 || result.AnomalyProbability > 1 {
		t.Fatalf("fallback probability out of [0,1]: %f", result.AnomalyProbability)
	}
	if result.Details.Confidence < 0.7 || result.Details.Confidence > 1.0 {
		t.Fatalf("fallback confidence out of [0.7,1.0]: %f", result.Details.Confidence)
	}
	if result.IsAnomaly != (result.AnomalyProbability > 0.8) {
		t.Fatalf("fallback isAnomaly must derive from probability: p=%f flag=%v",
			result.AnomalyProbability, result.IsAnomaly)
	}
}

func TestPredictFallbackActionMatchesFlag(t *testing.T) {
	worker := &fakeWorker{err: &mlworker.WorkerError{ExitCode: 1}}
	uc := NewPredictorUseCase(worker, observability.Nop{})

	// The fallback samples its probability, so exercise it repeatedly.
	for i := 0; i < 200; i++ {
		result := uc.Predict(context.Background(), testReading())
		want := "No action required"
		if result.IsAnomaly {
			want = "Inspect immediately"
		}
		if result.Details.RecommendedAction != want {
			t.Fatalf("action %q does not match anomaly flag %v", result.Details.RecommendedAction, result.IsAnomaly)
		}
	}
}
