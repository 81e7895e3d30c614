package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"monitor/internal/domain/entity"
	"monitor/internal/observability"
)

type fakeSource struct {
	mu sync.Mutex
	n  int
}

func (f *fakeSource) Next() *entity.SensorReading {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return &entity.SensorReading{
		Timestamp:   time.Now().UTC(),
		MachineID:   fmt.Sprintf("M%03d", f.n),
		MachineType: entity.MachinePump,
	}
}

type fakeSensorRepo struct {
	mu        sync.Mutex
	readings  []entity.SensorReading
	insertErr error
}

func (f *fakeSensorRepo) Insert(_ context.Context, r *entity.SensorReading) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readings = append(f.readings, *r)
	return nil
}

func (f *fakeSensorRepo) Recent(_ context.Context, limit int) ([]entity.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.readings) > limit {
		return f.readings[:limit], nil
	}
	return f.readings, nil
}

type fakePredictionRepo struct {
	mu        sync.Mutex
	results   []entity.PredictionResult
	insertErr error
}

func (f *fakePredictionRepo) Insert(_ context.Context, r *entity.PredictionResult) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, *r)
	return nil
}

func (f *fakePredictionRepo) Recent(_ context.Context, limit int) ([]entity.PredictionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) > limit {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func (f *fakePredictionRepo) LatestByMachine(_ context.Context, machineID string) (*entity.PredictionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.results) - 1; i >= 0; i-- {
		if f.results[i].MachineID == machineID {
			r := f.results[i]
			return &r, nil
		}
	}
	return nil, errors.New("not found")
}

type fakeStatusCache struct {
	mu     sync.Mutex
	status map[string]*entity.PredictionResult
	getErr error
	setErr error
}

func (f *fakeStatusCache) SetStatus(_ context.Context, machineID string, r *entity.PredictionResult) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == nil {
		f.status = map[string]*entity.PredictionResult{}
	}
	f.status[machineID] = r
	return nil
}

func (f *fakeStatusCache) GetStatus(_ context.Context, machineID string) (*entity.PredictionResult, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.status[machineID]; ok {
		return r, nil
	}
	return nil, errors.New("cache miss")
}

type fakePublisher struct {
	mu     sync.Mutex
	bodies []json.RawMessage
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, body json.RawMessage) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body)
	return nil
}

type fixedPredictor struct {
	result entity.PredictionResult
}

func (f *fixedPredictor) Predict(_ context.Context, r *entity.SensorReading) *entity.PredictionResult {
	out := f.result
	out.MachineID = r.MachineID
	out.MachineType = r.MachineType
	out.Timestamp = r.Timestamp
	return &out
}

func newCollectorForTest(p Predictor) (*CollectorUseCase, *fakeSensorRepo, *fakePredictionRepo, *fakeStatusCache, *fakePublisher) {
	sr := &fakeSensorRepo{}
	pr := &fakePredictionRepo{}
	sc := &fakeStatusCache{}
	pub := &fakePublisher{}
	uc := NewCollectorUseCase(&fakeSource{}, p, sr, pr, sc, pub, observability.Nop{})
	return uc, sr, pr, sc, pub
}

func TestCollectPersistsReadingAndPrediction(t *testing.T) {
	uc, sr, pr, sc, _ := newCollectorForTest(&fixedPredictor{
		result: entity.PredictionResult{AnomalyProbability: 0.1},
	})

	reading, result := uc.Collect(context.Background())

	if reading == nil || result == nil {
		t.Fatal("collect must return the reading and its prediction")
	}
	if len(sr.readings) != 1 || len(pr.results) != 1 {
		t.Fatalf("expected one reading and one prediction persisted, got %d/%d", len(sr.readings), len(pr.results))
	}
	if sr.readings[0].MachineID != pr.results[0].MachineID {
		t.Fatal("prediction not traceable to its reading")
	}
	if sc.status[reading.MachineID] == nil {
		t.Fatal("status cache not refreshed")
	}
}

func TestCollectSurvivesPersistenceFailures(t *testing.T) {
	uc, sr, pr, sc, _ := newCollectorForTest(&fixedPredictor{
		result: entity.PredictionResult{AnomalyProbability: 0.1},
	})
	sr.insertErr = errors.New("db down")
	pr.insertErr = errors.New("db down")
	sc.setErr = errors.New("redis down")

	reading, result := uc.Collect(context.Background())

	if reading == nil || result == nil {
		t.Fatal("collect must still return the in-memory results when persistence fails")
	}
}

func TestCollectPublishesAlertOnAnomaly(t *testing.T) {
	uc, _, _, _, pub := newCollectorForTest(&fixedPredictor{
		result: entity.PredictionResult{
			AnomalyProbability: 0.95,
			IsAnomaly:          true,
			Details:            entity.PredictionDetails{RecommendedAction: "Inspect immediately"},
		},
	})

	uc.Collect(context.Background())

	if len(pub.bodies) != 1 {
		t.Fatalf("expected one alert published, got %d", len(pub.bodies))
	}
	var alert entity.AnomalyAlert
	if err := json.Unmarshal(pub.bodies[0], &alert); err != nil {
		t.Fatalf("alert body not valid JSON: %v", err)
	}
	if alert.AnomalyProbability != 0.95 || alert.AlertID == "" {
		t.Fatalf("unexpected alert payload: %+v", alert)
	}
}

func TestCollectConcurrentCyclesPersistIndependently(t *testing.T) {
	uc, sr, pr, _, _ := newCollectorForTest(&fixedPredictor{
		result: entity.PredictionResult{AnomalyProbability: 0.2},
	})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.Collect(context.Background())
		}()
	}
	wg.Wait()

	if len(sr.readings) != 2 || len(pr.results) != 2 {
		t.Fatalf("expected two independent rows each, got %d readings / %d predictions", len(sr.readings), len(pr.results))
	}
	if pr.results[0].MachineID == pr.results[1].MachineID {
		t.Fatal("each prediction must trace to a distinct reading")
	}
}

func TestMachineStatusFallsBackToStore(t *testing.T) {
	uc, _, pr, sc, _ := newCollectorForTest(&fixedPredictor{})
	sc.getErr = errors.New("redis down")
	pr.results = []entity.PredictionResult{{MachineID: "M007", AnomalyProbability: 0.3}}

	result, err := uc.MachineStatus(context.Background(), "M007")
	if err != nil {
		t.Fatalf("expected store fallback, got %v", err)
	}
	if result.MachineID != "M007" {
		t.Fatalf("wrong machine: %+v", result)
	}
}
