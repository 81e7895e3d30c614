package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"monitor/internal/domain/entity"
)

// Generator is the external text-generation endpoint.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AnalysisRepo interface {
	Insert(ctx context.Context, record *entity.AnalysisRecord) error
	Recent(ctx context.Context, limit int) ([]entity.AnalysisRecord, error)
}

// contextLimit is how many recent readings and predictions back one
// analysis request. Fixed, not caller-configurable.
const contextLimit = 100

// AnalysisUseCase answers free-text questions about the accumulated data:
// it assembles recent context, prompts the generation endpoint, persists
// the exchange, and returns the full context snapshot with the answer.
type AnalysisUseCase struct {
	SensorRepo     SensorDataRepo
	PredictionRepo PredictionRepo
	AnalysisRepo   AnalysisRepo
	Generator      Generator
	Metrics        Metrics
}

func NewAnalysisUseCase(sr SensorDataRepo, pr PredictionRepo, ar AnalysisRepo, g Generator, m Metrics) *AnalysisUseCase {
	return &AnalysisUseCase{
		SensorRepo:     sr,
		PredictionRepo: pr,
		AnalysisRepo:   ar,
		Generator:      g,
		Metrics:        m,
	}
}

func (u *AnalysisUseCase) Analyze(ctx context.Context, query string) (*entity.AnalysisRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrMissingQuery
	}

	readings, err := u.SensorRepo.Recent(ctx, contextLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: load sensor context: %v", ErrAnalysisFailed, err)
	}

	predictions, err := u.PredictionRepo.Recent(ctx, contextLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: load prediction context: %v", ErrAnalysisFailed, err)
	}

	snapshot := entity.ContextSnapshot{
		SensorData:  readings,
		Predictions: predictions,
	}

	start := time.Now()
	resultText, err := u.Generator.Generate(ctx, buildPrompt(query, snapshot))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	u.Metrics.ObserveAnalysisSeconds(time.Since(start).Seconds())

	record := &entity.AnalysisRecord{
		ID:          uuid.New().String(),
		Query:       query,
		Result:      resultText,
		ContextData: snapshot,
		CreatedAt:   time.Now().UTC(),
	}

	// The answer is already computed; a failed insert must not invalidate it.
	if err := u.AnalysisRepo.Insert(ctx, record); err != nil {
		log.Printf("insert analysis record: %v", err)
	}

	return record, nil
}

func (u *AnalysisUseCase) RecentAnalyses(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	return u.AnalysisRepo.Recent(ctx, limit)
}

func buildPrompt(query string, snapshot entity.ContextSnapshot) string {
	contextJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		contextJSON = []byte("{}")
	}

	return fmt.Sprintf(`You are an industrial equipment maintenance analyst.
Below are the most recent sensor readings and anomaly predictions for the monitored machines, newest first.

%s

Question: %s

Answer the question using only the data provided above. If the data does not contain the answer, say so.`, contextJSON, query)
}
